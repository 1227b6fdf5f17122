package config

import "time"

// DefaultWorkflowConfig returns the built-in orchestrator defaults, matching
// the batch sizes and retry policy.
func DefaultWorkflowConfig() *WorkflowConfig {
	return &WorkflowConfig{
		IngestionBatchSize: 5,
		URLExplorationBatchSize: 3,
		FrameBatchSize: 10,
		MaxHistoryEvents: 10000,
		ActivityInitialBackoff: 1 * time.Second,
		ActivityMaxBackoff: 60 * time.Second,
		ActivityMaxAttempts: 5,
		HeartbeatInterval: 10 * time.Second,
		HeartbeatTimeout: 15 * time.Minute,
		ActivityTotalTimeout: 2 * time.Hour,
		QueueName: "knowledge-retrieval",
		MinWorkers: 1,
		MaxWorkers: 5,
		ScaleUpThreshold: 5,
		ScaleDownThreshold: 0,
		ScaleCooldown: 30 * time.Second,
		ScaleCheckInterval: 10 * time.Second,
		QueueCapacity: 100,
	}
}

// DefaultIngestConfig returns the built-in ingestion defaults.
func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		MaxTokensPerChunk: 2000,
		TokenizerEncoding: "cl100k_base",
	}
}

// DefaultCrawlConfig returns the built-in crawler defaults.
func DefaultCrawlConfig() *CrawlConfig {
	return &CrawlConfig{
		MaxPages: 50,
		MaxDepth: 3,
		Strategy: "bfs",
		RespectRobots: true,
	}
}

// DefaultVideoConfig returns the built-in video sub-pipeline defaults.
func DefaultVideoConfig() *VideoConfig {
	return &VideoConfig{
		FrameIntervalSeconds: 2.0,
		MinFrameWidth: 50,
		MinFrameHeight: 50,
		SSIMThreshold: 0.95,
		VisionBatchSize: 10,
		ResultsS3Prefix: "video-batches/",
	}
}

// DefaultLLMConfig returns the built-in LLM client defaults.
func DefaultLLMConfig() *LLMConfig {
	return &LLMConfig{
		PrimaryProvider: "anthropic",
		SecondaryProvider: "anthropic-fallback",
		Model: "claude-sonnet-4-20250514",
		SecondaryModel: "claude-haiku-4-20250514",
		RequestTimeout: 90 * time.Second,
		BreakerMaxFailures: 5,
		BreakerResetTimeout: 30 * time.Second,
		JSONRetryOnParseFail: true,
	}
}

// DefaultStoreConfig returns the built-in store defaults.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Postgres: PostgresConfig{
			Host: "localhost",
			Port: 5432,
			User: "knowledgepipeline",
			Database: "knowledgepipeline",
			SSLMode: "disable",
			MaxOpenConns: 20,
			MaxIdleConns: 5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			DB: 0,
		},
	}
}

// DefaultAPIConfig returns the built-in API server defaults.
func DefaultAPIConfig() *APIConfig {
	return &APIConfig{
		HTTPPort: "8080",
		GinMode: "release",
	}
}

// defaultConfig assembles every default sub-config into one Config.
func defaultConfig() *Config {
	return &Config{
		Workflow: DefaultWorkflowConfig(),
		Ingest: DefaultIngestConfig(),
		Crawl: DefaultCrawlConfig(),
		Video: DefaultVideoConfig(),
		LLM: DefaultLLMConfig(),
		Store: DefaultStoreConfig(),
		API: DefaultAPIConfig(),
	}
}
