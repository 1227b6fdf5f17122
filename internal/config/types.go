// Package config loads and validates the pipeline's YAML configuration,
// following the layered load→merge→default→validate pipeline tarsy's
// pkg/config package uses.
package config

import "time"

// Config is the umbrella configuration object returned by Initialize and
// threaded through the workflow, ingesters, and API server.
type Config struct {
	configDir string

	Workflow *WorkflowConfig `yaml:"workflow"`
	Ingest   *IngestConfig   `yaml:"ingest"`
	Crawl    *CrawlConfig    `yaml:"crawl"`
	Video    *VideoConfig    `yaml:"video"`
	LLM      *LLMConfig      `yaml:"llm"`
	Store    *StoreConfig    `yaml:"store"`
	API      *APIConfig      `yaml:"api"`
}

// ConfigDir returns the directory configuration was loaded from.
func (c *Config) ConfigDir() string { return c.configDir }

// WorkflowConfig controls orchestrator-level batching and history limits,
// plus the job-queue autoscaling knobs pkg/workflow.Pool reads (the Go
// equivalent of a JobTypeConfig entry in a subprocess-per-worker queue
// manager: min/max workers, the queue-length thresholds that trigger a
// scaling step, and the cooldown between steps).
type WorkflowConfig struct {
	IngestionBatchSize      int           `yaml:"ingestion_batch_size"`
	URLExplorationBatchSize int           `yaml:"url_exploration_batch_size"`
	FrameBatchSize          int           `yaml:"frame_batch_size"`
	MaxHistoryEvents        int           `yaml:"max_history_events"`
	ActivityInitialBackoff  time.Duration `yaml:"activity_initial_backoff"`
	ActivityMaxBackoff      time.Duration `yaml:"activity_max_backoff"`
	ActivityMaxAttempts     int           `yaml:"activity_max_attempts"`
	HeartbeatInterval       time.Duration `yaml:"heartbeat_interval"`
	HeartbeatTimeout        time.Duration `yaml:"heartbeat_timeout"`
	ActivityTotalTimeout    time.Duration `yaml:"activity_total_timeout"`

	QueueName          string        `yaml:"queue_name"`
	MinWorkers         int           `yaml:"min_workers"`
	MaxWorkers         int           `yaml:"max_workers"`
	ScaleUpThreshold   int           `yaml:"scale_up_threshold"`
	ScaleDownThreshold int           `yaml:"scale_down_threshold"`
	ScaleCooldown      time.Duration `yaml:"scale_cooldown"`
	ScaleCheckInterval time.Duration `yaml:"scale_check_interval"`
	QueueCapacity      int           `yaml:"queue_capacity"`
}

// IngestConfig controls documentation/chunking defaults.
type IngestConfig struct {
	MaxTokensPerChunk int    `yaml:"max_tokens_per_chunk"`
	TokenizerEncoding string `yaml:"tokenizer_encoding"`
}

// CrawlConfig controls site-crawler defaults.
type CrawlConfig struct {
	MaxPages    int    `yaml:"max_pages"`
	MaxDepth    int    `yaml:"max_depth"`
	Strategy    string `yaml:"strategy"` // "bfs" or "dfs"
	RespectRobots bool `yaml:"respect_robots"`
}

// VideoConfig controls the video sub-pipeline.
type VideoConfig struct {
	FrameIntervalSeconds float64 `yaml:"frame_interval_seconds"`
	MinFrameWidth        int     `yaml:"min_frame_width"`
	MinFrameHeight       int     `yaml:"min_frame_height"`
	SSIMThreshold        float64 `yaml:"ssim_threshold"`
	VisionBatchSize      int     `yaml:"vision_batch_size"`
	ResultsS3Prefix       string `yaml:"results_s3_prefix"`
}

// LLMConfig controls provider selection, timeouts, and circuit-breaker
// thresholds for the LLM client.
type LLMConfig struct {
	PrimaryProvider       string        `yaml:"primary_provider"`
	SecondaryProvider     string        `yaml:"secondary_provider"`
	Model                 string        `yaml:"model"`
	SecondaryModel        string        `yaml:"secondary_model"`
	RequestTimeout        time.Duration `yaml:"request_timeout"`
	BreakerMaxFailures    uint32        `yaml:"breaker_max_failures"`
	BreakerResetTimeout   time.Duration `yaml:"breaker_reset_timeout"`
	JSONRetryOnParseFail  bool          `yaml:"json_retry_on_parse_fail"`
}

// StoreConfig controls the document store and idempotency cache.
type StoreConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// PostgresConfig holds connection settings for the document store.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// RedisConfig holds connection settings for the idempotency/checkpoint cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// APIConfig controls the REST/WebSocket surface.
type APIConfig struct {
	HTTPPort         string   `yaml:"http_port"`
	GinMode          string   `yaml:"gin_mode"`
	AllowedWSOrigins []string `yaml:"allowed_ws_origins"`
}
