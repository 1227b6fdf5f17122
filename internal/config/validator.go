package config

import "fmt"

// Validate checks that every sub-config is internally consistent. Mirrors
// tarsy's config.Validate step — called once at the end of Initialize.
func Validate(cfg *Config) error {
	if cfg.Workflow.IngestionBatchSize <= 0 {
		return fmt.Errorf("%w: workflow.ingestion_batch_size must be > 0", ErrInvalidConfig)
	}
	if cfg.Workflow.URLExplorationBatchSize <= 0 {
		return fmt.Errorf("%w: workflow.url_exploration_batch_size must be > 0", ErrInvalidConfig)
	}
	if cfg.Workflow.FrameBatchSize <= 0 {
		return fmt.Errorf("%w: workflow.frame_batch_size must be > 0", ErrInvalidConfig)
	}
	if cfg.Workflow.MinWorkers <= 0 {
		return fmt.Errorf("%w: workflow.min_workers must be > 0", ErrInvalidConfig)
	}
	if cfg.Workflow.MaxWorkers < cfg.Workflow.MinWorkers {
		return fmt.Errorf("%w: workflow.max_workers must be >= min_workers", ErrInvalidConfig)
	}
	if cfg.Ingest.MaxTokensPerChunk <= 0 {
		return fmt.Errorf("%w: ingest.max_tokens_per_chunk must be > 0", ErrInvalidConfig)
	}
	if cfg.Crawl.Strategy != "bfs" && cfg.Crawl.Strategy != "dfs" {
		return fmt.Errorf("%w: crawl.strategy must be bfs or dfs, got %q", ErrInvalidConfig, cfg.Crawl.Strategy)
	}
	if cfg.Video.SSIMThreshold <= 0 || cfg.Video.SSIMThreshold > 1 {
		return fmt.Errorf("%w: video.ssim_threshold must be in (0,1]", ErrInvalidConfig)
	}
	if cfg.LLM.PrimaryProvider == "" {
		return fmt.Errorf("%w: llm.primary_provider is required", ErrInvalidConfig)
	}
	return nil
}
