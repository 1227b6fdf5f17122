package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors the on-disk pipeline.yaml shape.
type yamlConfig struct {
	Workflow *WorkflowConfig `yaml:"workflow"`
	Ingest   *IngestConfig   `yaml:"ingest"`
	Crawl    *CrawlConfig    `yaml:"crawl"`
	Video    *VideoConfig    `yaml:"video"`
	LLM      *LLMConfig      `yaml:"llm"`
	Store    *StoreConfig    `yaml:"store"`
	API      *APIConfig      `yaml:"api"`
}

// Initialize loads, merges, and validates configuration, the same way
// tarsy's config.Initialize does: load YAML → expand env vars → merge onto
// built-in defaults → validate.
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	_ = ctx
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg := defaultConfig()
	cfg.configDir = configDir

	path := filepath.Join(configDir, "pipeline.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("No pipeline.yaml found, using built-in defaults", "path", path)
			if verr := Validate(cfg); verr != nil {
				return nil, verr
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	expanded := os.Expand(string(raw), func(key string) string {
		return os.Getenv(key)
	})

	var parsed yamlConfig
	if err := yaml.Unmarshal([]byte(expanded), &parsed); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := mergeInto(cfg, &parsed); err != nil {
		return nil, fmt.Errorf("merging configuration: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeInto merges the parsed user overrides onto the built-in defaults,
// with user values winning (mergo.WithOverride), mirroring tarsy's
// built-in+user merge step.
func mergeInto(cfg *Config, parsed *yamlConfig) error {
	if parsed.Workflow != nil {
		if err := mergo.Merge(cfg.Workflow, parsed.Workflow, mergo.WithOverride); err != nil {
			return err
		}
	}
	if parsed.Ingest != nil {
		if err := mergo.Merge(cfg.Ingest, parsed.Ingest, mergo.WithOverride); err != nil {
			return err
		}
	}
	if parsed.Crawl != nil {
		if err := mergo.Merge(cfg.Crawl, parsed.Crawl, mergo.WithOverride); err != nil {
			return err
		}
	}
	if parsed.Video != nil {
		if err := mergo.Merge(cfg.Video, parsed.Video, mergo.WithOverride); err != nil {
			return err
		}
	}
	if parsed.LLM != nil {
		if err := mergo.Merge(cfg.LLM, parsed.LLM, mergo.WithOverride); err != nil {
			return err
		}
	}
	if parsed.Store != nil {
		if err := mergo.Merge(cfg.Store, parsed.Store, mergo.WithOverride); err != nil {
			return err
		}
	}
	if parsed.API != nil {
		if err := mergo.Merge(cfg.API, parsed.API, mergo.WithOverride); err != nil {
			return err
		}
	}
	return nil
}
