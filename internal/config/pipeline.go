package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "configs/pipeline.yaml"

// Config is the YAML configuration of the search pipeline.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Search     SearchConfig     `yaml:"search"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

// PipelineConfig holds the decoding and ranking tunables.
type PipelineConfig struct {
	AttributeThreshold  float64 `yaml:"attribute_threshold"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	MaxResults          int     `yaml:"max_results"`
}

// SearchConfig describes the product search GraphQL API.
type SearchConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Domain   string        `yaml:"domain"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ClassifierConfig describes the model serving sidecar. An empty URL leaves
// image search disabled.
type ClassifierConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		Pipeline: PipelineConfig{
			AttributeThreshold:  0.5,
			SimilarityThreshold: 0.4,
			MaxResults:          10,
		},
		Search: SearchConfig{
			Endpoint: "https://graphql.canopyapi.co/",
			Domain:   "CA",
			Timeout:  10 * time.Second,
		},
		Classifier: ClassifierConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// LoadPipelineConfig reads the YAML file named by PIPELINE_CONFIG_PATH, or
// configs/pipeline.yaml. Keys missing from the file keep their defaults.
func LoadPipelineConfig() (*Config, error) {
	path := os.Getenv("PIPELINE_CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Search.Endpoint == "" {
		cfg.Search.Endpoint = defaults.Search.Endpoint
	}
	if cfg.Search.Domain == "" {
		cfg.Search.Domain = defaults.Search.Domain
	}
	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = defaults.Search.Timeout
	}
	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = defaults.Classifier.Timeout
	}
}

func (c *Config) Validate() error {
	if c.Pipeline.AttributeThreshold < 0 || c.Pipeline.AttributeThreshold > 1 {
		return fmt.Errorf("invalid attribute_threshold %v: must be within [0, 1]", c.Pipeline.AttributeThreshold)
	}
	if c.Pipeline.SimilarityThreshold < 0 || c.Pipeline.SimilarityThreshold > 1 {
		return fmt.Errorf("invalid similarity_threshold %v: must be within [0, 1]", c.Pipeline.SimilarityThreshold)
	}
	if c.Pipeline.MaxResults < 0 {
		return fmt.Errorf("invalid max_results %d: must not be negative", c.Pipeline.MaxResults)
	}
	if c.Search.Timeout < 0 || c.Classifier.Timeout < 0 {
		return fmt.Errorf("negative timeout")
	}
	return nil
}
