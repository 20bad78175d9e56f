package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/classifier"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/config"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/decoder"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/pipeline"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/retriever"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/taxonomy"
	"github.com/rs/zerolog"
)

// Config holds the environment settings shared by every command.
type Config struct {
	SearchAPIKey  string
	ClassifierURL string
	APIPort       string
	RedisAddr     string
	RedisPassword string
	LogLevel      string
	Hostname      string

	// Overrides for the YAML pipeline config. Negative means unset.
	AttributeThreshold  float64
	SimilarityThreshold float64
	MaxResults          int
}

type Dependencies struct {
	Config   *config.Config
	Taxonomy *taxonomy.Taxonomy
	Decoder  *decoder.Decoder
	Executor *pipeline.Executor
	Logger   *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		SearchAPIKey:        getEnv("SEARCH_API_KEY", ""),
		ClassifierURL:       getEnv("CLASSIFIER_URL", ""),
		APIPort:             getEnv("API_PORT", "18080"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Hostname:            getEnv("HOSTNAME", "fashion-finder"),
		AttributeThreshold:  getEnvFloat("ATTRIBUTE_THRESHOLD", -1),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", -1),
		MaxResults:          getEnvInt("MAX_RESULTS", -1),
	}
}

// Wire loads the pipeline config and builds the long lived components. The
// classifier client is only created when CLASSIFIER_URL or classifier.url is
// set; without it image search fails with pipeline.ErrClassifierNotConfigured.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	pipelineCfg, err := config.LoadPipelineConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline config: %w", err)
	}

	if err := applyOverrides(pipelineCfg, cfg); err != nil {
		return nil, err
	}

	return WireWithConfig(ctx, cfg, pipelineCfg, logger)
}

func WireWithConfig(_ context.Context, cfg *Config, pipelineCfg *config.Config, logger *zerolog.Logger) (*Dependencies, error) {
	tax := taxonomy.Default()
	dec := decoder.NewDecoder(tax, pipelineCfg.Pipeline.AttributeThreshold)

	if cfg.SearchAPIKey == "" {
		logger.Warn().Msg("SEARCH_API_KEY is not set, product search requests will be rejected")
	}

	searchClient, err := retriever.NewGraphQLClient(retriever.ClientConfig{
		Endpoint:            pipelineCfg.Search.Endpoint,
		APIKey:              cfg.SearchAPIKey,
		Domain:              pipelineCfg.Search.Domain,
		Timeout:             pipelineCfg.Search.Timeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	var imageClassifier pipeline.Classifier
	if url := classifierURL(cfg, pipelineCfg); url != "" {
		client, err := classifier.NewClient(url, pipelineCfg.Classifier.Timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create classifier client: %w", err)
		}
		imageClassifier = client

		logger.Info().Str("url", url).Msg("Classifier client initialized")
	} else {
		logger.Warn().Msg("CLASSIFIER_URL is not set, image search is disabled")
	}

	exec := pipeline.NewExecutor(
		tax,
		dec,
		searchClient,
		imageClassifier,
		pipeline.Options{
			MaxResults:          pipelineCfg.Pipeline.MaxResults,
			SimilarityThreshold: pipelineCfg.Pipeline.SimilarityThreshold,
		},
		logger,
	)

	logger.Info().
		Float64("attribute_threshold", pipelineCfg.Pipeline.AttributeThreshold).
		Float64("similarity_threshold", pipelineCfg.Pipeline.SimilarityThreshold).
		Int("max_results", pipelineCfg.Pipeline.MaxResults).
		Str("search_domain", pipelineCfg.Search.Domain).
		Msg("Pipeline wired")

	return &Dependencies{
		Config:   pipelineCfg,
		Taxonomy: tax,
		Decoder:  dec,
		Executor: exec,
		Logger:   logger,
	}, nil
}

func classifierURL(cfg *Config, pipelineCfg *config.Config) string {
	if cfg.ClassifierURL != "" {
		return cfg.ClassifierURL
	}
	return pipelineCfg.Classifier.URL
}

func applyOverrides(pipelineCfg *config.Config, cfg *Config) error {
	if cfg.AttributeThreshold >= 0 {
		pipelineCfg.Pipeline.AttributeThreshold = cfg.AttributeThreshold
	}
	if cfg.SimilarityThreshold >= 0 {
		pipelineCfg.Pipeline.SimilarityThreshold = cfg.SimilarityThreshold
	}
	if cfg.MaxResults >= 0 {
		pipelineCfg.Pipeline.MaxResults = cfg.MaxResults
	}
	return pipelineCfg.Validate()
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
