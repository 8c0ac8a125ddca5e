package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	ExaAPIKey  string `envconfig:"EXA_API_KEY"`
	ExaBaseURL string `envconfig:"EXA_BASE_URL"`

	PerplexityAPIKey  string `envconfig:"PERPLEXITY_API_KEY"`
	PerplexityBaseURL string `envconfig:"PERPLEXITY_BASE_URL"`
	PerplexityModel   string `envconfig:"PERPLEXITY_MODEL"`

	// UpstreamTimeout bounds each external service call. The pipeline
	// itself never retries, so a stuck upstream would otherwise hold the
	// request open indefinitely.
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"8s"`

	// Optional: search analytics log
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Optional: uploaded image archive
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"sitelens-images"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("SITELENS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasExa() bool {
	return c.ExaAPIKey != ""
}

func (c *Config) HasPerplexity() bool {
	return c.PerplexityAPIKey != ""
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
