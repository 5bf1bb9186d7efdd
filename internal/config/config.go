package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	ChatModel      string `envconfig:"CHAT_MODEL"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL"`

	// Retrieval tuning
	SearchTopK          int     `envconfig:"SEARCH_TOP_K" default:"5"`
	SearchMinSimilarity float32 `envconfig:"SEARCH_MIN_SIMILARITY" default:"0.5"`
	HistoryLimit        int     `envconfig:"HISTORY_LIMIT" default:"10"`

	// Optional S3-compatible catalog source; the built-in fixture catalog
	// is used when unset.
	S3Endpoint   string `envconfig:"S3_ENDPOINT"`
	S3AccessKey  string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey  string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket     string `envconfig:"S3_BUCKET" default:"commerce-catalog"`
	S3Region     string `envconfig:"S3_REGION" default:"us-east-1"`
	S3CatalogKey string `envconfig:"S3_CATALOG_KEY" default:"catalog.json"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("COMMERCE", &cfg); err != nil {
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

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
