package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"recall/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Records
	SQLitePath string

	// Embeddings (optional; empty URL disables the semantic search pass)
	EmbeddingURL    string
	EmbeddingAPIKey string
	EmbeddingModel  string

	// Graph layout canvas
	CanvasWidth  float64
	CanvasHeight float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		SQLitePath:      getEnv("SQLITE_PATH", "recall.db"),
		EmbeddingURL:    getEnv("EMBEDDING_URL", ""),
		EmbeddingAPIKey: getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		CanvasWidth:     getEnvFloat("GRAPH_CANVAS_WIDTH", 1000),
		CanvasHeight:    getEnvFloat("GRAPH_CANVAS_HEIGHT", 700),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.SQLitePath == "" {
		return errors.NewConfigMissingRequired("SQLITE_PATH")
	}
	if c.EmbeddingURL != "" && c.EmbeddingModel == "" {
		return errors.NewConfigMissingRequired("EMBEDDING_MODEL")
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("graph canvas dimensions must be positive")
	}
	// Embedding URL and API key are optional; search degrades to keyword-only
	return nil
}

// HasEmbeddings returns true if an embedding provider is configured
func (c *Config) HasEmbeddings() bool {
	return c.EmbeddingURL != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
