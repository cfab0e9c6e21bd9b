package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Database DatabaseConfig
	Solr     SolrConfig
	Indexer  IndexerConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	Timeout  time.Duration
	SSLMode  string
}

type SolrConfig struct {
	BaseURL  string
	User     string
	Password string
	Timeout  time.Duration
}

type IndexerConfig struct {
	BatchLength int
	// IndexesFile points at the JSON file the index registry is built from.
	IndexesFile string
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

type AuthConfig struct {
	// ServiceSecret signs and validates inter-service tokens for the
	// reindex endpoint.
	ServiceSecret string
}

func Load() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnvRequired("DB_HOST"),
		Port:     getEnvRequired("DB_PORT"),
		Name:     getEnvRequired("DB_NAME"),
		User:     getEnvRequired("SOLR_INDEXER_DB_USER"),
		Password: getEnvRequired("SOLR_INDEXER_DB_PASSWORD"),
		Timeout:  DBTimeout,
		SSLMode:  getEnvOrDefault("DB_SSL_MODE", "prefer"),
	}

	if err := validateSSLMode(dbConfig.SSLMode); err != nil {
		slog.Error("Invalid SSL configuration", "error", err)
		return nil, fmt.Errorf("SSL configuration error: %w", err)
	}

	cfg := &Config{
		Database: dbConfig,
		Solr: SolrConfig{
			BaseURL:  getEnvRequired("SOLR_BASE_URL"),
			User:     getEnvOrDefault("SOLR_USER", ""),
			Password: getEnvOrDefault("SOLR_PASSWORD", ""),
			Timeout:  SolrTimeout,
		},
		Indexer: IndexerConfig{
			BatchLength: IndexBatchLength,
			IndexesFile: getEnvOrDefault("INDEXES_FILE", "indexes.json"),
		},
		HTTP: HTTPConfig{
			Addr:              HTTPAddr,
			ReadHeaderTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			ServiceSecret: getEnvOrDefault("SERVICE_SECRET", ""),
		},
	}

	slog.Info("Configuration loaded",
		"db_host", cfg.Database.Host,
		"db_sslmode", cfg.Database.SSLMode,
		"solr_base_url", cfg.Solr.BaseURL,
		"batch_length", cfg.Indexer.BatchLength,
	)

	return cfg, nil
}

func (c *DatabaseConfig) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

func validateSSLMode(mode string) error {
	switch mode {
	case "disable":
		return fmt.Errorf("SSL disable mode is not allowed")
	case "allow", "prefer", "require", "verify-ca", "verify-full":
		return nil
	default:
		return fmt.Errorf("invalid SSL mode: %s", mode)
	}
}

func getEnvRequired(key string) string {
	// Check for _FILE suffix (Docker Secrets)
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}

func getEnvOrDefault(key, defaultValue string) string {
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
