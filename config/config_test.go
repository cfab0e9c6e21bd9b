package config

import (
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "cms")
	t.Setenv("SOLR_INDEXER_DB_USER", "indexer")
	t.Setenv("SOLR_INDEXER_DB_PASSWORD", "secret")
	t.Setenv("SOLR_BASE_URL", "http://solr:8983")
}

func TestLoad_DatabaseURLCarriesSSLMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_SSL_MODE", "require")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	url := cfg.Database.DatabaseURL()
	if url != "postgres://indexer:secret@db:5432/cms?sslmode=require" {
		t.Errorf("DatabaseURL() = %q", url)
	}
}

func TestLoad_DefaultSSLMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_SSL_MODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !strings.HasSuffix(cfg.Database.DatabaseURL(), "sslmode=prefer") {
		t.Errorf("DatabaseURL() = %q, want sslmode=prefer", cfg.Database.DatabaseURL())
	}
}

func TestLoad_RejectsBadSSLMode(t *testing.T) {
	tests := []string{"disable", "bogus"}
	for _, mode := range tests {
		t.Run(mode, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("DB_SSL_MODE", mode)

			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted DB_SSL_MODE=%s", mode)
			}
		})
	}
}
