package bootstrap

import (
	"testing"
	"time"

	"solr-indexer/config"
	"solr-indexer/logger"
	appOtel "solr-indexer/utils/otel"
)

func TestNewEchoServer_AppliesReadHeaderTimeout(t *testing.T) {
	logger.Init()

	appCfg := &config.Config{
		HTTP: config.HTTPConfig{ReadHeaderTimeout: 7 * time.Second},
	}

	e := newEchoServer(appCfg, &Components{}, appOtel.Config{})

	if e.Server.ReadHeaderTimeout != 7*time.Second {
		t.Errorf("ReadHeaderTimeout = %v, want 7s", e.Server.ReadHeaderTimeout)
	}
}
