package bootstrap

import (
	"context"
	"fmt"
	"time"

	"solr-indexer/config"
	"solr-indexer/domain"
	"solr-indexer/driver"
	"solr-indexer/gateway"
	"solr-indexer/logger"

	"github.com/cenkalti/backoff/v5"
)

// initDatabaseDriver creates and returns the database driver. The connection
// URL comes from the validated config so DB_SSL_MODE takes effect.
func initDatabaseDriver(ctx context.Context, appCfg *config.Config) (*driver.DatabaseDriver, error) {
	dbDriver, err := driver.NewDatabaseDriverFromURL(ctx, appCfg.Database.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	return dbDriver, nil
}

// initSolrDriver creates the Solr HTTP driver from config.
func initSolrDriver(appCfg *config.Config) *driver.SolrDriver {
	return driver.NewSolrDriver(
		appCfg.Solr.BaseURL,
		appCfg.Solr.User,
		appCfg.Solr.Password,
		appCfg.Solr.Timeout,
	)
}

// newRetryBackoff creates the exponential backoff policy for Solr readiness.
func newRetryBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 30 * time.Second
	bo.Multiplier = 2
	return bo
}

// waitForSolr pings every configured core until all answer or the attempt
// budget runs out. Solr tends to come up after this service in compose
// environments.
func waitForSolr(ctx context.Context, engine *gateway.SearchEngineGateway, registry *domain.IndexRegistry) error {
	const maxAttempts = 10

	bo := newRetryBackoff()
	for _, name := range registry.Names() {
		bo.Reset()
		var lastErr error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if lastErr = engine.Ping(ctx, name); lastErr == nil {
				logger.Logger.Info("Solr core ready", "index", name)
				break
			}
			delay := bo.NextBackOff()
			logger.Logger.Warn("Solr core not ready, retrying",
				"index", name,
				"attempt", attempt,
				"max", maxAttempts,
				"retry_in", delay,
				"err", lastErr,
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr != nil {
			return fmt.Errorf("solr core %s not reachable after %d attempts: %w", name, maxAttempts, lastErr)
		}
	}
	return nil
}
