package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"solr-indexer/config"
	"solr-indexer/consumer"
	"solr-indexer/domain"
	"solr-indexer/gateway"
	"solr-indexer/logger"
	"solr-indexer/synonym"
	"solr-indexer/usecase"
	appOtel "solr-indexer/utils/otel"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// App holds all components of the solr-indexer service.
type App struct {
	echoServer    *echo.Echo
	dbClose       func()
	redisConsumer *consumer.Consumer
	eventHandler  *consumer.RecordEventHandler
	otelShutdown  appOtel.ShutdownFunc
}

// Run initializes all components and starts the service.
// It blocks until ctx is cancelled, then performs graceful shutdown.
func Run(ctx context.Context) error {
	// ── OpenTelemetry ──
	otelCfg := appOtel.ConfigFromEnv()
	otelShutdown, err := appOtel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// ── Logger ──
	logger.InitWithOTel(otelCfg.Enabled)
	logger.Logger.Info("Starting solr-indexer",
		"service", otelCfg.ServiceName,
		"otel_enabled", otelCfg.Enabled,
	)

	// ── Load config ──
	appCfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("Failed to load config", "err", err)
		return err
	}

	components, err := InitComponents(ctx, appCfg)
	if err != nil {
		return err
	}

	// ── Redis Streams Consumer ──
	var redisConsumer *consumer.Consumer
	var eventHandler *consumer.RecordEventHandler
	consumerCfg := consumer.ConfigFromEnv()
	if consumerCfg.Enabled {
		eventHandler = consumer.NewRecordEventHandler(components.IndexRecords, logger.Logger)
		redisConsumer, err = consumer.NewConsumer(consumerCfg, eventHandler, logger.Logger)
		if err != nil {
			logger.Logger.Error("Failed to create Redis Streams consumer", "err", err)
		} else {
			if err := redisConsumer.Start(ctx); err != nil {
				logger.Logger.Error("Failed to start Redis Streams consumer", "err", err)
			} else {
				logger.Logger.Info("Redis Streams consumer started",
					"stream", consumerCfg.StreamKey,
					"group", consumerCfg.GroupName,
				)
			}
		}
	} else {
		logger.Logger.Info("Redis Streams consumer disabled")
	}

	// ── Server ──
	app := &App{
		echoServer:    newEchoServer(appCfg, components, otelCfg),
		dbClose:       components.Close,
		redisConsumer: redisConsumer,
		eventHandler:  eventHandler,
		otelShutdown:  otelShutdown,
	}

	go func() {
		logger.Logger.Info("http listen", "addr", appCfg.HTTP.Addr)
		if err := app.echoServer.Start(appCfg.HTTP.Addr); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("http", "err", err)
		}
	}()

	// ── Wait for shutdown signal ──
	<-ctx.Done()
	app.shutdown()
	return nil
}

// Components are the wired use cases and their teardown.
type Components struct {
	Reindex      *usecase.ReindexUsecase
	Search       *usecase.SearchUsecase
	IndexRecords *usecase.IndexRecordsUsecase
	Registry     *domain.IndexRegistry
	Close        func()
}

// InitComponents wires drivers, gateways and use cases. Shared by the
// server entrypoint and the one-shot reindex command.
func InitComponents(ctx context.Context, appCfg *config.Config) (*Components, error) {
	registry, err := config.LoadIndexes(appCfg.Indexer.IndexesFile)
	if err != nil {
		logger.Logger.Error("Failed to load index definitions", "err", err)
		return nil, err
	}

	tok, err := synonym.InitTokenizer()
	if err != nil {
		logger.Logger.Error("Failed to initialize tokenizer", "err", err)
	}

	dbDriver, err := initDatabaseDriver(ctx, appCfg)
	if err != nil {
		logger.Logger.Error("Failed to initialize database driver", "err", err)
		return nil, err
	}

	solrDriver := initSolrDriver(appCfg)
	searchEngine := gateway.NewSearchEngineGateway(solrDriver)
	if err := waitForSolr(ctx, searchEngine, registry); err != nil {
		logger.Logger.Error("Solr not reachable", "err", err)
		dbDriver.Close()
		return nil, err
	}
	recordRepo := gateway.NewRecordRepositoryGateway(dbDriver)

	reindexUsecase := usecase.NewReindexUsecase(recordRepo, searchEngine, registry, appCfg.Indexer.BatchLength, logger.Logger)
	if tok != nil {
		reindexUsecase.WithTokenizer(tok)
	}
	reindexUsecase.WithTrimHook(debug.FreeOSMemory)
	instrumentReindex(reindexUsecase)

	searchUsecase := usecase.NewSearchUsecase(searchEngine, registry, logger.Logger)
	if siteID := os.Getenv("SEARCH_SITE_ID"); siteID != "" {
		searchUsecase.WithAmbientFilter(domain.FieldFilter{Field: "site_id", Value: siteID})
	}
	instrumentSearch(searchUsecase)

	indexRecordsUsecase := usecase.NewIndexRecordsUsecase(recordRepo, searchEngine, registry, domain.ReadLive, logger.Logger)

	return &Components{
		Reindex:      reindexUsecase,
		Search:       searchUsecase,
		IndexRecords: indexRecordsUsecase,
		Registry:     registry,
		Close:        dbDriver.Close,
	}, nil
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.echoServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("http shutdown error", "err", err)
	}
	if a.redisConsumer != nil {
		a.redisConsumer.Stop()
	}
	if a.eventHandler != nil {
		a.eventHandler.Stop()
	}
	if a.dbClose != nil {
		a.dbClose()
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := a.otelShutdown(otelCtx); err != nil {
		fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
	}
}

// instrumentReindex registers batch hooks that record per-batch duration.
// Runs are sequential, so a single start timestamp per usecase is enough.
func instrumentReindex(u *usecase.ReindexUsecase) {
	var mu sync.Mutex
	var batchStart time.Time

	u.RegisterPreBatchHook(func(ctx context.Context, class string, group int) {
		mu.Lock()
		batchStart = time.Now()
		mu.Unlock()
	})
	u.RegisterPostBatchHook(func(ctx context.Context, class string, group int) {
		m := appOtel.Metrics
		if m == nil {
			return
		}
		mu.Lock()
		elapsed := time.Since(batchStart)
		mu.Unlock()
		m.BatchDuration.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(attribute.String("class", class)),
		)
	})
}

// instrumentSearch counts followed spellcheck collations.
func instrumentSearch(u *usecase.SearchUsecase) {
	u.RegisterPostSearchHook(func(result *domain.SearchResult) {
		m := appOtel.Metrics
		if m == nil || !result.Retried {
			return
		}
		m.SpellcheckRetriesTotal.Add(context.Background(), 1)
	})
}
