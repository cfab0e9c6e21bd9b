package bootstrap

import (
	"time"

	"solr-indexer/config"
	"solr-indexer/internal/auth"
	authmw "solr-indexer/internal/auth/middleware"
	"solr-indexer/logger"
	"solr-indexer/rest"
	appOtel "solr-indexer/utils/otel"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// newEchoServer creates the REST server with routes mounted.
func newEchoServer(appCfg *config.Config, components *Components, otelCfg appOtel.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadHeaderTimeout = appCfg.HTTP.ReadHeaderTimeout
	e.Use(echomw.Recover())
	if otelCfg.Enabled {
		e.Use(metricsMiddleware())
	}

	var serviceAuth *authmw.AuthMiddleware
	if appCfg.Auth.ServiceSecret != "" {
		authClient := auth.NewClient(auth.Config{
			ServiceName:   otelCfg.ServiceName,
			ServiceSecret: appCfg.Auth.ServiceSecret,
		})
		serviceAuth = authmw.NewAuthMiddleware(authClient)
	} else {
		logger.Logger.Warn("SERVICE_SECRET not set, reindex endpoint is unauthenticated")
	}

	handler := rest.NewHandler(components.Search, components.Reindex)
	handler.RegisterRoutes(e, serviceAuth)
	return e
}

// metricsMiddleware records request duration and error counts per route.
func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			m := appOtel.Metrics
			if m == nil {
				return err
			}
			ctx := c.Request().Context()
			attrs := metric.WithAttributes(attribute.String("route", c.Path()))
			if c.Path() == "/v1/search" {
				m.SearchDuration.Record(ctx, time.Since(start).Seconds(), attrs)
			}
			if err != nil {
				m.ErrorsTotal.Add(ctx, 1, attrs)
			}
			return err
		}
	}
}
