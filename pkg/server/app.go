package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/caucusdesk/caucusdesk/pkg/auth"
	"github.com/caucusdesk/caucusdesk/pkg/config"
	"github.com/caucusdesk/caucusdesk/pkg/health"
	"github.com/caucusdesk/caucusdesk/pkg/middleware/authn"
	"github.com/caucusdesk/caucusdesk/pkg/middleware/cors"
	"github.com/caucusdesk/caucusdesk/pkg/middleware/logging"
	"github.com/caucusdesk/caucusdesk/pkg/middleware/metrics"
	"github.com/caucusdesk/caucusdesk/pkg/middleware/ratelimit"
	"github.com/caucusdesk/caucusdesk/pkg/middleware/recovery"
	"github.com/caucusdesk/caucusdesk/pkg/middleware/requestid"
	"github.com/caucusdesk/caucusdesk/pkg/middleware/tracing"
	"github.com/caucusdesk/caucusdesk/pkg/observability/logger"
	obsmetrics "github.com/caucusdesk/caucusdesk/pkg/observability/metrics"
	obstracing "github.com/caucusdesk/caucusdesk/pkg/observability/tracing"
	"github.com/caucusdesk/caucusdesk/pkg/screens"
	"github.com/caucusdesk/caucusdesk/pkg/server/router"
	"github.com/caucusdesk/caucusdesk/pkg/store/postgres"
	"github.com/caucusdesk/caucusdesk/pkg/version"
)

// App holds the assembled dashboard service: config, store, router, health
// registry, and tracer provider.
type App struct {
	Config *config.Config
	Logger logger.Logger
	Store  *postgres.Adapter
	Health *health.Registry
	Router router.Router
	Tracer *obstracing.Provider
}

// NewApp connects the record store and builds the routing tree with the
// full middleware chain.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	store, err := postgres.NewAdapter(postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect record store: %w", err)
	}

	registry := health.NewRegistry()
	registry.Register(health.NewPingChecker("liveness"))
	registry.Register(health.NewRecordStoreChecker("record_store", store))

	// The tracer provider installs the global tracer and propagator, so it
	// must exist before the tracing middleware is constructed.
	tracer, err := obstracing.NewProvider(context.Background(), obstracing.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: version.Current(cfg.Service.Name).Version,
		Environment:    cfg.Service.Environment,
		Endpoint:       cfg.Observability.Tracing.Endpoint,
		SampleRate:     cfg.Observability.Tracing.SampleRate,
		Enabled:        cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	rt, err := buildRouter(cfg, log, store, registry)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &App{
		Config: cfg,
		Logger: log,
		Store:  store,
		Health: registry,
		Router: rt,
		Tracer: tracer,
	}, nil
}

// Run serves HTTP until ctx is canceled, then flushes traces and closes the
// record store.
func (a *App) Run(ctx context.Context) error {
	defer a.Store.Close()
	defer func() {
		if err := a.Tracer.Shutdown(context.Background()); err != nil {
			a.Logger.Error("failed to shutdown tracer provider", "error", err)
		}
	}()
	return New(a.Config.HTTP, a.Router, a.Logger).Run(ctx)
}

func buildRouter(cfg *config.Config, log logger.Logger, store *postgres.Adapter, registry *health.Registry) (router.Router, error) {
	rt, err := router.New(cfg.RouterType)
	if err != nil {
		return nil, err
	}

	rt.Use(
		requestid.RequestID(),
		recovery.Recovery(log),
		logging.WithConfig(log, logging.Config{
			Enabled:              cfg.Observability.RequestLogging.Enabled,
			LogStart:             cfg.Observability.RequestLogging.LogStart,
			ExcludedPathPrefixes: cfg.Observability.RequestLogging.ExcludedPathPrefixes,
		}),
		tracing.Tracing(tracing.Config{
			ExcludedPathPrefixes: []string{"/healthz", "/readyz", "/metrics"},
		}),
		metrics.Metrics(),
		cors.CORS(cors.Config{
			Enabled:          cfg.CORS.Enabled,
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     cfg.CORS.AllowMethods,
			AllowHeaders:     cfg.CORS.AllowHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}),
		ratelimit.RateLimit(ratelimit.Config{
			Enabled:           cfg.RateLimit.Enabled,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}),
	)

	registerOperational(rt, cfg, registry)

	var apiMiddleware []router.MiddlewareFunc
	var write []router.MiddlewareFunc
	if cfg.Auth.Enabled {
		validator, err := auth.NewHMACValidator(cfg.Auth.Secret, cfg.Auth.Issuer, log)
		if err != nil {
			return nil, fmt.Errorf("failed to build token validator: %w", err)
		}
		apiMiddleware = append(apiMiddleware, authn.RequireSession(validator))
		write = append(write, authn.RequireRole(cfg.Auth.EditorRole))
	}

	api := rt.Group("/api/v1", apiMiddleware...)
	screens.RegisterAll(api, store, log, write...)

	return rt, nil
}

// registerOperational mounts the liveness, readiness, metrics, and version
// endpoints outside the authenticated API group.
func registerOperational(rt router.Router, cfg *config.Config, registry *health.Registry) {
	rt.GET("/healthz", func(c router.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	rt.GET("/readyz", func(c router.Context) error {
		result := registry.Check(c.Request().Context())
		status := http.StatusOK
		if !result.IsHealthy() {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, result)
	})

	promHandler := obsmetrics.Handler()
	rt.GET("/metrics", func(c router.Context) error {
		promHandler.ServeHTTP(c.Response(), c.Request())
		return nil
	})

	rt.GET("/version", func(c router.Context) error {
		return c.JSON(http.StatusOK, version.Current(cfg.Service.Name))
	})
}
