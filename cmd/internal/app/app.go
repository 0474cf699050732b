// Package app wires the Porter server runtime: config, logging, schema
// migrations, HTTP routes, and the auth event gateway.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"porter/cmd/identity"
	"porter/cmd/internal/auth/session"
	"porter/cmd/internal/watch"
	"porter/cmd/internal/web"
	"porter/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App owns the HTTP server wiring and the lifecycle of its backing stores.
type App struct {
	cfg Config
	log Logger

	dbPool    *pgxpool.Pool
	dbEnabled bool

	site     *web.Handler
	gateway  *watch.Gateway
	janitor  *session.Janitor
	registry *prometheus.Registry
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	if err := ValidateSecurityConfig(cfg); err != nil {
		return nil, err
	}

	dbPool, dbEnabled, err := newDB(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	users, sessStore, err := newStores(dbPool, dbEnabled, log)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}
	sessions := session.NewManager(sessCfg, sessStore)

	hasher, err := password.FromEnv()
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	web.RegisterMetrics(registry)

	hub := watch.NewHub(log)
	webCfg := web.LoadConfigFromEnv()

	site, err := web.NewHandler(log, webCfg, users, sessions, hasher, hub)
	if err != nil {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil, err
	}

	return &App{
		cfg:       cfg,
		log:       log,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		site:      site,
		gateway:   watch.NewGateway(log, hub, sessions, webCfg.CookieName),
		janitor:   session.NewJanitor(log, sessions, sessCfg.SweepInterval),
		registry:  registry,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.site, a.gateway, a.registry)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	go a.janitor.Run(janitorCtx)
	defer stopJanitor()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if a.dbPool != nil {
		a.dbPool.Close()
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newDB connects to Postgres when a URL is configured and, unless disabled,
// applies embedded migrations. Without a URL the app runs on in-memory
// stores, which lose all accounts and sessions on restart.
func newDB(ctx context.Context, cfg Config, log Logger) (*pgxpool.Pool, bool, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		return nil, false, nil
	}

	if cfg.MigrateOnStart {
		if err := MigrateUp(cfg.DatabaseURL); err != nil {
			return nil, false, err
		}
		log.Info("db.migrated")
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, false, err
	}

	log.Info("db.enabled.postgres_store")
	return pool, true, nil
}

// newStores picks Postgres-backed or in-memory stores. The pool is owned by
// App; stores never close it.
func newStores(pool *pgxpool.Pool, dbEnabled bool, log Logger) (identity.Store, session.Store, error) {
	if !dbEnabled {
		return identity.NewMemoryStore(), session.NewMemoryStore(), nil
	}

	users, err := identity.NewPostgresStore(pool)
	if err != nil {
		return nil, nil, err
	}
	return users, session.NewPostgresStore(pool), nil
}
