package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Overland-East-Bay/club-subscriptions/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/club-subscriptions/internal/adapters/memory/idempotency"
	memimportrepo "github.com/Overland-East-Bay/club-subscriptions/internal/adapters/memory/importrepo"
	postgres "github.com/Overland-East-Bay/club-subscriptions/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/club-subscriptions/internal/adapters/postgres/idempotency"
	pgimportrepo "github.com/Overland-East-Bay/club-subscriptions/internal/adapters/postgres/importrepo"
	"github.com/Overland-East-Bay/club-subscriptions/internal/app/imports"
	platformclock "github.com/Overland-East-Bay/club-subscriptions/internal/platform/clock"
	"github.com/Overland-East-Bay/club-subscriptions/internal/platform/config"
	"github.com/Overland-East-Bay/club-subscriptions/internal/platform/logging"
	"github.com/Overland-East-Bay/club-subscriptions/internal/platform/metrics"
	idempotencyport "github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/idempotency"
	importrepoport "github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/importrepo"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not load .env", "error", err)
	}

	cfg, err := config.LoadConfigFromEnv()
	if err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var (
		importRepo importrepoport.Repository
		idemStore  idempotencyport.Store
		cleanup    func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			logger.Error("invalid postgres config", "error", err)
			os.Exit(1)
		}
		cleanup = pool.Close
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			logger.Error("migrate", "error", err)
			os.Exit(1)
		}

		importRepo = pgimportrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	default:
		importRepo = memimportrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	}

	if cleanup != nil {
		defer cleanup()
	}

	svc := imports.NewService(importRepo, platformclock.NewSystemClock())
	svc.DefaultSchema = cfg.DefaultSchema
	svc.PersonOffset = cfg.PersonExpiryOffset
	svc.Logger = logger
	svc.Metrics = metrics.NewImports(reg)

	api := httpapi.NewServer(svc, idemStore)
	api.MaxUploadBytes = cfg.MaxUploadBytes
	api.Logger = logger

	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening",
			"port", cfg.Port,
			"storage", cfg.StorageBackend,
			"default_schema", cfg.DefaultSchema,
			"expiry_offset", cfg.PersonExpiryOffset.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
