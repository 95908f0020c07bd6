package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/moonpos/moonpos-backend/api/controllers"
	"github.com/moonpos/moonpos-backend/api/routes"
	"github.com/moonpos/moonpos-backend/internal/analytics"
	"github.com/moonpos/moonpos-backend/internal/analytics/query"
	"github.com/moonpos/moonpos-backend/internal/checkout"
	"github.com/moonpos/moonpos-backend/internal/inventory"
	"github.com/moonpos/moonpos-backend/internal/ledger"
	"github.com/moonpos/moonpos-backend/internal/orders"
	product "github.com/moonpos/moonpos-backend/internal/products"
	"github.com/moonpos/moonpos-backend/pkg/config"
	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/instance"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/metrics"
	"github.com/moonpos/moonpos-backend/pkg/migrate"
	"github.com/moonpos/moonpos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields: map[string]any{
			"env":      cfg.App.Env,
			"instance": instance.GetID("api-0"),
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			_ = dbClient.Close()
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "redis not configured, idempotent replay disabled")
	}

	defer func() {
		closeErr := dbClient.Close()
		if redisClient != nil {
			closeErr = multierr.Append(closeErr, redisClient.Close())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		return
	}

	if cfg.FeatureFlags.SeedCatalog {
		seeded, err := product.SeedCatalog(ctx, dbClient, logg)
		if err != nil {
			logg.Error(ctx, "failed to seed catalog", err)
			return
		}
		logg.Info(logg.WithField(ctx, "seeded", seeded), "catalog seed checked")
	}

	handler, err := buildHandler(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		return
	}

	addr := ":" + cfg.App.Port
	serverCtx := logg.WithField(ctx, "addr", addr)
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
		}
		return
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "graceful shutdown failed", err)
	}
}

func buildHandler(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (http.Handler, error) {
	conn := dbClient.DB()

	var (
		txMetrics      *metrics.TransactionMetrics
		httpMetrics    *metrics.HTTPMetrics
		metricsHandler http.Handler
	)
	if cfg.FeatureFlags.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		txMetrics = metrics.NewTransactionMetrics(registry)
		httpMetrics = metrics.NewHTTPMetrics(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	productRepo := product.NewRepository(conn)
	inventoryRepo := inventory.NewRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	productService, err := product.NewService(productRepo, dbClient)
	if err != nil {
		return nil, err
	}
	inventoryService, err := inventory.NewService(inventory.ServiceParams{
		DB:       dbClient,
		Products: productRepo,
		Repo:     inventoryRepo,
		Ledger:   ledgerRepo,
		Metrics:  txMetrics,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:        dbClient,
		Products:  productRepo,
		Orders:    ordersRepo,
		Inventory: inventoryRepo,
		Ledger:    ledgerRepo,
		Metrics:   txMetrics,
		Logger:    logg,
	})
	if err != nil {
		return nil, err
	}
	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		return nil, err
	}
	ledgerService, err := ledger.NewService(ledgerRepo)
	if err != nil {
		return nil, err
	}
	reports, err := query.NewReports(conn)
	if err != nil {
		return nil, err
	}
	analyticsService, err := analytics.NewService(reports)
	if err != nil {
		return nil, err
	}

	// typed nils would defeat the nil checks in the router
	var (
		redisPinger      controllers.Pinger
		idempotencyStore redis.IdempotencyStore
	)
	if redisClient != nil {
		redisPinger = redisClient
		idempotencyStore = redisClient
	}

	return routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisPinger,
		idempotencyStore,
		httpMetrics,
		metricsHandler,
		productService,
		inventoryService,
		checkoutService,
		ordersService,
		ledgerService,
		analyticsService,
	), nil
}
