package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/moonpos/moonpos-backend/internal/cron"
	"github.com/moonpos/moonpos-backend/internal/ledger"
	product "github.com/moonpos/moonpos-backend/internal/products"
	"github.com/moonpos/moonpos-backend/pkg/config"
	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/instance"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/metrics"
	"github.com/moonpos/moonpos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields: map[string]any{
			"env":      cfg.App.Env,
			"instance": instance.GetID("cron-worker-0"),
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	var lock cron.Lock = &cron.LocalLock{}
	if cfg.Redis.Enabled() {
		var redisClient *redis.Client
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()

		var redisLock *cron.RedisLock
		redisLock, err = cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker:"+cfg.App.Env), cfg.Cron.LockTTL)
		if err != nil {
			return err
		}
		lock = redisLock
	} else {
		logg.Warn(ctx, "redis not configured, cron lock is process-local")
	}

	jobMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	stockWatch, err := cron.NewStockWatchJob(cron.StockWatchJobParams{
		Logger:   logg,
		Products: product.NewRepository(dbClient.DB()),
		Metrics:  jobMetrics,
	})
	if err != nil {
		return err
	}
	ledgerAudit, err := cron.NewLedgerAuditJob(cron.LedgerAuditJobParams{
		Logger:   logg,
		Ledger:   ledger.NewRepository(dbClient.DB()),
		Lookback: cfg.Cron.AuditLookback,
	})
	if err != nil {
		return err
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(stockWatch, ledgerAudit),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return err
	}

	logg.Info(ctx, "starting cron worker")
	return service.Run(ctx)
}
