package cron

import (
	"context"
	"fmt"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/metrics"
)

const stockWatchJobName = "stock-watch"

type lowStockReader interface {
	LowStock(ctx context.Context) ([]models.Product, error)
}

// StockWatchJobParams configure the reorder scan.
type StockWatchJobParams struct {
	Logger   *logger.Logger
	Products lowStockReader
	Metrics  *metrics.CronJobMetrics
}

// NewStockWatchJob builds the job that reports products at or below their
// reorder threshold.
func NewStockWatchJob(params StockWatchJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &stockWatchJob{
		logg:     params.Logger,
		products: params.Products,
		metrics:  params.Metrics,
	}, nil
}

type stockWatchJob struct {
	logg     *logger.Logger
	products lowStockReader
	metrics  *metrics.CronJobMetrics
}

func (j *stockWatchJob) Name() string { return stockWatchJobName }

func (j *stockWatchJob) Run(ctx context.Context) error {
	products, err := j.products.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("list low stock products: %w", err)
	}
	j.metrics.SetLowStock(len(products))

	for _, product := range products {
		j.logg.Warn(j.logg.WithFields(ctx, map[string]any{
			"product_id": product.ID.String(),
			"sku":        product.SKU,
			"stock_qty":  product.StockQty,
			"min_stock":  product.MinStock,
		}), "stock.low")
	}
	j.logg.Info(j.logg.WithField(ctx, "low_stock_count", len(products)), "stock.watch.complete")
	return nil
}
