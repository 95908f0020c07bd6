package analytics

import (
	"context"
	"fmt"

	"github.com/moonpos/moonpos-backend/internal/analytics/query"
	"github.com/moonpos/moonpos-backend/internal/analytics/types"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/money"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
	pkgtypes "github.com/moonpos/moonpos-backend/pkg/types"
)

// TopProductsBounds are the default and maximum best seller counts.
var TopProductsBounds = pagination.Bounds{Default: 10, Max: 100}

// Reporter is the aggregate query set the service reads from.
type Reporter interface {
	SalesTotals(ctx context.Context, dates pkgtypes.DateRange) (query.SalesTotals, error)
	TopProducts(ctx context.Context, dates pkgtypes.DateRange, limit int) ([]query.ProductSales, error)
	StockTotals(ctx context.Context) (query.StockTotals, error)
}

// Service provides sales and stock reports.
type Service interface {
	SalesSummary(ctx context.Context, dates pkgtypes.DateRange) (*types.SalesSummary, error)
	TopProducts(ctx context.Context, dates pkgtypes.DateRange, limit int) ([]types.TopProduct, error)
	StockValuation(ctx context.Context) (*types.StockValuation, error)
}

type service struct {
	reports Reporter
}

// NewService builds a reporting service over the provided query set.
func NewService(reports Reporter) (Service, error) {
	if reports == nil {
		return nil, fmt.Errorf("reporter required")
	}
	return &service{reports: reports}, nil
}

func (s *service) SalesSummary(ctx context.Context, dates pkgtypes.DateRange) (*types.SalesSummary, error) {
	if err := validateRange(dates); err != nil {
		return nil, err
	}
	totals, err := s.reports.SalesTotals(ctx, dates)
	if err != nil {
		return nil, err
	}

	avg := money.Zero
	if totals.OrderCount > 0 {
		avg = money.Div(totals.Revenue, totals.OrderCount)
	}
	return &types.SalesSummary{
		OrderCount:    totals.OrderCount,
		Subtotal:      money.Format(totals.Subtotal),
		Discount:      money.Format(totals.Discount),
		Tax:           money.Format(totals.Tax),
		Revenue:       money.Format(totals.Revenue),
		ItemsSold:     totals.ItemsSold,
		COGS:          money.Format(totals.COGS),
		GrossProfit:   money.Format(money.Sub(totals.Revenue, totals.COGS)),
		AvgOrderValue: money.Format(avg),
	}, nil
}

func (s *service) TopProducts(ctx context.Context, dates pkgtypes.DateRange, limit int) ([]types.TopProduct, error) {
	if err := validateRange(dates); err != nil {
		return nil, err
	}
	rows, err := s.reports.TopProducts(ctx, dates, TopProductsBounds.Normalize(limit))
	if err != nil {
		return nil, err
	}
	out := make([]types.TopProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.TopProduct{
			ProductID: row.ProductID,
			SKU:       row.SKU,
			Name:      row.Name,
			QtySold:   row.QtySold,
			Revenue:   money.Format(row.Revenue),
		})
	}
	return out, nil
}

func (s *service) StockValuation(ctx context.Context) (*types.StockValuation, error) {
	totals, err := s.reports.StockTotals(ctx)
	if err != nil {
		return nil, err
	}
	return &types.StockValuation{
		ActiveProducts:       totals.ActiveProducts,
		TotalUnits:           totals.TotalUnits,
		InventoryCostValue:   money.Format(totals.CostValue),
		InventoryRetailValue: money.Format(totals.RetailValue),
		PotentialMargin:      money.Format(money.Sub(totals.RetailValue, totals.CostValue)),
	}, nil
}

func validateRange(dates pkgtypes.DateRange) error {
	if dates.Inverted() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date must not be after end_date")
	}
	return nil
}
