package query

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/money"
	"github.com/moonpos/moonpos-backend/pkg/types"
)

const (
	orderTotalsSQL = `
COUNT(*) AS order_count,
COALESCE(SUM(subtotal), 0) AS subtotal,
COALESCE(SUM(discount), 0) AS discount,
COALESCE(SUM(tax), 0) AS tax,
COALESCE(SUM(total), 0) AS revenue`

	itemTotalsSQL = `
COALESCE(SUM(oi.quantity), 0) AS items_sold,
COALESCE(SUM(oi.line_cost_total), 0) AS cogs`

	topProductsSQL = `
oi.product_id AS product_id,
p.sku AS sku,
p.name AS name,
SUM(oi.quantity) AS qty_sold,
SUM(oi.line_total) AS revenue`

	stockValuationSQL = `
COUNT(*) AS active_products,
COALESCE(SUM(stock_qty), 0) AS total_units,
COALESCE(SUM(stock_qty * cost_price), 0) AS cost_value,
COALESCE(SUM(stock_qty * sell_price), 0) AS retail_value`
)

// SalesTotals are the raw sums behind the sales summary.
type SalesTotals struct {
	OrderCount int64
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Revenue    decimal.Decimal
	ItemsSold  int64
	COGS       decimal.Decimal
}

// ProductSales is one grouped row of the best sellers query.
type ProductSales struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	QtySold   int64
	Revenue   decimal.Decimal
}

// StockTotals are the raw sums behind the stock valuation.
type StockTotals struct {
	ActiveProducts int64
	TotalUnits     int64
	CostValue      decimal.Decimal
	RetailValue    decimal.Decimal
}

// Reports runs the reporting aggregates directly against the transactional
// tables.
type Reports struct {
	db *gorm.DB
}

// NewReports builds the reporting query set.
func NewReports(db *gorm.DB) (*Reports, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Reports{db: db}, nil
}

func (r *Reports) SalesTotals(ctx context.Context, dates types.DateRange) (SalesTotals, error) {
	var totals SalesTotals
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(orderTotalsSQL).
		Scopes(dates.Scope("created_at")).
		Scan(&totals).Error; err != nil {
		return SalesTotals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate order totals")
	}

	var items struct {
		ItemsSold int64
		COGS      decimal.Decimal `gorm:"column:cogs"`
	}
	if err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Select(itemTotalsSQL).
		Scopes(dates.Scope("o.created_at")).
		Scan(&items).Error; err != nil {
		return SalesTotals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate order items")
	}

	totals.Subtotal = money.Normalize(totals.Subtotal)
	totals.Discount = money.Normalize(totals.Discount)
	totals.Tax = money.Normalize(totals.Tax)
	totals.Revenue = money.Normalize(totals.Revenue)
	totals.ItemsSold = items.ItemsSold
	totals.COGS = money.Normalize(items.COGS)
	return totals, nil
}

// TopProducts groups sold lines by product, highest quantity first and then
// highest revenue.
func (r *Reports) TopProducts(ctx context.Context, dates types.DateRange, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	if err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN products p ON p.id = oi.product_id").
		Select(topProductsSQL).
		Scopes(dates.Scope("o.created_at")).
		Group("oi.product_id, p.sku, p.name").
		Order("qty_sold DESC").
		Order("revenue DESC").
		Order("p.name ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate top products")
	}
	for i := range rows {
		rows[i].Revenue = money.Normalize(rows[i].Revenue)
	}
	return rows, nil
}

// StockTotals values active products only.
func (r *Reports) StockTotals(ctx context.Context) (StockTotals, error) {
	var totals StockTotals
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select(stockValuationSQL).
		Where("is_active = ?", true).
		Scan(&totals).Error; err != nil {
		return StockTotals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate stock valuation")
	}
	totals.CostValue = money.Normalize(totals.CostValue)
	totals.RetailValue = money.Normalize(totals.RetailValue)
	return totals, nil
}
