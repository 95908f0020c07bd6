package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/internal/analytics/query"
	"github.com/moonpos/moonpos-backend/pkg/db/dbtest"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/money"
	pkgtypes "github.com/moonpos/moonpos-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	reports, err := query.NewReports(conn)
	require.NoError(t, err)
	svc, err := NewService(reports)
	require.NoError(t, err)
	return svc, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, sku, name string, stock int, sell, cost string, active bool) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:        uuid.New(),
		SKU:       sku,
		Name:      name,
		SellPrice: money.MustParse(sell),
		CostPrice: money.MustParse(cost),
		StockQty:  stock,
		MinStock:  5,
		IsActive:  active,
	}
	require.NoError(t, conn.Create(p).Error)
	return p
}

type soldLine struct {
	product *models.Product
	qty     int
}

func seedOrder(t *testing.T, conn *gorm.DB, at time.Time, discount, tax string, lines ...soldLine) {
	t.Helper()
	subtotal, cogs := money.Zero, money.Zero
	order := &models.Order{ID: uuid.New(), OrderNumber: "ORD-" + uuid.NewString()[:8], PaymentMethod: "cash", CreatedAt: at}
	for i, l := range lines {
		lineTotal := money.Mul(l.product.SellPrice, l.qty)
		lineCost := money.Mul(l.product.CostPrice, l.qty)
		subtotal = money.Add(subtotal, lineTotal)
		cogs = money.Add(cogs, lineCost)
		order.Items = append(order.Items, models.OrderItem{
			ID:            uuid.New(),
			LineNo:        i + 1,
			ProductID:     l.product.ID,
			Quantity:      l.qty,
			UnitPrice:     l.product.SellPrice,
			CostPrice:     l.product.CostPrice,
			LineTotal:     lineTotal,
			LineCostTotal: lineCost,
		})
	}
	order.Subtotal = subtotal
	order.Discount = money.MustParse(discount)
	order.Tax = money.MustParse(tax)
	order.Total = money.Add(money.Sub(subtotal, order.Discount), order.Tax)
	require.NoError(t, conn.Create(order).Error)
}

func day(d int) time.Time {
	return time.Date(2026, 5, d, 12, 0, 0, 0, time.UTC)
}

func TestSalesSummaryEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	got, err := svc.SalesSummary(context.Background(), pkgtypes.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.OrderCount)
	assert.Equal(t, "0.00", got.Revenue)
	assert.Equal(t, "0.00", got.AvgOrderValue)
}

func TestSalesSummaryAggregatesWithinRange(t *testing.T) {
	svc, conn := newTestService(t)
	americano := seedProduct(t, conn, "SKU-COF-01", "Americano", 100, "25000", "10000", true)
	croissant := seedProduct(t, conn, "SKU-FNB-01", "Croissant", 100, "18000", "7000", true)

	seedOrder(t, conn, day(1), "0", "0", soldLine{americano, 2})
	seedOrder(t, conn, day(2), "5000", "2500", soldLine{americano, 1}, soldLine{croissant, 1})
	seedOrder(t, conn, day(9), "0", "0", soldLine{croissant, 4})

	start, end := day(1), day(2)
	got, err := svc.SalesSummary(context.Background(), pkgtypes.DateRange{Start: &start, End: &end})
	require.NoError(t, err)

	assert.Equal(t, int64(2), got.OrderCount)
	assert.Equal(t, "93000.00", got.Subtotal)
	assert.Equal(t, "5000.00", got.Discount)
	assert.Equal(t, "2500.00", got.Tax)
	assert.Equal(t, "90500.00", got.Revenue)
	assert.Equal(t, int64(4), got.ItemsSold)
	assert.Equal(t, "37000.00", got.COGS)
	assert.Equal(t, "53500.00", got.GrossProfit)
	assert.Equal(t, "45250.00", got.AvgOrderValue)
}

func TestSalesSummaryRejectsInvertedRange(t *testing.T) {
	svc, _ := newTestService(t)
	start, end := day(5), day(1)
	_, err := svc.SalesSummary(context.Background(), pkgtypes.DateRange{Start: &start, End: &end})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestTopProductsOrdersByQuantityThenRevenue(t *testing.T) {
	svc, conn := newTestService(t)
	cheap := seedProduct(t, conn, "SKU-A", "Cheap", 100, "100", "10", true)
	pricey := seedProduct(t, conn, "SKU-B", "Pricey", 100, "900", "10", true)
	slow := seedProduct(t, conn, "SKU-C", "Slow", 100, "5000", "10", true)

	seedOrder(t, conn, day(3), "0", "0", soldLine{cheap, 3}, soldLine{pricey, 3}, soldLine{slow, 1})

	got, err := svc.TopProducts(context.Background(), pkgtypes.DateRange{}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "SKU-B", got[0].SKU)
	assert.Equal(t, int64(3), got[0].QtySold)
	assert.Equal(t, "2700.00", got[0].Revenue)
	assert.Equal(t, "SKU-A", got[1].SKU)
}

func TestStockValuationCountsActiveOnly(t *testing.T) {
	svc, conn := newTestService(t)
	seedProduct(t, conn, "SKU-A", "A", 10, "25000", "9000", true)
	seedProduct(t, conn, "SKU-B", "B", 2, "1000.50", "400.25", true)
	seedProduct(t, conn, "SKU-C", "C", 99, "1", "1", false)

	got, err := svc.StockValuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ActiveProducts)
	assert.Equal(t, int64(12), got.TotalUnits)
	assert.Equal(t, "90800.50", got.InventoryCostValue)
	assert.Equal(t, "252001.00", got.InventoryRetailValue)
	assert.Equal(t, "161200.50", got.PotentialMargin)
}

type stubReporter struct {
	limit int
	err   error
}

func (s *stubReporter) SalesTotals(ctx context.Context, dates pkgtypes.DateRange) (query.SalesTotals, error) {
	return query.SalesTotals{}, s.err
}

func (s *stubReporter) TopProducts(ctx context.Context, dates pkgtypes.DateRange, limit int) ([]query.ProductSales, error) {
	s.limit = limit
	return nil, s.err
}

func (s *stubReporter) StockTotals(ctx context.Context) (query.StockTotals, error) {
	return query.StockTotals{}, s.err
}

func TestTopProductsLimitBounds(t *testing.T) {
	stub := &stubReporter{}
	svc, err := NewService(stub)
	require.NoError(t, err)

	_, err = svc.TopProducts(context.Background(), pkgtypes.DateRange{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, stub.limit)

	_, err = svc.TopProducts(context.Background(), pkgtypes.DateRange{}, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, stub.limit)
}

func TestServicePropagatesQueryErrors(t *testing.T) {
	svc, err := NewService(&stubReporter{err: errors.New("down")})
	require.NoError(t, err)
	_, err = svc.StockValuation(context.Background())
	assert.Error(t, err)

	_, err = NewService(nil)
	assert.Error(t, err)
}
