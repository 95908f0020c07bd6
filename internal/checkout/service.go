package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/internal/checkout/helpers"
	"github.com/moonpos/moonpos-backend/internal/inventory"
	"github.com/moonpos/moonpos-backend/internal/ledger"
	"github.com/moonpos/moonpos-backend/internal/orders"
	product "github.com/moonpos/moonpos-backend/internal/products"
	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/enums"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/metrics"
	"github.com/moonpos/moonpos-backend/pkg/money"
	"github.com/moonpos/moonpos-backend/pkg/refs"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, input CheckoutInput) (*Receipt, error)
}

// CheckoutInput is a basket plus order-level adjustments. Repeated product
// ids are merged before pricing.
type CheckoutInput struct {
	Items         []helpers.Line
	Discount      *decimal.Decimal
	Tax           *decimal.Decimal
	PaymentMethod string
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	DB        txRunner
	Products  *product.Repository
	Orders    orders.Repository
	Inventory inventory.Repository
	Ledger    ledger.Repository
	Metrics   *metrics.TransactionMetrics
	Logger    *logger.Logger
}

type service struct {
	tx        txRunner
	products  *product.Repository
	orders    orders.Repository
	inventory inventory.Repository
	ledger    ledger.Repository
	metrics   *metrics.TransactionMetrics
	logg      *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{
		tx:        params.DB,
		products:  params.Products,
		orders:    params.Orders,
		inventory: params.Inventory,
		ledger:    params.Ledger,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// Execute sells the basket in one transaction: stock is decremented, the
// order and its items are written and revenue and cost are posted to the
// ledger. Any failure rolls all of it back.
func (s *service) Execute(ctx context.Context, input CheckoutInput) (receipt *Receipt, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe(metrics.KindCheckout, time.Since(started), err)
	}()

	if err := helpers.ValidateLines(input.Items); err != nil {
		return nil, err
	}
	discount, tax, err := helpers.ValidateAdjustments(input.Discount, input.Tax)
	if err != nil {
		return nil, err
	}
	method, err := helpers.ValidatePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}

	lines := helpers.CoalesceLines(input.Items)
	if err := helpers.ValidateCoalesced(lines); err != nil {
		return nil, err
	}
	var (
		postings int
		units    int
	)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		inventoryRepo := s.inventory.WithTx(tx)
		ledgerRepo := s.ledger.WithTx(tx)

		locked, err := s.products.WithTx(tx).LockActive(ctx, helpers.ProductIDs(lines))
		if err != nil {
			return err
		}
		found := make(map[uuid.UUID]*models.Product, len(locked))
		for i := range locked {
			found[locked[i].ID] = &locked[i]
		}
		if missing := helpers.MissingProducts(lines, found); len(missing) > 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "products not found or inactive").
				WithDetails(map[string]any{"missing_product_ids": missing})
		}
		if err := helpers.CheckStock(lines, found); err != nil {
			return err
		}

		priced, totals := helpers.PriceLines(lines, found)
		totals = helpers.ApplyAdjustments(totals, discount, tax)
		if err := helpers.CheckAmounts(priced, totals); err != nil {
			return err
		}
		if totals.Total.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeInvalidTransaction, "Total cannot be negative").
				WithDetails(map[string]string{
					"subtotal": money.Format(totals.Subtotal),
					"discount": money.Format(totals.Discount),
					"tax":      money.Format(totals.Tax),
				})
		}

		number, err := refs.OrderNumber(db.Now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
		order := &models.Order{
			ID:            uuid.New(),
			OrderNumber:   number,
			PaymentMethod: method.String(),
			Subtotal:      totals.Subtotal,
			Discount:      totals.Discount,
			Tax:           totals.Tax,
			Total:         totals.Total,
			CreatedAt:     db.Now(),
		}
		if err := ordersRepo.Create(ctx, order); err != nil {
			return err
		}

		reason := fmt.Sprintf("Checkout %s", number)
		items := make([]models.OrderItem, 0, len(priced))
		for i, line := range priced {
			if _, err := inventoryRepo.Append(ctx, line.Product, enums.MovementTypeSale, -line.Quantity, &reason, &inventory.Ref{Type: enums.RefTypeOrder, ID: &order.ID}); err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				ID:            uuid.New(),
				OrderID:       order.ID,
				LineNo:        i + 1,
				ProductID:     line.Product.ID,
				Quantity:      line.Quantity,
				UnitPrice:     line.UnitPrice,
				CostPrice:     line.UnitCost,
				LineTotal:     line.LineTotal,
				LineCostTotal: line.LineCost,
			})
			units += line.Quantity
		}
		if err := ordersRepo.CreateItems(ctx, items); err != nil {
			return err
		}
		order.Items = items

		debit := ledger.AccountCash
		if method.IsCredit() {
			debit = ledger.AccountReceivable
		}
		note := fmt.Sprintf("Checkout order %s", number)
		for _, posting := range []ledger.Posting{
			{TxRef: number, DebitAccount: debit, CreditAccount: ledger.AccountSalesRevenue, Amount: totals.Total, Note: note},
			{TxRef: number, DebitAccount: ledger.AccountCOGS, CreditAccount: ledger.AccountInventory, Amount: totals.COGS, Note: note},
		} {
			entries, err := ledgerRepo.PostDoubleEntry(ctx, posting)
			if err != nil {
				return err
			}
			postings += len(entries) / 2
		}

		receipt = newReceipt(order, priced, totals)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddPostings(metrics.KindCheckout, postings)
	s.metrics.AddUnits(metrics.KindCheckout, units)
	if s.logg != nil {
		logCtx := s.logg.WithTxRef(ctx, receipt.OrderNumber)
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"order_id":       receipt.ID,
			"line_count":     len(receipt.Lines),
			"total":          receipt.Total,
			"payment_method": receipt.PaymentMethod,
		})
		s.logg.Info(logCtx, "checkout.completed")
	}
	return receipt, nil
}
