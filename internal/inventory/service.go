package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/internal/ledger"
	product "github.com/moonpos/moonpos-backend/internal/products"
	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/enums"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/metrics"
	"github.com/moonpos/moonpos-backend/pkg/money"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
	"github.com/moonpos/moonpos-backend/pkg/refs"
)

const counterpartyMaxLen = 120

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service runs manual stock adjustments and exposes the movement log.
type Service interface {
	Adjust(ctx context.Context, input AdjustInput) (*AdjustResult, error)
	ListMovements(ctx context.Context, params pagination.Params) (pagination.Page[MovementDTO], error)
}

// AdjustInput describes a manual stock correction. CounterpartyAccount
// overrides the default offset account of the ledger posting.
type AdjustInput struct {
	ProductID           uuid.UUID
	QuantityChange      int
	Reason              *string
	CounterpartyAccount *string
}

// AdjustResult is the committed movement plus the bookkeeping reference it
// was posted under.
type AdjustResult struct {
	Movement *models.InventoryMovement
	TxRef    string
}

// ServiceParams wires the adjustment service.
type ServiceParams struct {
	DB       txRunner
	Products *product.Repository
	Repo     Repository
	Ledger   ledger.Repository
	Metrics  *metrics.TransactionMetrics
	Logger   *logger.Logger
}

type service struct {
	db       txRunner
	products *product.Repository
	repo     Repository
	ledger   ledger.Repository
	metrics  *metrics.TransactionMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{
		db:       params.DB,
		products: params.Products,
		repo:     params.Repo,
		ledger:   params.Ledger,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) Adjust(ctx context.Context, input AdjustInput) (result *AdjustResult, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe(metrics.KindAdjustment, time.Since(started), err)
	}()

	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.QuantityChange == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity_change must not be zero").
			WithDetails(map[string]string{"quantity_change": "must not be zero"})
	}
	if input.QuantityChange < -models.MaxLineQuantity || input.QuantityChange > models.MaxLineQuantity {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "quantity_change must be within ±%d", models.MaxLineQuantity).
			WithDetails(map[string]string{"quantity_change": "out of range"})
	}
	reason := trimmedOrNil(input.Reason)
	counterparty, err := counterpartyFor(input)
	if err != nil {
		return nil, err
	}

	var postings int
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.products.WithTx(tx).FindActiveForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}

		before := locked.StockQty
		if before+input.QuantityChange < 0 {
			return pkgerrors.Newf(pkgerrors.CodeInsufficientStock, "Current stock %d, reduction %d", before, -input.QuantityChange).
				WithDetails(map[string]any{
					"product_id":   locked.ID,
					"product_name": locked.Name,
					"available":    before,
					"requested":    -input.QuantityChange,
				})
		}
		if before+input.QuantityChange > models.MaxStockQty {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "Stock for %s would exceed %d", locked.Name, models.MaxStockQty).
				WithDetails(map[string]any{
					"product_id": locked.ID,
					"available":  before,
					"requested":  input.QuantityChange,
				})
		}

		movement, err := s.repo.WithTx(tx).Append(ctx, locked, enums.MovementTypeForDelta(input.QuantityChange), input.QuantityChange, reason, &Ref{Type: enums.RefTypeManual})
		if err != nil {
			return err
		}

		txRef, err := refs.AdjustmentRef(db.Now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate adjustment reference")
		}

		note := fmt.Sprintf("Manual stock adjustment %s", locked.SKU)
		if reason != nil {
			note = *reason
		}
		posting := ledger.Posting{
			TxRef:  txRef,
			Amount: money.Mul(locked.CostPrice, abs(input.QuantityChange)),
			Note:   note,
		}
		if posting.Amount.GreaterThan(models.MaxTotalAmount) {
			return pkgerrors.Newf(pkgerrors.CodeInvalidTransaction, "Adjustment value exceeds %s", money.Format(models.MaxTotalAmount)).
				WithDetails(map[string]string{"amount": money.Format(posting.Amount)})
		}
		if input.QuantityChange > 0 {
			posting.DebitAccount, posting.CreditAccount = ledger.AccountInventory, counterparty
		} else {
			posting.DebitAccount, posting.CreditAccount = counterparty, ledger.AccountInventory
		}
		entries, err := s.ledger.WithTx(tx).PostDoubleEntry(ctx, posting)
		if err != nil {
			return err
		}
		postings = len(entries) / 2

		result = &AdjustResult{Movement: movement, TxRef: txRef}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddPostings(metrics.KindAdjustment, postings)
	s.metrics.AddUnits(metrics.KindAdjustment, input.QuantityChange)
	if s.logg != nil {
		logCtx := s.logg.WithTxRef(ctx, result.TxRef)
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"product_id":      result.Movement.ProductID,
			"movement_type":   result.Movement.MovementType,
			"quantity_change": result.Movement.QuantityChange,
			"after_qty":       result.Movement.AfterQty,
		})
		s.logg.Info(logCtx, "inventory.adjusted")
	}
	return result, nil
}

func (s *service) ListMovements(ctx context.Context, params pagination.Params) (pagination.Page[MovementDTO], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[MovementDTO]{}, err
	}
	return newMovementPage(page), nil
}

// counterpartyFor resolves the offset account: the caller's override when
// non-blank, else Cash for increases and shrinkage expense for decreases.
func counterpartyFor(input AdjustInput) (string, error) {
	if custom := trimmedOrNil(input.CounterpartyAccount); custom != nil {
		if utf8.RuneCountInString(*custom) > counterpartyMaxLen {
			return "", pkgerrors.Newf(pkgerrors.CodeValidation, "counterparty_account must be at most %d characters", counterpartyMaxLen)
		}
		return *custom, nil
	}
	if input.QuantityChange > 0 {
		return ledger.AccountCash, nil
	}
	return ledger.AccountShrinkageExpense, nil
}

func trimmedOrNil(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
