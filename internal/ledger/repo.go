package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/enums"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/money"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
	"github.com/moonpos/moonpos-backend/pkg/types"
)

// Posting is one balanced economic event: amount moves from CreditAccount to
// DebitAccount under TxRef.
type Posting struct {
	TxRef         string
	DebitAccount  string
	CreditAccount string
	Amount        decimal.Decimal
	Note          string
}

// TrialBalanceRow aggregates one account over a date range.
type TrialBalanceRow struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
	Balance decimal.Decimal
}

// UnbalancedRef is a tx_ref whose debits and credits disagree.
type UnbalancedRef struct {
	TxRef  string
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Repository manages persistence for ledger entries. PostDoubleEntry is the
// only writer.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	PostDoubleEntry(ctx context.Context, posting Posting) ([]models.LedgerEntry, error)
	List(ctx context.Context, dates types.DateRange, params pagination.Params) (pagination.Page[models.LedgerEntry], error)
	TrialBalance(ctx context.Context, dates types.DateRange) ([]TrialBalanceRow, error)
	ListByTxRef(ctx context.Context, txRef string) ([]models.LedgerEntry, error)
	UnbalancedRefs(ctx context.Context, since time.Time) ([]UnbalancedRef, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// PostDoubleEntry writes a debit row and a credit row sharing tx_ref, note,
// amount and tx_date. A normalized amount <= 0 is a no-op and returns nil.
func (r *repository) PostDoubleEntry(ctx context.Context, posting Posting) ([]models.LedgerEntry, error) {
	amount := money.Normalize(posting.Amount)
	if !amount.IsPositive() {
		return nil, nil
	}

	txRef := strings.TrimSpace(posting.TxRef)
	debit := strings.TrimSpace(posting.DebitAccount)
	credit := strings.TrimSpace(posting.CreditAccount)
	if txRef == "" || debit == "" || credit == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "posting requires tx_ref, debit and credit accounts")
	}
	if len(debit) > accountMaxLen || len(credit) > accountMaxLen {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "account names are limited to %d characters", accountMaxLen)
	}

	var note *string
	if trimmed := strings.TrimSpace(posting.Note); trimmed != "" {
		note = &trimmed
	}

	txDate := db.Now()
	entries := []models.LedgerEntry{
		{
			ID:        uuid.New(),
			TxRef:     txRef,
			TxDate:    txDate,
			Account:   debit,
			Direction: enums.LedgerDirectionDebit,
			Amount:    amount,
			Note:      note,
		},
		{
			ID:        uuid.New(),
			TxRef:     txRef,
			TxDate:    txDate,
			Account:   credit,
			Direction: enums.LedgerDirectionCredit,
			Amount:    amount,
			Note:      note,
		},
	}
	if err := r.db.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "post ledger entries")
	}
	return entries, nil
}

func (r *repository) List(ctx context.Context, dates types.DateRange, params pagination.Params) (pagination.Page[models.LedgerEntry], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.LedgerEntry]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.Ledger.Normalize(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Scopes(dates.Scope("tx_date"))
	if cursor != nil {
		query = query.Where("(tx_date < ?) OR (tx_date = ? AND id < ?)", cursor.At, cursor.At, cursor.ID)
	}

	var rows []models.LedgerEntry
	if err := query.
		Order("tx_date DESC").
		Order("id DESC").
		Limit(pagination.Ledger.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return pagination.Page[models.LedgerEntry]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}

	return pagination.Trim(rows, limit, func(e models.LedgerEntry) pagination.Cursor {
		return pagination.Cursor{At: e.TxDate, ID: e.ID}
	}), nil
}

type trialBalanceScan struct {
	Account string
	Debit   decimal.Decimal
	Credit  decimal.Decimal
}

func (r *repository) TrialBalance(ctx context.Context, dates types.DateRange) ([]TrialBalanceRow, error) {
	var scanned []trialBalanceScan
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select(`account,
			COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS debit,
			COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS credit`,
			enums.LedgerDirectionDebit, enums.LedgerDirectionCredit).
		Scopes(dates.Scope("tx_date")).
		Group("account").
		Order("account ASC").
		Scan(&scanned).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate trial balance")
	}

	rows := make([]TrialBalanceRow, 0, len(scanned))
	for _, s := range scanned {
		debit := money.Normalize(s.Debit)
		credit := money.Normalize(s.Credit)
		rows = append(rows, TrialBalanceRow{
			Account: s.Account,
			Debit:   debit,
			Credit:  credit,
			Balance: money.Sub(debit, credit),
		})
	}
	return rows, nil
}

func (r *repository) ListByTxRef(ctx context.Context, txRef string) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("tx_ref = ?", txRef).
		Order("direction DESC").
		Order("account ASC").
		Find(&entries).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries by tx_ref")
	}
	return entries, nil
}

// UnbalancedRefs audits every tx_ref dated on or after since. PostDoubleEntry
// never produces one, so any row returned points at out-of-band writes.
func (r *repository) UnbalancedRefs(ctx context.Context, since time.Time) ([]UnbalancedRef, error) {
	var refs []UnbalancedRef
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select(`tx_ref,
			COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS debit,
			COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE 0 END), 0) AS credit`,
			enums.LedgerDirectionDebit, enums.LedgerDirectionCredit).
		Where("tx_date >= ?", since).
		Group("tx_ref").
		Having("SUM(CASE WHEN direction = ? THEN amount ELSE 0 END) <> SUM(CASE WHEN direction = ? THEN amount ELSE 0 END)",
			enums.LedgerDirectionDebit, enums.LedgerDirectionCredit).
		Order("tx_ref ASC").
		Scan(&refs).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "audit ledger balance")
	}
	return refs, nil
}
