package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/moonpos/moonpos-backend/internal/ledger"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/money"
	"github.com/moonpos/moonpos-backend/pkg/types"
)

const ledgerAuditJobName = "ledger-audit"

const defaultAuditLookback = 48 * time.Hour

type ledgerAuditor interface {
	UnbalancedRefs(ctx context.Context, since time.Time) ([]ledger.UnbalancedRef, error)
	TrialBalance(ctx context.Context, dates types.DateRange) ([]ledger.TrialBalanceRow, error)
}

// LedgerAuditJobParams configure the double-entry audit.
type LedgerAuditJobParams struct {
	Logger   *logger.Logger
	Ledger   ledgerAuditor
	Lookback time.Duration
}

// NewLedgerAuditJob builds the job that verifies recent postings balance per
// tx_ref and that the whole book balances.
func NewLedgerAuditJob(params LedgerAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	lookback := params.Lookback
	if lookback <= 0 {
		lookback = defaultAuditLookback
	}
	return &ledgerAuditJob{
		logg:     params.Logger,
		ledger:   params.Ledger,
		lookback: lookback,
		now:      time.Now,
	}, nil
}

type ledgerAuditJob struct {
	logg     *logger.Logger
	ledger   ledgerAuditor
	lookback time.Duration
	now      func() time.Time
}

func (j *ledgerAuditJob) Name() string { return ledgerAuditJobName }

func (j *ledgerAuditJob) Run(ctx context.Context) error {
	var errs []error
	if err := j.auditRecentRefs(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := j.auditTrialBalance(ctx); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *ledgerAuditJob) auditRecentRefs(ctx context.Context) error {
	since := j.now().UTC().Add(-j.lookback)
	refs, err := j.ledger.UnbalancedRefs(ctx, since)
	if err != nil {
		return fmt.Errorf("query unbalanced refs: %w", err)
	}
	var errs []error
	for _, ref := range refs {
		errs = append(errs, fmt.Errorf("tx_ref %s unbalanced: debit %s credit %s",
			ref.TxRef, money.Format(ref.Debit), money.Format(ref.Credit)))
	}
	return multierr.Combine(errs...)
}

func (j *ledgerAuditJob) auditTrialBalance(ctx context.Context) error {
	rows, err := j.ledger.TrialBalance(ctx, types.DateRange{})
	if err != nil {
		return fmt.Errorf("aggregate trial balance: %w", err)
	}
	debit, credit := money.Zero, money.Zero
	for _, row := range rows {
		debit = money.Add(debit, row.Debit)
		credit = money.Add(credit, row.Credit)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"total_debit":  money.Format(debit),
		"total_credit": money.Format(credit),
		"accounts":     len(rows),
	}), "ledger.audit.trial_balance")
	if !debit.Equal(credit) {
		return fmt.Errorf("trial balance off: debit %s credit %s", money.Format(debit), money.Format(credit))
	}
	return nil
}
