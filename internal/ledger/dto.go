package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/enums"
	"github.com/moonpos/moonpos-backend/pkg/money"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

// EntryDTO is the public representation of a ledger row.
type EntryDTO struct {
	ID        uuid.UUID             `json:"id"`
	TxRef     string                `json:"tx_ref"`
	TxDate    time.Time             `json:"tx_date"`
	Account   string                `json:"account"`
	Direction enums.LedgerDirection `json:"direction"`
	Amount    string                `json:"amount"`
	Note      *string               `json:"note,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

// TrialBalanceAccountDTO is one account line of the trial balance.
type TrialBalanceAccountDTO struct {
	Account string `json:"account"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
	Balance string `json:"balance"`
}

// TrialBalanceDTO carries the per-account lines plus column totals.
type TrialBalanceDTO struct {
	Accounts    []TrialBalanceAccountDTO `json:"accounts"`
	TotalDebit  string                   `json:"total_debit"`
	TotalCredit string                   `json:"total_credit"`
}

func NewEntryDTO(e models.LedgerEntry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		TxRef:     e.TxRef,
		TxDate:    e.TxDate.UTC(),
		Account:   e.Account,
		Direction: e.Direction,
		Amount:    money.Format(e.Amount),
		Note:      e.Note,
		CreatedAt: e.CreatedAt.UTC(),
	}
}

func newEntryPage(page pagination.Page[models.LedgerEntry]) pagination.Page[EntryDTO] {
	items := make([]EntryDTO, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, NewEntryDTO(e))
	}
	return pagination.Page[EntryDTO]{Items: items, NextCursor: page.NextCursor}
}

func newTrialBalanceDTO(rows []TrialBalanceRow) TrialBalanceDTO {
	out := TrialBalanceDTO{Accounts: make([]TrialBalanceAccountDTO, 0, len(rows))}
	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, row := range rows {
		totalDebit = money.Add(totalDebit, row.Debit)
		totalCredit = money.Add(totalCredit, row.Credit)
		out.Accounts = append(out.Accounts, TrialBalanceAccountDTO{
			Account: row.Account,
			Debit:   money.Format(row.Debit),
			Credit:  money.Format(row.Credit),
			Balance: money.Format(row.Balance),
		})
	}
	out.TotalDebit = money.Format(totalDebit)
	out.TotalCredit = money.Format(totalCredit)
	return out
}
