package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moonpos/moonpos-backend/pkg/enums"
)

// LedgerEntry is one side of a double-entry posting. Entries belonging to the
// same economic event share TxRef.
type LedgerEntry struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	TxRef     string                `gorm:"column:tx_ref;size:64;not null;index:idx_ledger_entries_tx_ref"`
	TxDate    time.Time             `gorm:"column:tx_date;not null;index:idx_ledger_entries_tx_date"`
	Account   string                `gorm:"column:account;size:120;not null;index:idx_ledger_entries_account"`
	Direction enums.LedgerDirection `gorm:"column:direction;size:10;not null"`
	Amount    decimal.Decimal       `gorm:"column:amount;type:numeric(14,2);not null"`
	Note      *string               `gorm:"column:note"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
