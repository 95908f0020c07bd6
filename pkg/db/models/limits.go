package models

import "github.com/shopspring/decimal"

// Column ranges of the postgres schema. Services reject inputs outside them
// before touching the store.
const (
	// MaxStockQty bounds stock levels and movement quantities (integer columns).
	MaxStockQty = 1_000_000_000
	// MaxLineQuantity bounds one checkout line and one manual adjustment.
	MaxLineQuantity = 1_000_000
)

var (
	// MaxUnitAmount is the largest numeric(12,2): unit prices and costs.
	MaxUnitAmount = decimal.RequireFromString("9999999999.99")
	// MaxTotalAmount is the largest numeric(14,2): order amounts and ledger rows.
	MaxTotalAmount = decimal.RequireFromString("999999999999.99")
)
