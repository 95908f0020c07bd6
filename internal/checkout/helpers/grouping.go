package helpers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/money"
)

// Line is one requested basket entry.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// CoalesceLines merges repeated product ids into one line, keeping the order
// in which each id was first seen.
func CoalesceLines(lines []Line) []Line {
	index := make(map[uuid.UUID]int, len(lines))
	merged := make([]Line, 0, len(lines))
	for _, line := range lines {
		if pos, ok := index[line.ProductID]; ok {
			merged[pos].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

// ProductIDs lists the ids of the lines in order.
func ProductIDs(lines []Line) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

// PricedLine is a basket line priced from the locked product row.
type PricedLine struct {
	Product   *models.Product
	Quantity  int
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
	LineTotal decimal.Decimal
	LineCost  decimal.Decimal
}

// Totals are the order-level amounts, all normalized.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	COGS     decimal.Decimal
}

// GrossProfit is total minus cost of goods sold.
func (t Totals) GrossProfit() decimal.Decimal {
	return money.Sub(t.Total, t.COGS)
}

// PriceLines prices each line from products and accumulates subtotal and
// cogs. Every line must have a matching product.
func PriceLines(lines []Line, products map[uuid.UUID]*models.Product) ([]PricedLine, Totals) {
	priced := make([]PricedLine, 0, len(lines))
	totals := Totals{Subtotal: money.Zero, COGS: money.Zero}
	for _, line := range lines {
		product := products[line.ProductID]
		unitPrice := money.Normalize(product.SellPrice)
		unitCost := money.Normalize(product.CostPrice)
		p := PricedLine{
			Product:   product,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			UnitCost:  unitCost,
			LineTotal: money.Mul(unitPrice, line.Quantity),
			LineCost:  money.Mul(unitCost, line.Quantity),
		}
		totals.Subtotal = money.Add(totals.Subtotal, p.LineTotal)
		totals.COGS = money.Add(totals.COGS, p.LineCost)
		priced = append(priced, p)
	}
	return priced, totals
}

// ApplyAdjustments fills in discount, tax and total = subtotal - discount + tax.
func ApplyAdjustments(totals Totals, discount, tax decimal.Decimal) Totals {
	totals.Discount = money.Normalize(discount)
	totals.Tax = money.Normalize(tax)
	totals.Total = money.Add(money.Sub(totals.Subtotal, totals.Discount), totals.Tax)
	return totals
}
