package checkout

import (
	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/internal/checkout/helpers"
	"github.com/moonpos/moonpos-backend/internal/orders"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/money"
)

// ReceiptLine is a sold line as shown on the receipt.
type ReceiptLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

// Receipt is the committed order with its profit figures.
type Receipt struct {
	orders.OrderSummary
	COGS        string        `json:"cogs"`
	GrossProfit string        `json:"gross_profit"`
	Lines       []ReceiptLine `json:"lines"`
}

func newReceipt(order *models.Order, priced []helpers.PricedLine, totals helpers.Totals) *Receipt {
	lines := make([]ReceiptLine, 0, len(priced))
	for _, line := range priced {
		lines = append(lines, ReceiptLine{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   money.Format(line.UnitPrice),
			LineTotal:   money.Format(line.LineTotal),
		})
	}
	return &Receipt{
		OrderSummary: orders.NewOrderSummary(order),
		COGS:         money.Format(totals.COGS),
		GrossProfit:  money.Format(totals.GrossProfit()),
		Lines:        lines,
	}
}
