package helpers

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/enums"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/money"
)

// ValidateLines rejects an empty basket, nil product ids and quantities
// outside 1..models.MaxLineQuantity. Details are keyed by the offending line index.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required").
			WithDetails(map[string]string{"items": "must not be empty"})
	}
	details := map[string]string{}
	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			details[fmt.Sprintf("items[%d].product_id", i)] = "is required"
		}
		switch {
		case line.Quantity <= 0:
			details[fmt.Sprintf("items[%d].quantity", i)] = "must be greater than 0"
		case line.Quantity > models.MaxLineQuantity:
			details[fmt.Sprintf("items[%d].quantity", i)] = fmt.Sprintf("must be at most %d", models.MaxLineQuantity)
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout items").WithDetails(details)
	}
	return nil
}

// ValidateCoalesced rejects a product whose repeated lines add up to more
// than models.MaxLineQuantity. Run it on the output of CoalesceLines.
func ValidateCoalesced(lines []Line) error {
	details := map[string]string{}
	for _, line := range lines {
		if line.Quantity <= 0 || line.Quantity > models.MaxLineQuantity {
			details[line.ProductID.String()] = fmt.Sprintf("combined quantity must be between 1 and %d", models.MaxLineQuantity)
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout items").WithDetails(details)
	}
	return nil
}

// ValidateAdjustments defaults missing discount and tax to zero and rejects
// negative values or values beyond models.MaxTotalAmount.
func ValidateAdjustments(discount, tax *decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	d := money.NormalizePtr(discount)
	x := money.NormalizePtr(tax)
	details := map[string]string{}
	for field, amount := range map[string]decimal.Decimal{"discount": d, "tax": x} {
		switch {
		case amount.IsNegative():
			details[field] = "must be greater than or equal to 0"
		case amount.GreaterThan(models.MaxTotalAmount):
			details[field] = "must be at most " + money.Format(models.MaxTotalAmount)
		}
	}
	if len(details) > 0 {
		return money.Zero, money.Zero, pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout amounts").WithDetails(details)
	}
	return d, x, nil
}

// ValidatePaymentMethod normalizes the tender and enforces its length.
func ValidatePaymentMethod(raw string) (enums.PaymentMethod, error) {
	method := enums.NormalizePaymentMethod(raw)
	if utf8.RuneCountInString(method.String()) > enums.PaymentMethodMaxLen {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "payment_method must be at most %d characters", enums.PaymentMethodMaxLen).
			WithDetails(map[string]string{"payment_method": "too long"})
	}
	return method, nil
}

// MissingProducts returns the requested ids absent from found, in request order.
func MissingProducts(lines []Line, found map[uuid.UUID]*models.Product) []uuid.UUID {
	var missing []uuid.UUID
	for _, line := range lines {
		if _, ok := found[line.ProductID]; !ok {
			missing = append(missing, line.ProductID)
		}
	}
	return missing
}

// CheckStock returns INSUFFICIENT_STOCK for the first line whose quantity
// exceeds the locked stock level.
func CheckStock(lines []Line, found map[uuid.UUID]*models.Product) error {
	for _, line := range lines {
		product := found[line.ProductID]
		if product.StockQty < line.Quantity {
			return pkgerrors.Newf(pkgerrors.CodeInsufficientStock, "Insufficient stock for %s", product.Name).
				WithDetails(map[string]any{
					"product_id":   product.ID,
					"product_name": product.Name,
					"available":    product.StockQty,
					"requested":    line.Quantity,
				})
		}
	}
	return nil
}

// CheckAmounts returns INVALID_TRANSACTION when a priced line or an order
// amount does not fit the stored numeric range.
func CheckAmounts(priced []PricedLine, totals Totals) error {
	limit := models.MaxTotalAmount
	for _, line := range priced {
		if line.LineTotal.GreaterThan(limit) || line.LineCost.GreaterThan(limit) {
			return pkgerrors.Newf(pkgerrors.CodeInvalidTransaction, "Line amount for %s exceeds %s", line.Product.Name, money.Format(limit)).
				WithDetails(map[string]any{
					"product_id": line.Product.ID,
					"line_total": money.Format(line.LineTotal),
				})
		}
	}
	for _, check := range []struct {
		field  string
		amount decimal.Decimal
	}{
		{"subtotal", totals.Subtotal},
		{"total", totals.Total},
		{"cogs", totals.COGS},
	} {
		if check.amount.GreaterThan(limit) {
			return pkgerrors.Newf(pkgerrors.CodeInvalidTransaction, "Order %s exceeds %s", check.field, money.Format(limit)).
				WithDetails(map[string]string{check.field: money.Format(check.amount)})
		}
	}
	return nil
}
