package enums

import "strings"

// PaymentMethod is the free-form tender recorded on an order. Only "credit"
// changes bookkeeping behaviour.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCredit PaymentMethod = "credit"

	// PaymentMethodMaxLen bounds the stored payment method.
	PaymentMethodMaxLen = 40
)

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsCredit reports whether the sale is settled on account.
func (p PaymentMethod) IsCredit() bool {
	return p == PaymentMethodCredit
}

// NormalizePaymentMethod trims and lowercases raw input, defaulting to cash.
func NormalizePaymentMethod(value string) PaymentMethod {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	if cleaned == "" {
		return PaymentMethodCash
	}
	return PaymentMethod(cleaned)
}
