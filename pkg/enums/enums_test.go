package enums

import "testing"

func TestParseMovementType(t *testing.T) {
	for _, raw := range []string{"sale", "restock", "adjustment"} {
		got, err := ParseMovementType(raw)
		if err != nil {
			t.Fatalf("ParseMovementType(%q) returned error: %v", raw, err)
		}
		if !got.IsValid() {
			t.Fatalf("expected %q to be valid", got)
		}
	}
	if _, err := ParseMovementType("refund"); err == nil {
		t.Fatal("expected error for unknown movement type")
	}
}

func TestMovementTypeForDelta(t *testing.T) {
	if got := MovementTypeForDelta(20); got != MovementTypeRestock {
		t.Fatalf("expected restock got %s", got)
	}
	if got := MovementTypeForDelta(-3); got != MovementTypeAdjustment {
		t.Fatalf("expected adjustment got %s", got)
	}
}

func TestParseLedgerDirection(t *testing.T) {
	if _, err := ParseLedgerDirection("debit"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseLedgerDirection("sideways"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := map[string]PaymentMethod{
		"":         PaymentMethodCash,
		"   ":      PaymentMethodCash,
		" CREDIT ": PaymentMethodCredit,
		"QRIS":     PaymentMethod("qris"),
		"cash":     PaymentMethodCash,
	}
	for raw, want := range tests {
		if got := NormalizePaymentMethod(raw); got != want {
			t.Fatalf("NormalizePaymentMethod(%q) = %q want %q", raw, got, want)
		}
	}
	if !PaymentMethodCredit.IsCredit() || PaymentMethodCash.IsCredit() {
		t.Fatal("unexpected IsCredit result")
	}
}
