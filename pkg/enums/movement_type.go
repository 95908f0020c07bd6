package enums

import "fmt"

// MovementType classifies an inventory movement row.
type MovementType string

const (
	MovementTypeSale       MovementType = "sale"
	MovementTypeRestock    MovementType = "restock"
	MovementTypeAdjustment MovementType = "adjustment"
)

var validMovementTypes = []MovementType{
	MovementTypeSale,
	MovementTypeRestock,
	MovementTypeAdjustment,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}

// MovementTypeForDelta picks restock for increases and adjustment for decreases.
func MovementTypeForDelta(delta int) MovementType {
	if delta > 0 {
		return MovementTypeRestock
	}
	return MovementTypeAdjustment
}
