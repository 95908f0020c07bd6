package enums

// RefType names the kind of record an inventory movement points back to.
type RefType string

const (
	RefTypeOrder  RefType = "order"
	RefTypeManual RefType = "manual"
)

// String implements fmt.Stringer.
func (r RefType) String() string {
	return string(r)
}
