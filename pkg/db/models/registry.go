package models

// All lists every persisted model in dependency order. Used by sqlite
// auto-migration and tests; postgres uses the goose migrations.
func All() []any {
	return []any{
		&Product{},
		&InventoryMovement{},
		&LedgerEntry{},
		&Order{},
		&OrderItem{},
	}
}
