package types

import "github.com/google/uuid"

// SalesSummary aggregates completed orders over a date range. Money is
// rendered as fixed two-digit strings.
type SalesSummary struct {
	OrderCount    int64  `json:"order_count"`
	Subtotal      string `json:"subtotal"`
	Discount      string `json:"discount"`
	Tax           string `json:"tax"`
	Revenue       string `json:"revenue"`
	ItemsSold     int64  `json:"items_sold"`
	COGS          string `json:"cogs"`
	GrossProfit   string `json:"gross_profit"`
	AvgOrderValue string `json:"avg_order_value"`
}

// TopProduct is one row of the best sellers report.
type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	QtySold   int64     `json:"qty_sold"`
	Revenue   string    `json:"revenue"`
}

// StockValuation values the active catalog at cost and at retail.
type StockValuation struct {
	ActiveProducts       int64  `json:"active_products"`
	TotalUnits           int64  `json:"total_units"`
	InventoryCostValue   string `json:"inventory_cost_value"`
	InventoryRetailValue string `json:"inventory_retail_value"`
	PotentialMargin      string `json:"potential_margin"`
}
