package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. StockQty only changes through inventory
// movements.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SKU       string          `gorm:"column:sku;size:64;not null;uniqueIndex:idx_products_sku"`
	Name      string          `gorm:"column:name;size:200;not null;index:idx_products_name"`
	Category  *string         `gorm:"column:category;size:100"`
	SellPrice decimal.Decimal `gorm:"column:sell_price;type:numeric(12,2);not null"`
	CostPrice decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null"`
	StockQty  int             `gorm:"column:stock_qty;not null;check:chk_products_stock_qty_non_negative,stock_qty >= 0"`
	MinStock  int             `gorm:"column:min_stock;not null"`
	IsActive  bool            `gorm:"column:is_active;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock reports whether stock has reached the reorder threshold.
func (p Product) IsLowStock() bool {
	return p.StockQty <= p.MinStock
}
