package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the header of a completed checkout.
type Order struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber   string          `gorm:"column:order_number;size:64;not null;uniqueIndex:idx_orders_order_number"`
	PaymentMethod string          `gorm:"column:payment_method;size:40;not null"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null"`
	Discount      decimal.Decimal `gorm:"column:discount;type:numeric(14,2);not null"`
	Tax           decimal.Decimal `gorm:"column:tax;type:numeric(14,2);not null"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_orders_created_at"`
}

// OrderItem captures price and cost at the moment of sale.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_order_items_order_line,priority:1"`
	LineNo        int             `gorm:"column:line_no;not null;uniqueIndex:idx_order_items_order_line,priority:2"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index:idx_order_items_product"`
	Product       *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity      int             `gorm:"column:quantity;not null;check:chk_order_items_quantity_positive,quantity > 0"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CostPrice     decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null"`
	LineTotal     decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null"`
	LineCostTotal decimal.Decimal `gorm:"column:line_cost_total;type:numeric(14,2);not null"`
}
