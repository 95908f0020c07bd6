package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/pkg/enums"
)

// InventoryMovement is the immutable audit row written for every stock change.
type InventoryMovement struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ProductID      uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index:idx_inventory_movements_product"`
	Product        *Product           `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	MovementType   enums.MovementType `gorm:"column:movement_type;size:20;not null"`
	QuantityChange int                `gorm:"column:quantity_change;not null"`
	BeforeQty      int                `gorm:"column:before_qty;not null"`
	AfterQty       int                `gorm:"column:after_qty;not null"`
	Reason         *string            `gorm:"column:reason"`
	RefType        *enums.RefType     `gorm:"column:ref_type;size:30"`
	RefID          *uuid.UUID         `gorm:"column:ref_id;type:uuid"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime;index:idx_inventory_movements_created_at"`
}
