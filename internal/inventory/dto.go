package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/enums"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

// MovementDTO is the public shape of an inventory movement.
type MovementDTO struct {
	ID             uuid.UUID          `json:"id"`
	ProductID      uuid.UUID          `json:"product_id"`
	SKU            string             `json:"sku,omitempty"`
	ProductName    string             `json:"product_name,omitempty"`
	MovementType   enums.MovementType `json:"movement_type"`
	QuantityChange int                `json:"quantity_change"`
	BeforeQty      int                `json:"before_qty"`
	AfterQty       int                `json:"after_qty"`
	Reason         *string            `json:"reason,omitempty"`
	RefType        *enums.RefType     `json:"ref_type,omitempty"`
	RefID          *uuid.UUID         `json:"ref_id,omitempty"`
	TxRef          string             `json:"tx_ref,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

func NewMovementDTO(m *models.InventoryMovement) *MovementDTO {
	if m == nil {
		return nil
	}
	dto := &MovementDTO{
		ID:             m.ID,
		ProductID:      m.ProductID,
		MovementType:   m.MovementType,
		QuantityChange: m.QuantityChange,
		BeforeQty:      m.BeforeQty,
		AfterQty:       m.AfterQty,
		Reason:         m.Reason,
		RefType:        m.RefType,
		RefID:          m.RefID,
		CreatedAt:      m.CreatedAt.UTC(),
	}
	if m.Product != nil {
		dto.SKU = m.Product.SKU
		dto.ProductName = m.Product.Name
	}
	return dto
}

func newMovementPage(page pagination.Page[models.InventoryMovement]) pagination.Page[MovementDTO] {
	items := make([]MovementDTO, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *NewMovementDTO(&page.Items[i]))
	}
	return pagination.Page[MovementDTO]{Items: items, NextCursor: page.NextCursor}
}

// NewAdjustmentDTO renders an adjustment result with its ledger reference.
func NewAdjustmentDTO(result *AdjustResult) *MovementDTO {
	if result == nil {
		return nil
	}
	dto := NewMovementDTO(result.Movement)
	if dto != nil {
		dto.TxRef = result.TxRef
	}
	return dto
}
