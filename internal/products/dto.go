package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/money"
)

// ProductDTO represents the catalog payload returned to clients. Money is
// rendered as fixed two-digit strings.
type ProductDTO struct {
	ID         uuid.UUID `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Category   *string   `json:"category,omitempty"`
	SellPrice  string    `json:"sell_price"`
	CostPrice  string    `json:"cost_price"`
	StockQty   int       `json:"stock_qty"`
	MinStock   int       `json:"min_stock"`
	IsActive   bool      `json:"is_active"`
	IsLowStock bool      `json:"is_low_stock"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:         product.ID,
		SKU:        product.SKU,
		Name:       product.Name,
		Category:   product.Category,
		SellPrice:  money.Format(product.SellPrice),
		CostPrice:  money.Format(product.CostPrice),
		StockQty:   product.StockQty,
		MinStock:   product.MinStock,
		IsActive:   product.IsActive,
		IsLowStock: product.IsLowStock(),
		CreatedAt:  product.CreatedAt.UTC(),
		UpdatedAt:  product.UpdatedAt.UTC(),
	}
}

func newProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out
}
