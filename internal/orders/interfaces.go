package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

// Repository defines persistence operations for the orders and order_items tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	CreateItems(ctx context.Context, items []models.OrderItem) error
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.Order], error)
	FindWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error)
}
