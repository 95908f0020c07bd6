package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

const orderNumberConstraint = "idx_orders_order_number"

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order header only; items go through CreateItems.
func (r *repository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		if db.IsUniqueViolation(err, orderNumberConstraint) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already exists").
				WithDetails(map[string]any{"order_number": order.OrderNumber})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return nil
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	if err := r.db.WithContext(ctx).Omit("Product").Create(&items).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
	}
	return nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) (pagination.Page[models.Order], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.Orders.Normalize(params.Limit)
	query := r.db.WithContext(ctx)
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.At, cursor.At, cursor.ID)
	}

	var rows []models.Order
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.Orders.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return pagination.Page[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	return pagination.Trim(rows, limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{At: o.CreatedAt, ID: o.ID}
	}), nil
}

func (r *repository) FindWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.line_no ASC")
		}).
		Preload("Items.Product").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
				WithDetails(map[string]any{"order_id": id})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return &order, nil
}
