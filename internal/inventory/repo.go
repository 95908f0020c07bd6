package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	"github.com/moonpos/moonpos-backend/pkg/enums"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

// Ref points a movement back at the record that caused it.
type Ref struct {
	Type enums.RefType
	ID   *uuid.UUID
}

// Repository is the only writer of stock levels. Every change goes through
// Append, which applies the delta and records the movement together.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, product *models.Product, kind enums.MovementType, delta int, reason *string, ref *Ref) (*models.InventoryMovement, error)
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.InventoryMovement], error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Append takes product.StockQty as the before quantity, so product must have
// been loaded under a row lock in the same transaction. The UPDATE is guarded
// on the resulting stock; zero affected rows means another writer got there
// first and is reported as INSUFFICIENT_STOCK. On success product.StockQty is
// advanced to the after quantity.
func (r *repository) Append(ctx context.Context, product *models.Product, kind enums.MovementType, delta int, reason *string, ref *Ref) (*models.InventoryMovement, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product required")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid movement type %q", kind)
	}
	if delta == 0 || (kind == enums.MovementTypeSale && delta > 0) || (kind == enums.MovementTypeRestock && delta < 0) {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s movement cannot change stock by %d", kind, delta)
	}

	before := product.StockQty
	after := before + delta

	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty + ? >= 0", product.ID, delta).
		Updates(map[string]any{
			"stock_qty":  gorm.Expr("stock_qty + ?", delta),
			"updated_at": db.Now(),
		})
	if res.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "apply stock change")
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeInsufficientStock, "Insufficient stock for %s", product.Name).
			WithDetails(map[string]any{
				"product_id":   product.ID,
				"product_name": product.Name,
				"available":    before,
				"requested":    -delta,
			})
	}

	movement := &models.InventoryMovement{
		ID:             uuid.New(),
		ProductID:      product.ID,
		MovementType:   kind,
		QuantityChange: delta,
		BeforeQty:      before,
		AfterQty:       after,
		Reason:         reason,
	}
	if ref != nil {
		refType := ref.Type
		movement.RefType = &refType
		movement.RefID = ref.ID
	}
	if err := r.db.WithContext(ctx).Create(movement).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record inventory movement")
	}

	product.StockQty = after
	movement.Product = product
	return movement, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) (pagination.Page[models.InventoryMovement], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[models.InventoryMovement]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.Movements.Normalize(params.Limit)
	query := r.db.WithContext(ctx).Preload("Product")
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.At, cursor.At, cursor.ID)
	}

	var rows []models.InventoryMovement
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.Movements.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return pagination.Page[models.InventoryMovement]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory movements")
	}

	return pagination.Trim(rows, limit, func(m models.InventoryMovement) pagination.Cursor {
		return pagination.Cursor{At: m.CreatedAt, ID: m.ID}
	}), nil
}
