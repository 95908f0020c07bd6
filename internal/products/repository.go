package product

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
)

const skuConstraint = "idx_products_sku"

// ListFilter narrows catalog listings.
type ListFilter struct {
	ActiveOnly   bool
	LowStockOnly bool
}

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new product row. A SKU collision maps to CONFLICT.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if db.IsUniqueViolation(err, skuConstraint) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "sku already exists").
				WithDetails(map[string]any{"sku": product.SKU})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return nil
}

// FindByID loads the product regardless of its active flag.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, mapFindError(err, id)
	}
	return &product, nil
}

// FindActiveForUpdate row-locks a single active product.
func (r *Repository) FindActiveForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := db.ForUpdate(r.db.WithContext(ctx)).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error; err != nil {
		return nil, mapFindError(err, id)
	}
	return &product, nil
}

// LockActive row-locks the active products among ids, in id order so
// concurrent transactions acquire locks in the same sequence. Missing or
// inactive ids are simply absent from the result.
func (r *Repository) LockActive(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	if err := db.ForUpdate(r.db.WithContext(ctx)).
		Where("id IN ? AND is_active = ?", ids, true).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock products")
	}
	return products, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.LowStockOnly {
		query = query.Where("stock_qty <= min_stock")
	}

	var products []models.Product
	if err := query.Order("name ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// LowStock returns active products at or below their reorder threshold,
// emptiest first.
func (r *Repository) LowStock(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND stock_qty <= min_stock", true).
		Order("stock_qty ASC").
		Order("name ASC").
		Find(&products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock products")
	}
	return products, nil
}

// UpdateCatalog writes catalog fields only. stock_qty and sku are never part
// of the update set.
func (r *Repository) UpdateCatalog(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	delete(fields, "stock_qty")
	delete(fields, "sku")
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = db.Now()
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update product")
	}
	if res.RowsAffected == 0 {
		return notFound(id)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	return count, nil
}

func mapFindError(err error, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}

func notFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
		WithDetails(map[string]any{"product_id": id})
}
