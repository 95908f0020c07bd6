package product

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/money"
)

const (
	skuMaxLen       = 64
	nameMaxLen      = 200
	categoryMaxLen  = 100
	defaultMinStock = 5
)

// Service exposes the catalog operations. Stock levels are read-only here;
// they change only through inventory movements.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*ProductDTO, error)
	List(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	Find(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	LowStock(ctx context.Context) ([]ProductDTO, error)
}

// RegisterInput captures a new catalog entry. Nil StockQty and MinStock take
// the defaults 0 and 5; nil IsActive means active.
type RegisterInput struct {
	SKU       string
	Name      string
	Category  *string
	SellPrice decimal.Decimal
	CostPrice decimal.Decimal
	StockQty  *int
	MinStock  *int
	IsActive  *bool
}

// UpdateInput is a partial catalog edit. A non-nil empty Category clears it.
type UpdateInput struct {
	Name      *string
	Category  *string
	SellPrice *decimal.Decimal
	CostPrice *decimal.Decimal
	MinStock  *int
	IsActive  *bool
}

type service struct {
	repo *Repository
	db   *db.Client
}

// NewService wires the catalog service.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, db: dbClient}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*ProductDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	details := map[string]string{}

	if sku == "" {
		details["sku"] = "is required"
	} else if utf8.RuneCountInString(sku) > skuMaxLen {
		details["sku"] = fmt.Sprintf("must be at most %d characters", skuMaxLen)
	}
	if name == "" {
		details["name"] = "is required"
	} else if utf8.RuneCountInString(name) > nameMaxLen {
		details["name"] = fmt.Sprintf("must be at most %d characters", nameMaxLen)
	}
	category, msg := cleanCategory(input.Category)
	if msg != "" {
		details["category"] = msg
	}

	sellPrice := money.Normalize(input.SellPrice)
	costPrice := money.Normalize(input.CostPrice)
	if msg := sellPriceProblem(sellPrice); msg != "" {
		details["sell_price"] = msg
	}
	if msg := costPriceProblem(costPrice); msg != "" {
		details["cost_price"] = msg
	}

	stockQty := 0
	if input.StockQty != nil {
		stockQty = *input.StockQty
	}
	minStock := defaultMinStock
	if input.MinStock != nil {
		minStock = *input.MinStock
	}
	if msg := quantityProblem(stockQty); msg != "" {
		details["stock_qty"] = msg
	}
	if msg := quantityProblem(minStock); msg != "" {
		details["min_stock"] = msg
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	product := &models.Product{
		ID:        uuid.New(),
		SKU:       sku,
		Name:      name,
		Category:  category,
		SellPrice: sellPrice,
		CostPrice: costPrice,
		StockQty:  stockQty,
		MinStock:  minStock,
		IsActive:  isActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return newProductDTOs(products), nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	fields, err := updateFields(input)
	if err != nil {
		return nil, err
	}

	var updated *models.Product
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateCatalog(ctx, id, fields); err != nil {
			return err
		}
		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewProductDTO(updated), nil
}

func (s *service) LowStock(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return newProductDTOs(products), nil
}

func updateFields(input UpdateInput) (map[string]any, error) {
	fields := map[string]any{}
	details := map[string]string{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		switch {
		case name == "":
			details["name"] = "must not be empty"
		case utf8.RuneCountInString(name) > nameMaxLen:
			details["name"] = fmt.Sprintf("must be at most %d characters", nameMaxLen)
		default:
			fields["name"] = name
		}
	}
	if input.Category != nil {
		category, msg := cleanCategory(input.Category)
		if msg != "" {
			details["category"] = msg
		} else {
			fields["category"] = category
		}
	}
	if input.SellPrice != nil {
		price := money.Normalize(*input.SellPrice)
		if msg := sellPriceProblem(price); msg != "" {
			details["sell_price"] = msg
		} else {
			fields["sell_price"] = price
		}
	}
	if input.CostPrice != nil {
		cost := money.Normalize(*input.CostPrice)
		if msg := costPriceProblem(cost); msg != "" {
			details["cost_price"] = msg
		} else {
			fields["cost_price"] = cost
		}
	}
	if input.MinStock != nil {
		if msg := quantityProblem(*input.MinStock); msg != "" {
			details["min_stock"] = msg
		} else {
			fields["min_stock"] = *input.MinStock
		}
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return fields, nil
}

// cleanCategory trims the category; blank becomes nil.
func cleanCategory(raw *string) (*string, string) {
	if raw == nil {
		return nil, ""
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, ""
	}
	if utf8.RuneCountInString(trimmed) > categoryMaxLen {
		return nil, fmt.Sprintf("must be at most %d characters", categoryMaxLen)
	}
	return &trimmed, ""
}

func sellPriceProblem(price decimal.Decimal) string {
	switch {
	case !price.IsPositive():
		return "must be greater than 0"
	case price.GreaterThan(models.MaxUnitAmount):
		return "must be at most " + money.Format(models.MaxUnitAmount)
	}
	return ""
}

func costPriceProblem(cost decimal.Decimal) string {
	switch {
	case cost.IsNegative():
		return "must be greater than or equal to 0"
	case cost.GreaterThan(models.MaxUnitAmount):
		return "must be at most " + money.Format(models.MaxUnitAmount)
	}
	return ""
}

func quantityProblem(qty int) string {
	switch {
	case qty < 0:
		return "must be greater than or equal to 0"
	case qty > models.MaxStockQty:
		return fmt.Sprintf("must be at most %d", models.MaxStockQty)
	}
	return ""
}
