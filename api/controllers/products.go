package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/moonpos/moonpos-backend/api/responses"
	"github.com/moonpos/moonpos-backend/api/validators"
	productsvc "github.com/moonpos/moonpos-backend/internal/products"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
)

// CreateProduct registers a catalog entry.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Register(r.Context(), payload.toRegisterInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ListProducts returns the catalog ordered by name. Inactive products are
// hidden unless include_inactive=true.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		lowStockOnly, err := validators.ParseQueryBool(r, "low_stock_only", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		includeInactive, err := validators.ParseQueryBool(r, "include_inactive", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.List(r.Context(), productsvc.ListFilter{
			ActiveOnly:   !includeInactive,
			LowStockOnly: lowStockOnly,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Find(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// UpdateProduct applies a partial catalog edit. Stock and SKU are not editable.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, payload.toUpdateInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// LowStock lists active products at or below their reorder threshold.
func LowStock(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

type createProductRequest struct {
	SKU       string           `json:"sku" validate:"required,max=64"`
	Name      string           `json:"name" validate:"required,max=200"`
	Category  *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	SellPrice *decimal.Decimal `json:"sell_price" validate:"required"`
	CostPrice *decimal.Decimal `json:"cost_price" validate:"required"`
	StockQty  *int             `json:"stock_qty,omitempty" validate:"omitempty,min=0,max=1000000000"`
	MinStock  *int             `json:"min_stock,omitempty" validate:"omitempty,min=0,max=1000000000"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

func (r createProductRequest) toRegisterInput() productsvc.RegisterInput {
	return productsvc.RegisterInput{
		SKU:       validators.SanitizeString(r.SKU, 64),
		Name:      validators.SanitizeString(r.Name, 200),
		Category:  validators.SanitizeOptional(r.Category, 100),
		SellPrice: *r.SellPrice,
		CostPrice: *r.CostPrice,
		StockQty:  r.StockQty,
		MinStock:  r.MinStock,
		IsActive:  r.IsActive,
	}
}

type updateProductRequest struct {
	Name      *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Category  *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	SellPrice *decimal.Decimal `json:"sell_price,omitempty"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
	MinStock  *int             `json:"min_stock,omitempty" validate:"omitempty,min=0,max=1000000000"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

func (r updateProductRequest) toUpdateInput() productsvc.UpdateInput {
	return productsvc.UpdateInput{
		Name:      validators.SanitizeOptional(r.Name, 200),
		Category:  validators.SanitizeOptional(r.Category, 100),
		SellPrice: r.SellPrice,
		CostPrice: r.CostPrice,
		MinStock:  r.MinStock,
		IsActive:  r.IsActive,
	}
}
