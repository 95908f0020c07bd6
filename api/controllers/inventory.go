package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/api/responses"
	"github.com/moonpos/moonpos-backend/api/validators"
	"github.com/moonpos/moonpos-backend/internal/inventory"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

// AdjustInventory applies a manual stock change and posts it to the ledger.
func AdjustInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload adjustInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Adjust(r.Context(), payload.toAdjustInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inventory.NewAdjustmentDTO(result))
	}
}

// ListMovements pages the stock movement history, newest first.
func ListMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		params, err := validators.ParsePage(r, pagination.Movements)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListMovements(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

type adjustInventoryRequest struct {
	ProductID           uuid.UUID `json:"product_id" validate:"required"`
	QuantityChange      int       `json:"quantity_change" validate:"ne=0,gte=-1000000,lte=1000000"`
	Reason              *string   `json:"reason,omitempty" validate:"omitempty,max=255"`
	CounterpartyAccount *string   `json:"counterparty_account,omitempty" validate:"omitempty,max=120"`
}

func (r adjustInventoryRequest) toAdjustInput() inventory.AdjustInput {
	return inventory.AdjustInput{
		ProductID:           r.ProductID,
		QuantityChange:      r.QuantityChange,
		Reason:              r.Reason,
		CounterpartyAccount: r.CounterpartyAccount,
	}
}
