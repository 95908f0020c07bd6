package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moonpos/moonpos-backend/api/responses"
	"github.com/moonpos/moonpos-backend/api/validators"
	"github.com/moonpos/moonpos-backend/internal/checkout"
	"github.com/moonpos/moonpos-backend/internal/checkout/helpers"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
)

// Checkout sells a basket in one transaction and returns the receipt.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Execute(r.Context(), payload.toCheckoutInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

type checkoutRequest struct {
	Items         []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount      *decimal.Decimal      `json:"discount,omitempty"`
	Tax           *decimal.Decimal      `json:"tax,omitempty"`
	PaymentMethod string                `json:"payment_method,omitempty"`
}

type checkoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0,lte=1000000"`
}

func (r checkoutRequest) toCheckoutInput() checkout.CheckoutInput {
	lines := make([]helpers.Line, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, helpers.Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return checkout.CheckoutInput{
		Items:         lines,
		Discount:      r.Discount,
		Tax:           r.Tax,
		PaymentMethod: r.PaymentMethod,
	}
}
