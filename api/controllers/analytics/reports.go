package analytics

import (
	"net/http"

	"github.com/moonpos/moonpos-backend/api/responses"
	"github.com/moonpos/moonpos-backend/api/validators"
	internalanalytics "github.com/moonpos/moonpos-backend/internal/analytics"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
)

// SalesSummary aggregates orders placed in the optional date range.
func SalesSummary(svc internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		dates, err := validators.ParseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.SalesSummary(r.Context(), dates)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

func TopProducts(svc internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		dates, err := validators.ParseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bounds := internalanalytics.TopProductsBounds
		limit, err := validators.ParseQueryInt(r, "limit", bounds.Default, 1, bounds.Max)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.TopProducts(r.Context(), dates, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// StockValuation values the active catalog at cost and at retail.
func StockValuation(svc internalanalytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		valuation, err := svc.StockValuation(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, valuation)
	}
}
