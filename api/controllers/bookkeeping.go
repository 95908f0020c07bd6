package controllers

import (
	"net/http"

	"github.com/moonpos/moonpos-backend/api/responses"
	"github.com/moonpos/moonpos-backend/api/validators"
	"github.com/moonpos/moonpos-backend/internal/ledger"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

func LedgerEntries(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		dates, err := validators.ParseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePage(r, pagination.Ledger)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListEntries(r.Context(), dates, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// TrialBalance sums debits and credits per account over the date range.
func TrialBalance(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		dates, err := validators.ParseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		balance, err := svc.TrialBalance(r.Context(), dates)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, balance)
	}
}
