package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
	"github.com/moonpos/moonpos-backend/pkg/types"
)

const dateLayout = "2006-01-02"

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

func ParseQueryBool(r *http.Request, key string, defaultVal bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryDate reads an optional YYYY-MM-DD value as midnight UTC.
func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date (YYYY-MM-DD)").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

func ParseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

// ParseDateRange reads the optional start_date and end_date day bounds.
func ParseDateRange(r *http.Request) (types.DateRange, error) {
	start, err := ParseQueryDate(r, "start_date")
	if err != nil {
		return types.DateRange{}, err
	}
	end, err := ParseQueryDate(r, "end_date")
	if err != nil {
		return types.DateRange{}, err
	}
	dates := types.DateRange{Start: start, End: end}
	if dates.Inverted() {
		return types.DateRange{}, pkgerrors.New(pkgerrors.CodeValidation, "start_date must not be after end_date").
			WithDetails(map[string]any{"field": "start_date"})
	}
	return dates, nil
}

// ParsePage reads limit and cursor, rejecting a limit outside 1..bounds.Max.
func ParsePage(r *http.Request, bounds pagination.Bounds) (pagination.Params, error) {
	limit, err := ParseQueryInt(r, "limit", bounds.Default, 1, bounds.Max)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
