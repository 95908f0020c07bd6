package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
)

type lineBody struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
}

type sampleBody struct {
	Items []lineBody `json:"items" validate:"required,min=1,dive"`
	Note  string     `json:"note" validate:"max=5"`
}

func TestDecodeJSONBodyReportsNestedFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"product_id":"`+uuid.NewString()+`","quantity":0}],"note":"toolong"}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["items[0].quantity"] != "must be greater than 0" {
		t.Fatalf("unexpected quantity message: %v", details)
	}
	if details["note"] != "must be at most 5" {
		t.Fatalf("unexpected note message: %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[],"extra":true}`))
	var body sampleBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=20&bad=x&big=9000", nil)
	if v, err := ParseQueryInt(req, "limit", 10, 1, 100); err != nil || v != 20 {
		t.Fatalf("expected 20, got %d %v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 10, 1, 100); err != nil || v != 10 {
		t.Fatalf("expected default 10, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 10, 1, 100); err == nil {
		t.Fatal("expected numeric error")
	}
	if _, err := ParseQueryInt(req, "big", 10, 1, 100); err == nil {
		t.Fatal("expected range error")
	}
}

func TestParseQueryBoolAndDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?low_stock_only=true&start_date=2026-02-03&end_date=03/02/2026&flag=maybe", nil)
	if v, err := ParseQueryBool(req, "low_stock_only", false); err != nil || !v {
		t.Fatalf("expected true, got %v %v", v, err)
	}
	if _, err := ParseQueryBool(req, "flag", false); err == nil {
		t.Fatal("expected bool error")
	}

	start, err := ParseQueryDate(req, "start_date")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if !start.Equal(time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", start)
	}
	if _, err := ParseQueryDate(req, "end_date"); err == nil {
		t.Fatal("expected date format error")
	}
	if d, err := ParseQueryDate(req, "absent"); err != nil || d != nil {
		t.Fatalf("absent date should be nil, got %v %v", d, err)
	}
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("productId", id.String())
	rc.URLParams.Add("orderId", "nope")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseUUIDParam(req, "productId")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s %v", id, got, err)
	}
	if _, err := ParseUUIDParam(req, "orderId"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Americano  ", 0); got != "Americano" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" Iced \t  Latte ", 0); got != "Iced Latte" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("Café crème", 4); got != "Café" {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
	if SanitizeOptional(nil, 10) != nil {
		t.Fatal("expected nil to stay nil")
	}
	if got := SanitizeOptional(ptr("   "), 10); got == nil || *got != "" {
		t.Fatalf("expected present empty value, got %v", got)
	}
}

func ptr(s string) *string { return &s }

func TestParseDateRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start_date=2026-05-01&end_date=2026-05-03", nil)
	dates, err := ParseDateRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dates.Start == nil || dates.End == nil || dates.End.Day() != 3 {
		t.Fatalf("unexpected range: %+v", dates)
	}

	inverted := httptest.NewRequest(http.MethodGet, "/?start_date=2026-05-04&end_date=2026-05-03", nil)
	if _, err := ParseDateRange(inverted); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	open := httptest.NewRequest(http.MethodGet, "/", nil)
	dates, err = ParseDateRange(open)
	if err != nil || dates.Start != nil || dates.End != nil {
		t.Fatalf("expected open range, got %+v %v", dates, err)
	}
}

func TestParsePage(t *testing.T) {
	bounds := pagination.Bounds{Default: 50, Max: 500}

	params, err := ParsePage(httptest.NewRequest(http.MethodGet, "/?cursor=%20abc%20", nil), bounds)
	if err != nil || params.Limit != 50 || params.Cursor != "abc" {
		t.Fatalf("unexpected params %+v %v", params, err)
	}
	if _, err := ParsePage(httptest.NewRequest(http.MethodGet, "/?limit=501", nil), bounds); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := ParsePage(httptest.NewRequest(http.MethodGet, "/?limit=0", nil), bounds); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
