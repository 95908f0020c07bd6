package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/internal/checkout"
	"github.com/moonpos/moonpos-backend/internal/inventory"
	"github.com/moonpos/moonpos-backend/internal/ledger"
	"github.com/moonpos/moonpos-backend/internal/orders"
	productsvc "github.com/moonpos/moonpos-backend/internal/products"
	"github.com/moonpos/moonpos-backend/pkg/config"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/moonpos/moonpos-backend/pkg/pagination"
	"github.com/moonpos/moonpos-backend/pkg/types"
)

type stubProductService struct {
	product  *productsvc.ProductDTO
	list     []productsvc.ProductDTO
	err      error
	register productsvc.RegisterInput
	filter   productsvc.ListFilter
	update   productsvc.UpdateInput
}

func (s *stubProductService) Register(ctx context.Context, input productsvc.RegisterInput) (*productsvc.ProductDTO, error) {
	s.register = input
	return s.product, s.err
}

func (s *stubProductService) List(ctx context.Context, filter productsvc.ListFilter) ([]productsvc.ProductDTO, error) {
	s.filter = filter
	return s.list, s.err
}

func (s *stubProductService) Find(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateInput) (*productsvc.ProductDTO, error) {
	s.update = input
	return s.product, s.err
}

func (s *stubProductService) LowStock(ctx context.Context) ([]productsvc.ProductDTO, error) {
	return s.list, s.err
}

type stubCheckoutService struct {
	receipt *checkout.Receipt
	err     error
	input   checkout.CheckoutInput
}

func (s *stubCheckoutService) Execute(ctx context.Context, input checkout.CheckoutInput) (*checkout.Receipt, error) {
	s.input = input
	return s.receipt, s.err
}

type stubInventoryService struct {
	result *inventory.AdjustResult
	page   pagination.Page[inventory.MovementDTO]
	err    error
	input  inventory.AdjustInput
	params pagination.Params
}

func (s *stubInventoryService) Adjust(ctx context.Context, input inventory.AdjustInput) (*inventory.AdjustResult, error) {
	s.input = input
	return s.result, s.err
}

func (s *stubInventoryService) ListMovements(ctx context.Context, params pagination.Params) (pagination.Page[inventory.MovementDTO], error) {
	s.params = params
	return s.page, s.err
}

type stubLedgerService struct {
	page    pagination.Page[ledger.EntryDTO]
	balance *ledger.TrialBalanceDTO
	err     error
	dates   types.DateRange
	params  pagination.Params
}

func (s *stubLedgerService) ListEntries(ctx context.Context, dates types.DateRange, params pagination.Params) (pagination.Page[ledger.EntryDTO], error) {
	s.dates = dates
	s.params = params
	return s.page, s.err
}

func (s *stubLedgerService) TrialBalance(ctx context.Context, dates types.DateRange) (*ledger.TrialBalanceDTO, error) {
	s.dates = dates
	return s.balance, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func decodeError(t *testing.T, body *httptest.ResponseRecorder) types.APIError {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(body.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRootServiceInfo(t *testing.T) {
	resp := httptest.NewRecorder()
	Root().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["service"] != "moonPOS API" || body["status"] != "ok" || body["cloud_ready"] != true {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	resp := httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{}, "redis": nil}).
		ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get(envHeader); got != "dev" {
		t.Fatalf("expected env header dev got %q", got)
	}

	resp = httptest.NewRecorder()
	HealthReady(cfg, nil, map[string]Pinger{"db": stubPinger{err: errors.New("down")}}).
		ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if apiErr := decodeError(t, resp); apiErr.Code != string(pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency code got %s", apiErr.Code)
	}
}

func TestCreateProductRequiresPrices(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"sku":"SKU-1","name":"Tea","cost_price":"1"}`))

	resp := httptest.NewRecorder()
	CreateProduct(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if apiErr := decodeError(t, resp); apiErr.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("expected validation code got %s", apiErr.Code)
	}
}

func TestCreateProductCreated(t *testing.T) {
	svc := &stubProductService{product: &productsvc.ProductDTO{ID: uuid.New(), SKU: "SKU-1", SellPrice: "25000.00"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products",
		strings.NewReader(`{"sku":"SKU-1","name":"Tea","sell_price":"25000","cost_price":"9000","stock_qty":3}`))

	resp := httptest.NewRecorder()
	CreateProduct(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.register.SellPrice.String() != "25000" || svc.register.StockQty == nil || *svc.register.StockQty != 3 {
		t.Fatalf("unexpected register input %+v", svc.register)
	}
}

func TestCreateProductConflict(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeConflict, "SKU already exists")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products",
		strings.NewReader(`{"sku":"SKU-1","name":"Tea","sell_price":"1","cost_price":"1"}`))

	resp := httptest.NewRecorder()
	CreateProduct(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if apiErr := decodeError(t, resp); apiErr.Message != "SKU already exists" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestListProductsFilters(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?low_stock_only=true&include_inactive=true", nil)

	resp := httptest.NewRecorder()
	ListProducts(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.filter.ActiveOnly || !svc.filter.LowStockOnly {
		t.Fatalf("unexpected filter %+v", svc.filter)
	}

	resp = httptest.NewRecorder()
	ListProducts(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	if !svc.filter.ActiveOnly || svc.filter.LowStockOnly {
		t.Fatalf("unexpected default filter %+v", svc.filter)
	}
}

func TestGetProductRejectsBadID(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/nope", nil), "productId", "nope")

	resp := httptest.NewRecorder()
	GetProduct(&stubProductService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestUpdateProductPassesPartialFields(t *testing.T) {
	id := uuid.New()
	svc := &stubProductService{product: &productsvc.ProductDTO{ID: id}}
	req := withURLParam(
		httptest.NewRequest(http.MethodPatch, "/api/v1/products/"+id.String(), strings.NewReader(`{"min_stock":7}`)),
		"productId", id.String(),
	)

	resp := httptest.NewRecorder()
	UpdateProduct(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.update.MinStock == nil || *svc.update.MinStock != 7 || svc.update.Name != nil {
		t.Fatalf("unexpected update input %+v", svc.update)
	}
}

func TestCheckoutCreated(t *testing.T) {
	productID := uuid.New()
	svc := &stubCheckoutService{receipt: &checkout.Receipt{
		OrderSummary: orders.OrderSummary{ID: uuid.New(), OrderNumber: "POS-20260101-AAAAAAAA", Total: "52500.00"},
	}}
	body := `{"items":[{"product_id":"` + productID.String() + `","quantity":2}],"tax":"2500","payment_method":"qris"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))

	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if len(svc.input.Items) != 1 || svc.input.Items[0].ProductID != productID || svc.input.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", svc.input.Items)
	}
	if svc.input.Tax == nil || svc.input.Tax.String() != "2500" || svc.input.Discount != nil {
		t.Fatalf("unexpected adjustments %+v", svc.input)
	}

	var envelope struct {
		Data checkout.Receipt `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Total != "52500.00" {
		t.Fatalf("expected total 52500.00 got %s", envelope.Data.Total)
	}
}

func TestCheckoutRejectsEmptyBasket(t *testing.T) {
	svc := &stubCheckoutService{}
	for _, body := range []string{`{"items":[]}`, `{}`, `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":0}]}`} {
		resp := httptest.NewRecorder()
		Checkout(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", body, resp.Code)
		}
	}
}

func TestQuantityCeilingsRejectedBeforeService(t *testing.T) {
	id := uuid.NewString()
	checkoutSvc := &stubCheckoutService{}
	for _, body := range []string{
		`{"items":[{"product_id":"` + id + `","quantity":1000001}]}`,
		`{"items":[{"product_id":"` + id + `","quantity":9223372036854775807},{"product_id":"` + id + `","quantity":9223372036854775807}]}`,
	} {
		resp := httptest.NewRecorder()
		Checkout(checkoutSvc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", body, resp.Code)
		}
	}
	if len(checkoutSvc.input.Items) != 0 {
		t.Fatalf("service should not be called, got %+v", checkoutSvc.input)
	}

	inventorySvc := &stubInventoryService{}
	resp := httptest.NewRecorder()
	body := `{"product_id":"` + id + `","quantity_change":1000001}`
	AdjustInventory(inventorySvc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjust", strings.NewReader(body)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if inventorySvc.input.QuantityChange != 0 {
		t.Fatalf("service should not be called, got %+v", inventorySvc.input)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "Insufficient stock for Tea").
		WithDetails(map[string]any{"available": 1, "requested": 5})}
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":5}]}`

	resp := httptest.NewRecorder()
	Checkout(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	apiErr := decodeError(t, resp)
	if apiErr.Code != string(pkgerrors.CodeInsufficientStock) || apiErr.Message != "Insufficient stock for Tea" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if apiErr.Details == nil {
		t.Fatal("expected details")
	}
}

func TestCheckoutServiceUnavailable(t *testing.T) {
	resp := httptest.NewRecorder()
	Checkout(nil, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`)))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}

func TestAdjustInventory(t *testing.T) {
	productID := uuid.New()
	svc := &stubInventoryService{result: &inventory.AdjustResult{
		Movement: &models.InventoryMovement{ID: uuid.New(), ProductID: productID, QuantityChange: -3},
		TxRef:    "ADJ-20260101-ABCDEF12",
	}}
	body := `{"product_id":"` + productID.String() + `","quantity_change":-3,"reason":"broken"}`

	resp := httptest.NewRecorder()
	AdjustInventory(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjust", strings.NewReader(body)))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.input.QuantityChange != -3 || svc.input.Reason == nil || *svc.input.Reason != "broken" {
		t.Fatalf("unexpected input %+v", svc.input)
	}

	var envelope struct {
		Data inventory.MovementDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.TxRef != "ADJ-20260101-ABCDEF12" {
		t.Fatalf("expected tx ref in response got %q", envelope.Data.TxRef)
	}
}

func TestAdjustInventoryRejectsZeroChange(t *testing.T) {
	body := `{"product_id":"` + uuid.NewString() + `","quantity_change":0}`

	resp := httptest.NewRecorder()
	AdjustInventory(&stubInventoryService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/inventory/adjust", strings.NewReader(body)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestListMovementsLimitBounds(t *testing.T) {
	svc := &stubInventoryService{}

	resp := httptest.NewRecorder()
	ListMovements(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/movements", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.params.Limit != pagination.Movements.Default {
		t.Fatalf("expected default limit got %d", svc.params.Limit)
	}

	resp = httptest.NewRecorder()
	ListMovements(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/inventory/movements?limit=501", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLedgerEntriesParsesRange(t *testing.T) {
	svc := &stubLedgerService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookkeeping/ledger?start_date=2026-01-01&end_date=2026-01-31&limit=2000", nil)

	resp := httptest.NewRecorder()
	LedgerEntries(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.dates.Start == nil || svc.dates.End == nil || svc.params.Limit != 2000 {
		t.Fatalf("unexpected range %+v params %+v", svc.dates, svc.params)
	}
}

func TestTrialBalanceRejectsInvertedRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookkeeping/trial-balance?start_date=2026-02-01&end_date=2026-01-01", nil)

	resp := httptest.NewRecorder()
	TrialBalance(&stubLedgerService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
