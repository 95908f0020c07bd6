package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/moonpos/moonpos-backend/api/controllers"
	analyticscontrollers "github.com/moonpos/moonpos-backend/api/controllers/analytics"
	ordercontrollers "github.com/moonpos/moonpos-backend/api/controllers/orders"
	"github.com/moonpos/moonpos-backend/api/middleware"
	"github.com/moonpos/moonpos-backend/internal/analytics"
	checkoutsvc "github.com/moonpos/moonpos-backend/internal/checkout"
	"github.com/moonpos/moonpos-backend/internal/inventory"
	"github.com/moonpos/moonpos-backend/internal/ledger"
	"github.com/moonpos/moonpos-backend/internal/orders"
	products "github.com/moonpos/moonpos-backend/internal/products"
	"github.com/moonpos/moonpos-backend/pkg/config"
	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/logger"
	"github.com/moonpos/moonpos-backend/pkg/metrics"
	"github.com/moonpos/moonpos-backend/pkg/redis"
)

// NewRouter mounts every API route. idempotencyStore and redisPinger may be
// nil when redis is not configured; metricsHandler is nil when /metrics is
// disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisPinger controllers.Pinger,
	idempotencyStore redis.IdempotencyStore,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	productService products.Service,
	inventoryService inventory.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	ledgerService ledger.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(httpMetrics),
	)

	r.Get("/", controllers.Root())
	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.Health())
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisPinger,
		}))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Get("/{productId}", controllers.GetProduct(productService, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(productService, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/low-stock", controllers.LowStock(productService, logg))
			r.Get("/movements", controllers.ListMovements(inventoryService, logg))
			r.Post("/adjust", controllers.AdjustInventory(inventoryService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersService, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(ordersService, logg))
		})

		r.Route("/bookkeeping", func(r chi.Router) {
			r.Get("/ledger", controllers.LedgerEntries(ledgerService, logg))
			r.Get("/trial-balance", controllers.TrialBalance(ledgerService, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/sales-summary", analyticscontrollers.SalesSummary(analyticsService, logg))
			r.Get("/top-products", analyticscontrollers.TopProducts(analyticsService, logg))
			r.Get("/stock-valuation", analyticscontrollers.StockValuation(analyticsService, logg))
		})
	})

	return r
}
