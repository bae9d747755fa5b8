package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	analyticsctrl "radagast/internal/analytics/controller"
	forecastctrl "radagast/internal/forecast/controller"
	ledgerctrl "radagast/internal/ledger/controller"
	purchasectrl "radagast/internal/purchase/controller"
	replenishctrl "radagast/internal/replenish/controller"
)

func NewRouter(
	ledgerController *ledgerctrl.LedgerController,
	forecastController *forecastctrl.ForecastController,
	replenishController *replenishctrl.ReplenishmentController,
	purchaseController *purchasectrl.PurchaseOrderController,
	analyticsController *analyticsctrl.AnalyticsController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/shipments", ledgerController.RecordShipment)
			r.Post("/sales", ledgerController.RecordSale)
			r.Post("/returns", ledgerController.RecordReturn)
			r.Get("/", ledgerController.ListEvents)
		})

		r.Route("/forecast", func(r chi.Router) {
			r.Get("/", forecastController.GetPortfolioForecast)
			r.Get("/products/{productId}", forecastController.GetProductForecast)
			r.Get("/fast-movers", forecastController.GetFastMovers)
		})

		r.Route("/replenishment", func(r chi.Router) {
			r.Get("/recommendations/{productId}", replenishController.GetRecommendation)
			r.Post("/check-all", replenishController.CheckAll)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", purchaseController.CreateOrder)
			r.Get("/", purchaseController.ListOrders)
			r.Get("/{orderId}", purchaseController.GetOrder)
			r.Post("/{orderId}/approve", purchaseController.ApproveOrder)
			r.Post("/{orderId}/complete", purchaseController.CompleteOrder)
			r.Post("/{orderId}/cancel", purchaseController.CancelOrder)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", analyticsController.GetDashboard)
			r.Get("/warehouses/{warehouse}", analyticsController.GetWarehouseTurnover)
		})
	})

	logger.Debug("http routes registered")

	return r
}
