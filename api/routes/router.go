package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/AIforimpact22/bootcampx/api/controllers"
	"github.com/AIforimpact22/bootcampx/api/middleware"
	"github.com/AIforimpact22/bootcampx/internal/cashiers"
	"github.com/AIforimpact22/bootcampx/internal/dashboard"
	"github.com/AIforimpact22/bootcampx/internal/items"
	"github.com/AIforimpact22/bootcampx/internal/sales"
	"github.com/AIforimpact22/bootcampx/pkg/config"
	"github.com/AIforimpact22/bootcampx/pkg/db"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/AIforimpact22/bootcampx/pkg/metrics"
)

// Deps carries everything the router wires. Services may be nil while the
// database is not configured; store-backed routes then answer NOT_CONFIGURED.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Metrics   *metrics.POSMetrics
	Gatherer  prometheus.Gatherer
	DB        *db.Client
	Readiness []controllers.ReadinessCheck

	Cashiers  cashiers.Service
	Items     items.Service
	Sales     sales.Service
	Dashboard dashboard.Service
	Sessions  controllers.SessionStore

	// LowStockThreshold defaults to dashboard.DefaultLowStockThreshold when nil.
	LowStockThreshold *decimal.Decimal
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Config, deps.Logger
	lowStock := dashboard.DefaultLowStockThreshold
	if deps.LowStockThreshold != nil {
		lowStock = *deps.LowStockThreshold
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.Metrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness...))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/branding", controllers.PublicBranding(cfg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", controllers.Status(deps.DB, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireDB(deps.DB != nil, logg))

			r.Get("/dashboard", controllers.Dashboard(deps.Dashboard, lowStock, logg))

			r.Route("/cashiers", func(r chi.Router) {
				r.Get("/", controllers.ListCashiers(deps.Cashiers, logg))
				r.Post("/", controllers.CreateCashier(deps.Cashiers, logg))
				r.Get("/{cashierId}", controllers.GetCashier(deps.Cashiers, logg))
				r.Put("/{cashierId}", controllers.UpdateCashier(deps.Cashiers, logg))
			})

			r.Route("/items", func(r chi.Router) {
				r.Get("/", controllers.ListItems(deps.Items, logg))
				r.Post("/", controllers.CreateItem(deps.Items, logg))
				r.Get("/lookup", controllers.LookupItem(deps.Items, logg))
				r.Get("/low-stock", controllers.LowStockItems(deps.Items, lowStock, logg))
				r.Get("/{itemId}", controllers.GetItem(deps.Items, logg))
				r.Put("/{itemId}", controllers.UpdateItem(deps.Items, logg))
			})

			r.Route("/sell", func(r chi.Router) {
				r.Use(middleware.POSSession(logg))
				sell := controllers.SellDeps{
					Sales:    deps.Sales,
					Cashiers: deps.Cashiers,
					Items:    deps.Items,
					Sessions: deps.Sessions,
					Logger:   logg,
				}
				r.Get("/", controllers.SellScreen(sell))
				r.Post("/", controllers.SellSubmit(sell))
				r.Post("/lookup", controllers.SellLookup(sell))
				r.Put("/session", controllers.SellSession(sell))
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", controllers.SalesReport(deps.Sales, logg))
				r.Get("/export.csv", controllers.SalesExportCSV(deps.Sales, logg))
			})
		})
	})

	return r
}
