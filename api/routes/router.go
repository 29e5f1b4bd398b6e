package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storebilling/storebilling-backend/api/controllers"
	"github.com/storebilling/storebilling-backend/api/middleware"
	"github.com/storebilling/storebilling-backend/internal/bills"
	"github.com/storebilling/storebilling-backend/internal/dashboard"
	"github.com/storebilling/storebilling-backend/internal/items"
	"github.com/storebilling/storebilling-backend/pkg/config"
	"github.com/storebilling/storebilling-backend/pkg/logger"
	"github.com/storebilling/storebilling-backend/pkg/metrics"
	"github.com/storebilling/storebilling-backend/pkg/redis"
)

// NewRouter mounts the public API. idempotency and the redis entry of
// readiness may be nil when Redis is not configured.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	idempotency redis.IdempotencyStore,
	itemService items.Service,
	billService bills.Service,
	dashboardService dashboard.Service,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.Health())
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(logg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotency, logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ItemList(itemService, logg))
			r.Post("/", controllers.ItemCreate(itemService, logg))
			r.Get("/{itemId}", controllers.ItemGet(itemService, logg))
			r.Put("/{itemId}", controllers.ItemUpdate(itemService, logg))
			r.Delete("/{itemId}", controllers.ItemDelete(itemService, logg))
		})

		r.Route("/bills", func(r chi.Router) {
			r.Get("/", controllers.BillList(billService, logg))
			r.Post("/", controllers.BillCreate(billService, logg))
			r.Get("/{billId}", controllers.BillGet(billService, logg))
			r.Put("/{billId}", controllers.BillReplace(billService, logg))
			r.Delete("/{billId}", controllers.BillDelete(billService, logg))
		})

		r.Get("/dashboard", controllers.Dashboard(dashboardService, logg))
	})

	return r
}
