package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/luxe-storefront/api/controllers"
	"github.com/angelmondragon/luxe-storefront/api/middleware"
	"github.com/angelmondragon/luxe-storefront/pkg/config"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
)

// Deps carries what the router wires into handlers. Pingers and Gatherer are
// optional.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    controllers.StoreService
	Pingers  map[string]controllers.Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.Store, d.Pingers))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/store", controllers.StoreSnapshot(d.Store))
		r.Get("/config", controllers.StoreConfig(d.Store, logg))
		r.Get("/seo", controllers.SEOHead(d.Store, cfg.App.PublicURL, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(d.Store, logg))
			r.Get("/{sku}", controllers.ProductGet(d.Store, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(d.Store))
			r.Delete("/", controllers.CartClear(d.Store))
			r.Post("/items", controllers.CartAddItem(d.Store, logg))
			r.Patch("/items", controllers.CartUpdateItem(d.Store, logg))
			r.Delete("/items", controllers.CartRemoveItem(d.Store, logg))
			r.Post("/confirm", controllers.CartConfirm(d.Store, logg))
		})
	})

	return r
}
