package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uditmishra03/carthub/internal/service"
	"github.com/uditmishra03/carthub/pkg/health"
	"github.com/uditmishra03/carthub/pkg/middleware"
)

// ServiceName labels metrics and spans emitted by the HTTP layer.
const ServiceName = "cart-service"

// NewRouter creates a chi router with all cart service routes registered.
func NewRouter(
	cartService *service.CartService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cors middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cors))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	cartHandler := NewCartHandler(cartService, logger)

	r.Route("/api/v1/carts", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/items", cartHandler.AddItem)
		r.Post("/checkout", cartHandler.Checkout)

		r.Route("/{customerID}", func(r chi.Router) {
			r.Use(middleware.CustomerFromURL("customerID"))

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Put("/items/{productID}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})
	})

	return r
}
