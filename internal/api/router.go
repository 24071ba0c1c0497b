package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds and returns the Chi router with all routes configured.
// CORS runs at the top level so preflight requests are answered before routing.
func NewRouter(handlers *Handlers, upstream Pinger, allowedOrigins []string, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", HealthHandlerFunc(upstream, log))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/cities/{cityId}/infos", handlers.handle(handlers.GetCityInfo))
	r.Post("/cities/{cityId}/recipes", handlers.handle(handlers.CreateRecipe))
	r.Delete("/cities/{cityId}/recipes/{recipeId}", handlers.handle(handlers.DeleteRecipe))

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
