// Package rest wires the HTTP routes, middleware and handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/MozartLino/claims-service/interfaces/http/rest/handlers"
	"github.com/MozartLino/claims-service/interfaces/http/rest/middleware"
)

// Router builds the service's HTTP handler tree.
type Router struct {
	items  *handlers.ItemHandler
	claims *handlers.ClaimsHandler
	logger *zap.Logger
}

// NewRouter creates a router over the given handlers.
func NewRouter(items *handlers.ItemHandler, claims *handlers.ClaimsHandler, logger *zap.Logger) *Router {
	return &Router{
		items:  items,
		claims: claims,
		logger: logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)

	router.Route("/items", func(r chi.Router) {
		r.Post("/", rt.items.CreateItem)
		r.Get("/", rt.items.ListItems)
		r.Get("/{itemID}", rt.items.GetItem)
		r.Put("/{itemID}", rt.items.UpdateItem)
		r.Delete("/{itemID}", rt.items.DeleteItem)
	})

	router.Route("/claims", func(r chi.Router) {
		r.Post("/ingest", rt.claims.IngestClaims)
		r.Get("/", rt.claims.QueryClaims)
		r.Get("/{claimID}", rt.claims.GetClaim)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
