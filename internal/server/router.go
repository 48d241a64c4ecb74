// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mindstash-io/mindstash/internal/api"
	"github.com/mindstash-io/mindstash/internal/api/handlers"
	"github.com/mindstash-io/mindstash/internal/api/middleware"
)

type RouterConfig struct {
	ItemHandler   *handlers.ItemHandler
	PublicHandler *handlers.PublicHandler
	Cache         *DashboardCache
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", cfg.ItemHandler.Create)
		r.Get("/", withCollectionVersion(cfg.Cache, cfg.ItemHandler.List))
		r.Delete("/{id}", cfg.ItemHandler.Delete)
	})

	r.Get("/api/public/brain/query", cfg.PublicHandler.Query)

	return r
}

// withCollectionVersion stamps list responses with the current collection
// version so dashboard clients can cache against it.
func withCollectionVersion(cache *DashboardCache, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache != nil {
			w.Header().Set("X-Collection-Version", strconv.FormatUint(cache.Version(), 10))
		}
		next(w, r)
	}
}
