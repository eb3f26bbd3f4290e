// Package api exposes the read side of the pipeline over HTTP: current
// edges, team ratings, and paper bet placement.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wheels195/cfb-market-edge-sub006/internal/cache"
	"github.com/wheels195/cfb-market-edge-sub006/internal/config"
	"github.com/wheels195/cfb-market-edge-sub006/internal/repository"
)

// NewRouter builds the HTTP router with middleware and routes
func NewRouter(cfg *config.Config, db *repository.Database, redisCache *cache.RedisCache) http.Handler {
	h := NewHandler(cfg, db, redisCache)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.HealthCheck)

	r.Route("/v1", func(r chi.Router) {
		r.Use(bearerAuth(cfg.APIToken))

		r.Get("/edges", h.GetEdges)
		r.Get("/ratings/{teamID}", h.GetTeamRating)
		r.Get("/bets", h.ListBets)
		r.Post("/bets", h.PlaceBet)
		r.Get("/bets/{externalID}", h.GetBet)
	})

	return r
}

// bearerAuth rejects requests without the configured token. An empty
// token disables auth for local development.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				respondError(w, http.StatusUnauthorized, "invalid or missing token", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
