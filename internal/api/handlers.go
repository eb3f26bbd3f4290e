package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wheels195/cfb-market-edge-sub006/internal/cache"
	"github.com/wheels195/cfb-market-edge-sub006/internal/config"
	"github.com/wheels195/cfb-market-edge-sub006/internal/edge"
	"github.com/wheels195/cfb-market-edge-sub006/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub006/internal/models"
	"github.com/wheels195/cfb-market-edge-sub006/internal/rating"
	"github.com/wheels195/cfb-market-edge-sub006/internal/repository"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	cfg   *config.Config
	db    *repository.Database
	cache *cache.RedisCache // nil when Redis is unavailable
}

// NewHandler creates a new handler with dependencies
func NewHandler(cfg *config.Config, db *repository.Database, redisCache *cache.RedisCache) *Handler {
	return &Handler{cfg: cfg, db: db, cache: redisCache}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Health(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "cfb-market-edge",
	})
}

// GetEdges returns current bettable projections, largest edge first
func (h *Handler) GetEdges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cacheKey := "edges:" + h.cfg.ModelVersion

	if h.cache != nil {
		var cached []*models.Projection
		err := h.cache.Get(ctx, cacheKey, &cached)
		if err == nil {
			metrics.RecordCacheHit()
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"edges": cached,
				"count": len(cached),
			})
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Msg("Cache read failed")
		}
		metrics.RecordCacheMiss()
	}

	projections, err := h.db.Projections.ListBettable(ctx, h.cfg.ModelVersion)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve edges", err)
		return
	}

	if h.cache != nil {
		ttl := time.Duration(h.cfg.CacheTTLEdges) * time.Second
		if err := h.cache.Set(ctx, cacheKey, projections, ttl); err != nil {
			log.Warn().Err(err).Msg("Failed to cache edges")
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"edges": projections,
		"count": len(projections),
	})
}

// GetTeamRating returns a team's latest rating snapshot for a season.
// Query params: season (defaults to the configured current season).
func (h *Handler) GetTeamRating(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.Atoi(chi.URLParam(r, "teamID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid team id", err)
		return
	}

	season := parseIntParam(r, "season", h.cfg.CurrentSeason)

	snap, err := h.db.Ratings.Latest(r.Context(), teamID, season)
	if err == rating.ErrNoSnapshot {
		respondError(w, http.StatusNotFound, "no rating for team", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve rating", err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// ListBets returns settled bets, newest first
func (h *Handler) ListBets(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 100)
	if limit > 500 {
		limit = 500
	}

	bets, err := h.db.Bets.ListSettled(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to retrieve bets", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bets":  bets,
		"count": len(bets),
	})
}

// GetBet returns a single bet by external UUID
func (h *Handler) GetBet(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	bet, err := h.db.Bets.GetByExternalID(r.Context(), externalID)
	if err != nil {
		respondError(w, http.StatusNotFound, "bet not found", err)
		return
	}

	respondJSON(w, http.StatusOK, bet)
}

// PlaceBet records a paper bet against a stored game. The line and
// price in the request are frozen as bet-time values.
func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	var input models.BetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := validateBetInput(&input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	game, err := h.db.Games.GetByGameID(r.Context(), input.GameID)
	if err != nil {
		respondError(w, http.StatusNotFound, "game not found", err)
		return
	}

	if game.Status != models.GameStatusScheduled {
		respondError(w, http.StatusConflict, "game is not open for bets", nil)
		return
	}

	bet := input.ToBet(game.ID)
	if err := h.db.Bets.Create(r.Context(), bet); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create bet", err)
		return
	}

	respondJSON(w, http.StatusCreated, bet)
}

func validateBetInput(input *models.BetInput) error {
	if input.GameID == 0 {
		return fmt.Errorf("game_id is required")
	}
	if input.Stake <= 0 {
		return fmt.Errorf("stake must be positive")
	}
	if input.Price == 0 {
		return fmt.Errorf("price is required")
	}

	switch input.Market {
	case models.MarketSpread:
		if side := edge.Side(input.Side); side != edge.SideHome && side != edge.SideAway {
			return fmt.Errorf("spread side must be home or away")
		}
	case models.MarketTotal:
		if side := edge.Side(input.Side); side != edge.SideOver && side != edge.SideUnder {
			return fmt.Errorf("total side must be over or under")
		}
	default:
		return fmt.Errorf("market must be spread or total")
	}

	return nil
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg(message)
	}
	respondJSON(w, status, map[string]string{"error": message})
}
