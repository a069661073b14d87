package handlers

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

// StorePinger is the health check side of the database handle
type StorePinger interface {
	Check(ctx context.Context) error
}

// HealthHandler reports on the backing store
type HealthHandler struct {
	store StorePinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store StorePinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse is the body of GET /health/db
type HealthResponse struct {
	OK bool   `json:"ok"`
	DB string `json:"db"`
}

// DB handles GET /health/db. A failed check also rebuilds the pool.
func (h *HealthHandler) DB(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Check(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Database health check failed")
		respondJSON(w, http.StatusServiceUnavailable, HealthResponse{OK: false, DB: "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, HealthResponse{OK: true, DB: "connected"})
}
