package handlers

import (
	"net/http"
	"strconv"
	"time"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/services"
)

// ReviewHandler serves the year-long mood heatmap
type ReviewHandler struct {
	reviewService *services.ReviewService
	now           services.Clock
	loc           *time.Location
}

// NewReviewHandler creates a new review handler. now and loc decide the
// default year.
func NewReviewHandler(reviewService *services.ReviewService, now services.Clock, loc *time.Location) *ReviewHandler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReviewHandler{reviewService: reviewService, now: now, loc: loc}
}

// Get handles GET /review?year=YYYY&view=me|partner|couple.
// The year defaults to the current one and the view to couple.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year := h.now().In(h.loc).Year()
	if s := r.URL.Query().Get("year"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			respondError(w, "year must be a number", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	view := services.ViewCouple
	if s := r.URL.Query().Get("view"); s != "" {
		view = services.ReviewView(s)
	}

	days, err := h.reviewService.YearReview(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx), year, view)
	if err != nil {
		respondServiceError(w, r, err, "Failed to build year review")
		return
	}

	respondJSON(w, http.StatusOK, reviewView(view, days))
}
