package handlers

import (
	"net/http"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/services"
)

// DayHandler serves the single-day view and the daily quote
type DayHandler struct {
	dayService   *services.DayService
	quoteService *services.QuoteService
}

// NewDayHandler creates a new day handler
func NewDayHandler(dayService *services.DayService, quoteService *services.QuoteService) *DayHandler {
	return &DayHandler{
		dayService:   dayService,
		quoteService: quoteService,
	}
}

// Day handles GET /day?date=YYYY-MM-DD
func (h *DayHandler) Day(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	day, err := h.dayService.Day(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx), r.URL.Query().Get("date"))
	if err != nil {
		respondServiceError(w, r, err, "Failed to load day")
		return
	}

	respondJSON(w, http.StatusOK, dayView(day))
}

// QuoteToday handles GET /quote/today. It always answers 200.
func (h *DayHandler) QuoteToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	quote := h.quoteService.Today(ctx, middleware.GetCouple(ctx).ID)
	respondJSON(w, http.StatusOK, quoteView(quote))
}
