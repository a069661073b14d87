package handlers

import (
	"net/http"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/models"
	"love-journal-backend/internal/services"
)

// MoodHandler handles mood check-ins and today's mood views
type MoodHandler struct {
	moodService *services.MoodService
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moodService *services.MoodService) *MoodHandler {
	return &MoodHandler{
		moodService: moodService,
	}
}

// RecordMoodRequest represents a check-in; eventId edits an existing event.
// Intensity outside 0..3 is clamped, not rejected.
type RecordMoodRequest struct {
	Mood      string `json:"mood" validate:"required,mood"`
	Intensity *int   `json:"intensity" validate:"required"`
	Note      string `json:"note" validate:"max=500"`
	EventID   string `json:"eventId"`
}

// Record handles POST /moods
func (h *MoodHandler) Record(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	couple := middleware.GetCouple(ctx)

	var req RecordMoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.moodService.RecordMood(ctx, userID, couple.ID, services.MoodInput{
		Mood:      models.Mood(req.Mood),
		Intensity: *req.Intensity,
		Note:      req.Note,
		EventID:   req.EventID,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to record mood")
		return
	}

	respondJSON(w, http.StatusOK, map[string]*MoodEventView{"event": moodEventView(event)})
}

// Today handles GET /moods/today
func (h *MoodHandler) Today(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	day, err := h.moodService.TodayMoods(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx))
	if err != nil {
		respondServiceError(w, r, err, "Failed to get today's moods")
		return
	}

	respondJSON(w, http.StatusOK, dayMoodsView(day))
}

// Match handles GET /mood-match/today
func (h *MoodHandler) Match(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	match, err := h.moodService.TodayMoodMatch(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx))
	if err != nil {
		respondServiceError(w, r, err, "Failed to compare moods")
		return
	}

	respondJSON(w, http.StatusOK, moodMatchView(match))
}
