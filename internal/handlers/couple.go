package handlers

import (
	"net/http"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/services"
)

// CoupleHandler handles pairing HTTP requests
type CoupleHandler struct {
	coupleService *services.CoupleService
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(coupleService *services.CoupleService) *CoupleHandler {
	return &CoupleHandler{
		coupleService: coupleService,
	}
}

// StartDateRequest represents the body of create and update-start-date
type StartDateRequest struct {
	StartDate string `json:"startDate" validate:"required"`
}

// JoinCoupleRequest represents the body of join
type JoinCoupleRequest struct {
	InviteCode string `json:"inviteCode" validate:"required"`
}

type coupleResponse struct {
	Couple *CoupleView `json:"couple"`
}

// Create handles POST /couple/create
func (h *CoupleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req StartDateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	couple, err := h.coupleService.CreateCouple(r.Context(), userID, req.StartDate)
	if err != nil {
		respondServiceError(w, r, err, "Failed to create couple")
		return
	}

	respondJSON(w, http.StatusOK, coupleResponse{Couple: coupleView(couple)})
}

// Join handles POST /couple/join
func (h *CoupleHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req JoinCoupleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	couple, err := h.coupleService.JoinCouple(r.Context(), userID, req.InviteCode)
	if err != nil {
		respondServiceError(w, r, err, "Failed to join couple")
		return
	}

	respondJSON(w, http.StatusOK, coupleResponse{Couple: coupleView(couple)})
}

// Leave handles POST /couple/leave
func (h *CoupleHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.coupleService.LeaveCouple(r.Context(), userID); err != nil {
		respondServiceError(w, r, err, "Failed to leave couple")
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// UpdateStartDate handles PATCH /couple/update-start-date
func (h *CoupleHandler) UpdateStartDate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req StartDateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	couple, err := h.coupleService.UpdateStartDate(r.Context(), userID, req.StartDate)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update start date")
		return
	}

	respondJSON(w, http.StatusOK, coupleResponse{Couple: coupleView(couple)})
}

// Me handles GET /couple/me. Unpaired callers get {"couple": null}.
func (h *CoupleHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	details, err := h.coupleService.GetCoupleDetails(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get couple")
		return
	}

	respondJSON(w, http.StatusOK, map[string]*CoupleDetailsView{"couple": coupleDetailsView(details)})
}
