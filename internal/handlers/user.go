package handlers

import (
	"net/http"
	"time"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/models"
	"love-journal-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// CookieConfig describes the session cookie set on login
type CookieConfig struct {
	Name   string
	Secure bool
}

// UserHandler handles registration, sessions and the caller's profile
type UserHandler struct {
	userService *services.UserService
	cookie      CookieConfig
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, cookie CookieConfig) *UserHandler {
	return &UserHandler{
		userService: userService,
		cookie:      cookie,
	}
}

// RegisterRequest represents the request body for registering
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by register and login
type SessionResponse struct {
	User  ProfileView `json:"user"`
	Token string      `json:"token"`
}

// UpdateProfileRequest carries the profile fields to change; omitted fields are kept
type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Email  *string `json:"email"`
	Image  *string `json:"image" validate:"omitempty,max=2048"`
	Gender *string `json:"gender" validate:"omitempty,oneof=male female other"`
}

func (h *UserHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "Failed to register user")
		return
	}

	h.setSessionCookie(w, token, h.userService.SessionTTL())
	respondJSON(w, http.StatusCreated, SessionResponse{User: profileView(user), Token: token})
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, r, err, "Failed to log in")
		return
	}

	h.setSessionCookie(w, token, h.userService.SessionTTL())
	respondJSON(w, http.StatusOK, SessionResponse{User: profileView(user), Token: token})
}

// Logout handles POST /auth/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// GetProfile handles GET /user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]ProfileView{"user": profileView(user)})
}

// UpdateProfile handles PATCH /user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	upd := services.ProfileUpdate{Name: req.Name, Email: req.Email, Image: req.Image}
	if req.Gender != nil {
		g := models.Gender(*req.Gender)
		upd.Gender = &g
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		respondServiceError(w, r, err, "Failed to update profile")
		return
	}

	log.Info().
		Str("user_id", userID).
		Msg("Profile updated")

	respondJSON(w, http.StatusOK, map[string]ProfileView{"user": profileView(user)})
}
