package middleware

import (
	"context"
	"net/http"
	"strings"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/services"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	userIDKey       contextKey = "user_id"
	coupleKey       contextKey = "couple"
	storeFailureKey contextKey = "store_failure"
)

// SessionValidator resolves a session token to a user ID
type SessionValidator interface {
	ValidateJWT(token string) (string, error)
}

// CoupleResolver finds the couple a user belongs to, nil when unpaired
type CoupleResolver interface {
	GetCoupleForUser(ctx context.Context, userID string) (*models.Couple, error)
}

// Auth authenticates the request from a Bearer token or the session cookie
func Auth(sessions SessionValidator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := sessionToken(r, cookieName)
			if !ok {
				respondError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userID, err := sessions.ValidateJWT(token)
			if err != nil {
				respondError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request, cookieName string) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// RequireCouple re-derives the caller's couple on every request and stores
// it in the context. Unpaired callers get 404.
func RequireCouple(couples CoupleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			couple, err := couples.GetCoupleForUser(r.Context(), userID)
			if err != nil {
				log.Error().Err(err).Str("user_id", userID).Msg("Failed to resolve couple")
				status := http.StatusInternalServerError
				if services.KindOf(err) == services.KindUnavailable {
					status = http.StatusServiceUnavailable
					ReportStoreFailure(r.Context())
				}
				respondError(w, services.MessageOf(err), status)
				return
			}
			if couple == nil {
				respondError(w, services.ErrNoCouple.Message, http.StatusNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), coupleKey, couple)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetCouple extracts the caller's couple from context
func GetCouple(ctx context.Context) *models.Couple {
	couple, _ := ctx.Value(coupleKey).(*models.Couple)
	return couple
}

// WithUserID returns ctx carrying userID, as Auth would
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
