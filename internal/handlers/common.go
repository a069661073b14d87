package handlers

import (
	"errors"
	"io"
	"net/http"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/services"
	"love-journal-backend/internal/validation"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the body of mutations that return nothing else
type SuccessResponse struct {
	Success bool `json:"success"`
}

// respondJSON sends body as JSON with the given status
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// statusFor maps a service error kind to its HTTP status. Conflicts are 400
// like every other client mistake.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUnavailable, services.KindUpstream:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs err and answers with its kind and message.
// Client mistakes are logged at debug, everything else at error.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	kind := services.KindOf(err)
	status := statusFor(kind)

	var ev *zerolog.Event
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	} else {
		ev = log.Debug()
	}
	ev.Err(err).
		Str("kind", kind.String()).
		Str("path", r.URL.Path).
		Msg(msg)

	if kind == services.KindUnavailable {
		middleware.ReportStoreFailure(r.Context())
	}
	respondError(w, services.MessageOf(err), status)
}

var errEmptyBody = errors.New("empty body")

// decodeJSON decodes the request body into dst and validates it. It answers
// 400 itself and returns false when the body is unusable.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(r, dst); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return validate(w, dst)
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(r, dst); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return validate(w, dst)
}

func readJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

func validate(w http.ResponseWriter, dst any) bool {
	if err := validation.ValidateStruct(dst); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
