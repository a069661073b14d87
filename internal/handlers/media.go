package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// Uploader stores one uploaded file
type Uploader interface {
	Upload(ctx context.Context, up services.Upload) (*services.UploadResult, error)
}

// MediaHandler handles image and audio uploads
type MediaHandler struct {
	uploader Uploader
	couples  middleware.CoupleResolver
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(uploader Uploader, couples middleware.CoupleResolver) *MediaHandler {
	return &MediaHandler{
		uploader: uploader,
		couples:  couples,
	}
}

// UploadResponse is where the file can be fetched from
type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

// Upload handles POST /upload with a multipart "file" field. Files are
// stored under the caller's couple, or under the caller when unpaired.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondServiceError(w, r, services.ErrFileTooLarge, "Upload rejected")
			return
		}
		respondError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := io.ReadFull(file, sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			respondError(w, "Failed to read file", http.StatusBadRequest)
			return
		}
	}

	ownerID := userID
	couple, err := h.couples.GetCoupleForUser(ctx, userID)
	if err != nil {
		respondServiceError(w, r, err, "Failed to resolve couple for upload")
		return
	}
	if couple != nil {
		ownerID = couple.ID
	}

	result, err := h.uploader.Upload(ctx, services.Upload{
		OwnerID:     ownerID,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to upload file")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("public_id", result.PublicID).
		Msg("File uploaded")

	respondJSON(w, http.StatusOK, UploadResponse{URL: result.URL, PublicID: result.PublicID})
}
