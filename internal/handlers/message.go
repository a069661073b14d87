package handlers

import (
	"net/http"
	"strconv"

	"love-journal-backend/internal/middleware"
	"love-journal-backend/internal/services"
)

// MessageHandler handles the couple's chat
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// SendMessageRequest represents a chat message; at least one field is required
type SendMessageRequest struct {
	Text     string `json:"text" validate:"max=5000"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	AudioURL string `json:"audioUrl" validate:"omitempty,url"`
}

// List handles GET /messages?cursor=RFC3339&limit=N
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	before, err := services.ParseCursor(q.Get("cursor"))
	if err != nil {
		respondServiceError(w, r, err, "Invalid message cursor")
		return
	}

	limit := 0
	if s := q.Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil {
			respondError(w, "limit must be a number", http.StatusBadRequest)
			return
		}
	}

	page, err := h.messageService.List(ctx, middleware.GetCouple(ctx), before, limit)
	if err != nil {
		respondServiceError(w, r, err, "Failed to list messages")
		return
	}

	respondJSON(w, http.StatusOK, messagePageView(page))
}

// Send handles POST /messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	message, err := h.messageService.Send(ctx, middleware.GetCouple(ctx), middleware.GetUserID(ctx), services.MessageInput{
		Text:     req.Text,
		ImageURL: req.ImageURL,
		AudioURL: req.AudioURL,
	})
	if err != nil {
		respondServiceError(w, r, err, "Failed to send message")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]MessageView{"message": messageView(message)})
}
