package services

import (
	"context"
	"strings"
	"time"

	"love-journal-backend/internal/models"

	"github.com/google/uuid"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
)

// MessageService handles the couple's private chat
type MessageService struct {
	messages MessageStore
	now      Clock
}

// NewMessageService creates a new message service
func NewMessageService(messages MessageStore, now Clock) *MessageService {
	if now == nil {
		now = time.Now
	}
	return &MessageService{messages: messages, now: now}
}

// MessageInput is a chat message; at least one field must be set
type MessageInput struct {
	Text     string
	ImageURL string
	AudioURL string
}

// MessagePage is a page of messages, oldest first. NextCursor is set when older messages exist.
type MessagePage struct {
	Messages   []*models.Message
	NextCursor *time.Time
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ClampLimit maps a requested page size into 1..100, defaulting to 50
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultMessageLimit
	}
	if limit > maxMessageLimit {
		return maxMessageLimit
	}
	return limit
}

// ParseCursor parses an RFC 3339 cursor; the empty string means "latest"
func ParseCursor(cursor string) (*time.Time, error) {
	if cursor == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &t, nil
}

// List returns up to limit messages older than before
func (s *MessageService) List(ctx context.Context, couple *models.Couple, before *time.Time, limit int) (*MessagePage, error) {
	limit = ClampLimit(limit)

	// One extra row tells whether another page exists.
	rows, err := s.messages.ListBefore(ctx, couple.ID, before, limit+1)
	if err != nil {
		return nil, storeError(err, nil)
	}

	page := &MessagePage{}
	if len(rows) > limit {
		rows = rows[:limit]
		oldest := rows[len(rows)-1].CreatedAt
		page.NextCursor = &oldest
	}

	// Newest-first from the store, oldest-first on the wire.
	page.Messages = make([]*models.Message, len(rows))
	for i, m := range rows {
		page.Messages[len(rows)-1-i] = m
	}
	return page, nil
}

// Send stores a new message from the caller
func (s *MessageService) Send(ctx context.Context, couple *models.Couple, callerID string, in MessageInput) (*models.Message, error) {
	message := &models.Message{
		ID:        uuid.New().String(),
		CoupleID:  couple.ID,
		SenderID:  callerID,
		Text:      optional(in.Text),
		ImageURL:  optional(in.ImageURL),
		AudioURL:  optional(in.AudioURL),
		CreatedAt: s.now().UTC(),
	}
	if message.Text == nil && message.ImageURL == nil && message.AudioURL == nil {
		return nil, ErrEmptyMessage
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, storeError(err, nil)
	}
	return message, nil
}
