package repository

import (
	"context"
	"fmt"
	"time"

	"love-journal-backend/internal/database"
	"love-journal-backend/internal/models"
)

// MessageRepository handles database operations for chat messages
type MessageRepository struct {
	db *database.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, couple_id, sender_id, text, image_url, audio_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Pool().Exec(ctx, query,
		message.ID, message.CoupleID, message.SenderID,
		message.Text, message.ImageURL, message.AudioURL, message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListBefore returns up to limit messages of a couple created strictly before
// before (or the latest ones when before is nil), newest first
func (r *MessageRepository) ListBefore(ctx context.Context, coupleID string, before *time.Time, limit int) ([]*models.Message, error) {
	query := `
		SELECT id::text, couple_id::text, sender_id::text, text, image_url, audio_url, created_at
		FROM messages
		WHERE couple_id = $1 AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.db.Pool().Query(ctx, query, coupleID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.CoupleID, &m.SenderID, &m.Text, &m.ImageURL, &m.AudioURL, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}
