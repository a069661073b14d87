package repository

import (
	"context"
	"fmt"

	"love-journal-backend/internal/database"
	"love-journal-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// MoodRepository handles database operations for mood events
type MoodRepository struct {
	db *database.DB
}

// NewMoodRepository creates a new mood repository
func NewMoodRepository(db *database.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

const moodColumns = `id::text, couple_id::text, user_id::text, date::text, mood, intensity, note, created_at`

func scanMoodEvent(row pgx.Row) (*models.MoodEvent, error) {
	var event models.MoodEvent
	var mood string
	err := row.Scan(
		&event.ID, &event.CoupleID, &event.UserID, &event.Date,
		&mood, &event.Intensity, &event.Note, &event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	event.Mood = models.Mood(mood)
	return &event, nil
}

func (r *MoodRepository) list(ctx context.Context, query string, args ...any) ([]*models.MoodEvent, error) {
	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get mood events: %w", err)
	}
	defer rows.Close()

	events := []*models.MoodEvent{}
	for rows.Next() {
		event, err := scanMoodEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mood events: %w", err)
	}
	return events, nil
}

// Create inserts a new mood event
func (r *MoodRepository) Create(ctx context.Context, event *models.MoodEvent) error {
	query := `
		INSERT INTO mood_events (id, couple_id, user_id, date, mood, intensity, note, created_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)
	`
	_, err := r.db.Pool().Exec(ctx, query,
		event.ID, event.CoupleID, event.UserID, event.Date,
		string(event.Mood), event.Intensity, event.Note, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mood event: %w", err)
	}
	return nil
}

// GetForUser retrieves a mood event owned by userID
func (r *MoodRepository) GetForUser(ctx context.Context, id, userID string) (*models.MoodEvent, error) {
	query := `SELECT ` + moodColumns + ` FROM mood_events WHERE id = $1 AND user_id = $2`
	event, err := scanMoodEvent(r.db.Pool().QueryRow(ctx, query, id, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mood event: %w", err)
	}
	return event, nil
}

// Update rewrites the mood, intensity and note of an event owned by event.UserID
func (r *MoodRepository) Update(ctx context.Context, event *models.MoodEvent) error {
	query := `UPDATE mood_events SET mood = $3, intensity = $4, note = $5 WHERE id = $1 AND user_id = $2`
	result, err := r.db.Pool().Exec(ctx, query,
		event.ID, event.UserID, string(event.Mood), event.Intensity, event.Note,
	)
	if err != nil {
		return fmt.Errorf("failed to update mood event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUserDate returns a user's events for one day, strongest and newest first
func (r *MoodRepository) ListByUserDate(ctx context.Context, userID, date string) ([]*models.MoodEvent, error) {
	query := `
		SELECT ` + moodColumns + `
		FROM mood_events
		WHERE user_id = $1 AND date = $2::date
		ORDER BY intensity DESC, created_at DESC
	`
	return r.list(ctx, query, userID, date)
}

// ListByUserRange returns a user's events inside a couple for [from, to],
// ordered by date, then intensity and recency descending
func (r *MoodRepository) ListByUserRange(ctx context.Context, coupleID, userID, from, to string) ([]*models.MoodEvent, error) {
	query := `
		SELECT ` + moodColumns + `
		FROM mood_events
		WHERE couple_id = $1 AND user_id = $2 AND date BETWEEN $3::date AND $4::date
		ORDER BY date ASC, intensity DESC, created_at DESC
	`
	return r.list(ctx, query, coupleID, userID, from, to)
}
