package repository

import (
	"context"
	"fmt"

	"love-journal-backend/internal/database"
	"love-journal-backend/internal/models"
)

// QuoteRepository handles database operations for daily quotes
type QuoteRepository struct {
	db *database.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *database.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// GetByCoupleDate retrieves the quote stored for a couple on a date
func (r *QuoteRepository) GetByCoupleDate(ctx context.Context, coupleID, date string) (*models.DailyQuote, error) {
	query := `
		SELECT id::text, couple_id::text, date::text, text, source, created_at
		FROM daily_quotes
		WHERE couple_id = $1 AND date = $2::date
	`
	var quote models.DailyQuote
	var source string
	err := r.db.Pool().QueryRow(ctx, query, coupleID, date).Scan(
		&quote.ID, &quote.CoupleID, &quote.Date, &quote.Text, &source, &quote.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get daily quote: %w", err)
	}
	quote.Source = models.QuoteSource(source)
	return &quote, nil
}

// Create stores a quote. A quote already stored for the same couple and date wins.
func (r *QuoteRepository) Create(ctx context.Context, quote *models.DailyQuote) error {
	query := `
		INSERT INTO daily_quotes (id, couple_id, date, text, source, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6)
		ON CONFLICT (couple_id, date) DO NOTHING
	`
	_, err := r.db.Pool().Exec(ctx, query,
		quote.ID, quote.CoupleID, quote.Date, quote.Text, string(quote.Source), quote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create daily quote: %w", err)
	}
	return nil
}
