package services

import (
	"context"
	"errors"
	"time"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/quotes"
	"love-journal-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// QuoteService serves the daily quote, falling back to the built-in table
type QuoteService struct {
	quotes QuoteStore
	table  *quotes.Table
	now    Clock
	loc    *time.Location
}

// NewQuoteService creates a new quote service
func NewQuoteService(store QuoteStore, table *quotes.Table, now Clock, loc *time.Location) *QuoteService {
	if table == nil {
		table = quotes.Embedded()
	}
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &QuoteService{quotes: store, table: table, now: now, loc: loc}
}

func (s *QuoteService) fallback(coupleID, date string) *models.DailyQuote {
	return &models.DailyQuote{
		CoupleID: coupleID,
		Date:     date,
		Text:     s.table.Pick(date, coupleID),
		Source:   models.QuoteSourceFallback,
	}
}

// Today returns today's quote for the couple, persisting the fallback on
// first read. It never fails: store errors degrade to the fallback.
func (s *QuoteService) Today(ctx context.Context, coupleID string) *models.DailyQuote {
	date := Today(s.now(), s.loc)

	quote, err := s.quotes.GetByCoupleDate(ctx, coupleID, date)
	if err == nil {
		return quote
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Warn().Err(err).Str("couple_id", coupleID).Msg("Failed to load daily quote, using fallback")
		return s.fallback(coupleID, date)
	}

	quote = s.fallback(coupleID, date)
	quote.ID = uuid.New().String()
	quote.CreatedAt = s.now().UTC()
	if err := s.quotes.Create(ctx, quote); err != nil {
		log.Warn().Err(err).Str("couple_id", coupleID).Msg("Failed to persist daily quote")
		return quote
	}

	// A concurrent first read may have stored a different row; prefer the stored one.
	if stored, err := s.quotes.GetByCoupleDate(ctx, coupleID, date); err == nil {
		return stored
	}
	return quote
}

// On returns the quote for a date without persisting anything
func (s *QuoteService) On(ctx context.Context, coupleID, date string) *models.DailyQuote {
	quote, err := s.quotes.GetByCoupleDate(ctx, coupleID, date)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("couple_id", coupleID).Msg("Failed to load quote, using fallback")
		}
		return s.fallback(coupleID, date)
	}
	return quote
}
