package services

import (
	"context"
	"testing"

	"love-journal-backend/internal/models"
	"love-journal-backend/internal/quotes"
	"love-journal-backend/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteToday_PersistsFallbackOnce(t *testing.T) {
	store := &memstore.Quotes{}
	table := quotes.Embedded()
	svc := NewQuoteService(store, table, fixedClock("2024-06-15T12:00:00Z"), nil)
	ctx := context.Background()

	first := svc.Today(ctx, "c1")
	assert.Equal(t, "2024-06-15", first.Date)
	assert.Equal(t, models.QuoteSourceFallback, first.Source)
	assert.Equal(t, table.Pick("2024-06-15", "c1"), first.Text)

	second := svc.Today(ctx, "c1")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Creates)
	require.Len(t, store.Items, 1)
}

func TestQuoteToday_PrefersStoredQuote(t *testing.T) {
	store := &memstore.Quotes{Items: []*models.DailyQuote{{
		ID: "q1", CoupleID: "c1", Date: "2024-06-15", Text: "custom", Source: models.QuoteSourcePersisted,
	}}}
	svc := NewQuoteService(store, nil, fixedClock("2024-06-15T12:00:00Z"), nil)

	quote := svc.Today(context.Background(), "c1")
	assert.Equal(t, "custom", quote.Text)
	assert.Equal(t, models.QuoteSourcePersisted, quote.Source)
}

func TestQuoteToday_StoreDownFallsBack(t *testing.T) {
	store := &memstore.Quotes{Fail: errStoreDown}
	table := quotes.Embedded()
	svc := NewQuoteService(store, table, fixedClock("2024-06-15T12:00:00Z"), nil)

	quote := svc.Today(context.Background(), "c1")
	require.NotNil(t, quote)
	assert.Equal(t, models.QuoteSourceFallback, quote.Source)
	assert.Equal(t, table.Pick("2024-06-15", "c1"), quote.Text)
}

func TestQuoteOn_DoesNotPersist(t *testing.T) {
	store := &memstore.Quotes{}
	svc := NewQuoteService(store, nil, nil, nil)

	quote := svc.On(context.Background(), "c1", "2023-01-01")
	assert.Equal(t, models.QuoteSourceFallback, quote.Source)
	assert.Equal(t, 0, store.Creates)
}
