package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSweptTables_KeepsMoodHistory(t *testing.T) {
	tables := SweptTables()

	assert.NotContains(t, tables, "mood_events")
	assert.Equal(t, []string{"posts", "messages", "daily_quotes", "comments", "reactions"}, tables)
}
