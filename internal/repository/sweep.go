package repository

import (
	"context"
	"fmt"

	"love-journal-backend/internal/database"

	"github.com/jackc/pgx/v5"
)

// SweepRepository finds and removes rows left behind by deleted couples and posts
type SweepRepository struct {
	db *database.DB
}

// NewSweepRepository creates a new sweep repository
func NewSweepRepository(db *database.DB) *SweepRepository {
	return &SweepRepository{db: db}
}

// orphanFilters maps each table to the condition that makes one of its rows an orphan.
// Kept tables are counted but never deleted from.
var orphanFilters = []struct {
	table string
	where string
	keep  bool
}{
	{"mood_events", `NOT EXISTS (SELECT 1 FROM couples c WHERE c.id = mood_events.couple_id)`, true},
	{"posts", `NOT EXISTS (SELECT 1 FROM couples c WHERE c.id = posts.couple_id)`, false},
	{"messages", `NOT EXISTS (SELECT 1 FROM couples c WHERE c.id = messages.couple_id)`, false},
	{"daily_quotes", `NOT EXISTS (SELECT 1 FROM couples c WHERE c.id = daily_quotes.couple_id)`, false},
	{"comments", `NOT EXISTS (SELECT 1 FROM posts p WHERE p.id = comments.post_id)`, false},
	{"reactions", `NOT EXISTS (SELECT 1 FROM posts p WHERE p.id = reactions.post_id)`, false},
}

// SweptTables lists the tables DeleteOrphans removes rows from, in deletion order
func SweptTables() []string {
	tables := make([]string, 0, len(orphanFilters))
	for _, f := range orphanFilters {
		if !f.keep {
			tables = append(tables, f.table)
		}
	}
	return tables
}

// CountOrphans returns the number of orphaned rows per table
func (r *SweepRepository) CountOrphans(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(orphanFilters))
	for _, f := range orphanFilters {
		var n int64
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, f.table, f.where)
		if err := r.db.Pool().QueryRow(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count orphans in %s: %w", f.table, err)
		}
		counts[f.table] = n
	}
	return counts, nil
}

// DeleteOrphans removes orphaned rows in one transaction and returns how many went per table.
// Posts go before comments and reactions so those of a swept post are caught in the same pass.
// Kept tables are left out of the result.
func (r *SweepRepository) DeleteOrphans(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(orphanFilters))
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, f := range orphanFilters {
			if f.keep {
				continue
			}
			result, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s`, f.table, f.where))
			if err != nil {
				return fmt.Errorf("failed to delete orphans in %s: %w", f.table, err)
			}
			counts[f.table] = result.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
