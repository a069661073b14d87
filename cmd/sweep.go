package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"love-journal-backend/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var sweepDelete bool

func init() {
	sweepCmd.Flags().BoolVar(&sweepDelete, "delete", false, "remove the orphaned rows instead of only counting them")
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Report or remove rows orphaned by deleted couples and posts",
	Long: `Find rows that point at a couple or post that no longer exists: mood events,
posts, messages and daily quotes of deleted couples, and comments and reactions
of deleted posts.

Mood events are only counted. --delete never removes them, so a member keeps
their mood history after leaving a couple.

Examples:
  # Count orphans
  love-journal sweep

  # Remove them
  love-journal sweep --delete`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	_, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	sweeper := repository.NewSweepRepository(db)

	var counts map[string]int64
	if sweepDelete {
		log.Info().Strs("tables", repository.SweptTables()).Msg("Deleting orphans")
		counts, err = sweeper.DeleteOrphans(ctx)
	} else {
		counts, err = sweeper.CountOrphans(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to sweep: %w", err)
	}

	total := printCounts(cmd.OutOrStdout(), counts)
	log.Info().
		Bool("deleted", sweepDelete).
		Int64("orphans", total).
		Msg("Sweep finished")
	return nil
}

// printCounts writes one "table  count" line per table, sorted by table name
func printCounts(w io.Writer, counts map[string]int64) int64 {
	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var total int64
	for _, table := range tables {
		fmt.Fprintf(w, "%-14s %d\n", table, counts[table])
		total += counts[table]
	}
	return total
}
