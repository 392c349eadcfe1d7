package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jfmyers9/gnlookup/internal/config"
	"github.com/jfmyers9/gnlookup/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent lookups",
	Long: `List lookups recorded in the lookup database, newest first.

Use --prune with a duration such as 720h to delete older entries first.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Number of lookups to show (0=all)")
	historyCmd.Flags().String("prune", "", "Delete lookups older than this duration, e.g. 720h")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// History needs no credentials, so the database is opened directly
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.Open(historyDBPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open lookup database: %w", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if prune, _ := cmd.Flags().GetString("prune"); prune != "" {
		maxAge, err := time.ParseDuration(prune)
		if err != nil {
			return fmt.Errorf("invalid prune duration: %w", err)
		}
		deleted, err := st.Prune(ctx, maxAge)
		if err != nil {
			return err
		}
		remaining, err := st.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d lookups, %d remaining\n", deleted, remaining)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	lookups, err := st.RecentLookups(ctx, limit)
	if err != nil {
		return err
	}

	printHistory(out, lookups)
	return nil
}

// printHistory writes one aligned row per lookup
func printHistory(w io.Writer, lookups []store.Lookup) {
	for _, l := range lookups {
		result := strconv.Itoa(l.Results)
		if l.Error != "" {
			result = "error: " + l.Error
		}
		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
			l.CreatedAt.Format("2006-01-02 15:04:05"),
			l.ID,
			padToWidth(l.Command, 12),
			padToWidth(l.Query, 40),
			result,
		)
	}
}
