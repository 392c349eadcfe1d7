package cmd

import (
	"context"
	"fmt"

	"github.com/jfmyers9/gnlookup/internal/lookup"
	"github.com/jfmyers9/gnlookup/internal/tui"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse search results in a terminal UI",
	Long: `Search Gracenote and browse the matching albums in a terminal-based
user interface.

The TUI includes:
- Album list with year and genre
- Details panel with genre, artist origin, era and type, and tracks
- 'o' to reload origin, era and type for the selected album

Press 'q' to quit.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	addQueryFlags(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	q := queryFromFlags(cmd)
	if q == (lookup.Query{}) {
		return lookup.ErrEmptyQuery
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	albums, err := s.svc.Search(ctx, q, parseMatchMode(false))
	if err != nil {
		return err
	}

	cfg := tui.DefaultConfig()
	cfg.Title = fmt.Sprintf(" %s (%d) ", q, len(albums))
	cfg.LoadOET = s.svc.OET

	return tui.NewWithConfig(albums, cfg).Run(ctx)
}
