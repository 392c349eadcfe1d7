package cmd

import (
	"context"
	"fmt"

	"github.com/jfmyers9/gnlookup/internal/lookup"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search albums by artist, album and track title",
	Long: `Search Gracenote for albums matching an artist name, album title and/or
track title. At least one of --artist, --album or --track is required.

The output format can be customized in ~/.config/gnlookup/config.yaml
using a Go template. Available fields: .ID, .Artist, .Title, .Year, .Genre,
.Origin, .Era, .Type, .CoverArt, .Tracks

Exit codes:
  0 - Search completed (possibly with no matches)
  1 - Search failed`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	addQueryFlags(searchCmd)
	searchCmd.Flags().Bool("best", false, "Return only the single best match")
	addFormatFlags(searchCmd)
}

// addQueryFlags registers the search text flags
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("artist", "a", "", "Artist name")
	cmd.Flags().StringP("album", "b", "", "Album title")
	cmd.Flags().StringP("track", "t", "", "Track title")
}

// addFormatFlags registers the output template flags
func addFormatFlags(cmd *cobra.Command) {
	// Add format flag to override config
	cmd.Flags().StringP("format", "f", "", "Output format template (overrides config)")
	// Add width flag to set fixed output width
	cmd.Flags().IntP("width", "w", 0, "Fixed output width (0=disabled)")
}

func queryFromFlags(cmd *cobra.Command) lookup.Query {
	artist, _ := cmd.Flags().GetString("artist")
	album, _ := cmd.Flags().GetString("album")
	track, _ := cmd.Flags().GetString("track")
	return lookup.Query{Artist: artist, Album: album, Track: track}
}

func outputFormat(cmd *cobra.Command, s *session) (string, int) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = s.cfg.OutputFormat
	}
	width, _ := cmd.Flags().GetInt("width")
	return format, width
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	best, _ := cmd.Flags().GetBool("best")
	albums, err := s.svc.Search(ctx, q, parseMatchMode(best))
	if err != nil {
		return err
	}

	if len(albums) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No matches")
		return nil
	}

	format, width := outputFormat(cmd, s)
	return printAlbums(cmd.OutOrStdout(), albums, format, width)
}
