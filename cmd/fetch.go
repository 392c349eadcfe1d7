package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jfmyers9/gnlookup/pkg/gracenote"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <gn_id>",
	Short: "Fetch an album by Gracenote ID",
	Long: `Fetch the full record of an album by its Gracenote identifier, including
tracks, genre, mood, tempo and artist origin, era and type.

With --format the album is printed as a single templated line instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

var tocCmd = &cobra.Command{
	Use:   "toc <offsets>...",
	Short: "Look up an album by disc table of contents",
	Long: `Look up an album by the frame offsets of its disc table of contents,
e.g.

  gnlookup toc 150 20512 30837 50912 64107 78357 90537 110742 126817 144657`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTOC,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(tocCmd)

	addFormatFlags(fetchCmd)
	addFormatFlags(tocCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	albums, err := s.svc.Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	return printResult(cmd, s, albums)
}

func runTOC(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	// Offsets may be passed as one quoted argument or several
	offsets := strings.Join(strings.Fields(strings.Join(args, " ")), " ")

	albums, err := s.svc.TOC(ctx, offsets)
	if err != nil {
		return err
	}

	return printResult(cmd, s, albums)
}

// printResult prints full album details, or templated lines when --format is set
func printResult(cmd *cobra.Command, s *session, albums []gracenote.Album) error {
	out := cmd.OutOrStdout()

	if len(albums) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No matches")
		return nil
	}

	if cmd.Flags().Changed("format") {
		format, width := outputFormat(cmd, s)
		return printAlbums(out, albums, format, width)
	}

	for i, album := range albums {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printAlbumDetails(out, album)
	}
	return nil
}
