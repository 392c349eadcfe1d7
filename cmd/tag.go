package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/gnlookup/internal/tagger"
	"github.com/jfmyers9/gnlookup/pkg/gracenote"
	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no matching album found")

var tagCmd = &cobra.Command{
	Use:   "tag <file.mp3>...",
	Short: "Write Gracenote metadata into MP3 files",
	Long: `Search Gracenote for the best matching album and write its metadata into
the ID3 tag of each MP3 file: title, artist, album, album artist, year, genre
and track number, plus the Gracenote IDs, mood and tempo as TXXX frames.

When --track is omitted the file name (without extension) is used as the
track title. Use --gn-id to tag from a known album instead of searching.

The album's cover art is downloaded and embedded unless --no-artwork is set.
Files from the same album share one download.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)

	addQueryFlags(tagCmd)
	tagCmd.Flags().String("gn-id", "", "Gracenote album ID to tag from instead of searching")
	tagCmd.Flags().Bool("no-artwork", false, "Do not embed cover art")
}

func runTag(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	var artwork *tagger.ArtworkFetcher
	if noArtwork, _ := cmd.Flags().GetBool("no-artwork"); !noArtwork {
		artwork = tagger.NewArtworkFetcher(nil)
	}

	for _, path := range args {
		if err := tagFile(ctx, cmd, s, artwork, path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// tagFile looks up one file and writes its tags. A nil artwork skips cover art.
func tagFile(ctx context.Context, cmd *cobra.Command, s *session, artwork *tagger.ArtworkFetcher, path string) error {
	q := queryFromFlags(cmd)
	if q.Track == "" {
		q.Track = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var (
		albums []gracenote.Album
		err    error
	)
	if gnID, _ := cmd.Flags().GetString("gn-id"); gnID != "" {
		albums, err = s.svc.Fetch(ctx, gnID)
	} else {
		albums, err = s.svc.Search(ctx, q, gracenote.BestMatchOnly)
	}
	if err != nil {
		return err
	}
	if len(albums) == 0 {
		return errNoMatch
	}

	album := albums[0]
	track := tagger.MatchTrack(album, q.Track)
	if track == nil {
		s.logger.Warn().
			Str("album", album.Title).
			Str("track", q.Track).
			Msg("No matching track, writing album tags only")
	}

	var art *tagger.Artwork
	if artwork != nil && album.CoverArtURL != "" {
		art, err = artwork.Fetch(ctx, album.CoverArtURL)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", album.CoverArtURL).Msg("Skipping cover art")
			art = nil
		}
	}

	if err := tagger.Tag(path, album, track, art); err != nil {
		return err
	}

	label := album.ArtistName + " - " + album.Title
	if track != nil {
		label += ": " + trackLabel(*track)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s with %s\n", path, label)
	return nil
}
