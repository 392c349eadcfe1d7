/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/jfmyers9/gnlookup/internal/tagger"
	"github.com/jfmyers9/gnlookup/pkg/gracenote"
	"github.com/mattn/go-runewidth"
)

// albumView is the data passed to output templates.
// Available fields: .ID, .Artist, .Title, .Year, .Genre, .Origin, .Era,
// .Type, .CoverArt, .Tracks
type albumView struct {
	ID       string
	Artist   string
	Title    string
	Year     string
	Genre    string
	Origin   string
	Era      string
	Type     string
	CoverArt string
	Tracks   int
}

func newAlbumView(a gracenote.Album) albumView {
	return albumView{
		ID:       a.ID,
		Artist:   a.ArtistName,
		Title:    a.Title,
		Year:     a.Year,
		Genre:    tagger.JoinTaxonomy(a.Genre),
		Origin:   tagger.JoinTaxonomy(a.ArtistOrigin),
		Era:      tagger.JoinTaxonomy(a.ArtistEra),
		Type:     tagger.JoinTaxonomy(a.ArtistType),
		CoverArt: a.CoverArtURL,
		Tracks:   len(a.Tracks),
	}
}

// formatAlbum applies the template to the album data
func formatAlbum(album gracenote.Album, templateStr string) (string, error) {
	tmpl, err := template.New("output").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newAlbumView(album)); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return buf.String(), nil
}

// printAlbums writes one templated line per album, padded to width when width > 0
func printAlbums(w io.Writer, albums []gracenote.Album, templateStr string, width int) error {
	for _, album := range albums {
		line, err := formatAlbum(album, templateStr)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, padToWidth(line, width))
	}
	return nil
}

// printAlbumDetails writes the full album record including tracks
func printAlbumDetails(w io.Writer, a gracenote.Album) {
	fields := []struct {
		label string
		value string
	}{
		{"ID", a.ID},
		{"Artist", a.ArtistName},
		{"Title", a.Title},
		{"Year", a.Year},
		{"Genre", tagger.JoinTaxonomy(a.Genre)},
		{"Origin", tagger.JoinTaxonomy(a.ArtistOrigin)},
		{"Era", tagger.JoinTaxonomy(a.ArtistEra)},
		{"Type", tagger.JoinTaxonomy(a.ArtistType)},
		{"Cover art", a.CoverArtURL},
		{"Artist image", a.ArtistImageURL},
		{"Biography", a.ArtistBioURL},
		{"Review", a.ReviewURL},
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", padToWidth(f.label+":", 14), f.value)
	}

	if len(a.Tracks) == 0 {
		return
	}

	fmt.Fprintln(w)
	for _, t := range a.Tracks {
		line := fmt.Sprintf("%3d. %s", t.Number, padToWidth(t.Title, 40))
		if t.ArtistName != a.ArtistName {
			line += "  " + t.ArtistName
		}
		if mood := tagger.JoinTaxonomy(t.Mood); mood != "" {
			line += "  [" + mood + "]"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

// printOET writes the origin, era and type classifications
func printOET(w io.Writer, oet gracenote.OET) {
	fmt.Fprintf(w, "%s %s\n", padToWidth("Origin:", 8), tagger.JoinTaxonomy(oet.Origin))
	fmt.Fprintf(w, "%s %s\n", padToWidth("Era:", 8), tagger.JoinTaxonomy(oet.Era))
	fmt.Fprintf(w, "%s %s\n", padToWidth("Type:", 8), tagger.JoinTaxonomy(oet.Type))
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// Text longer than width is truncated with a "..." suffix.
// If width <= 0, returns text unchanged.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	if runewidth.StringWidth(text) > width {
		tail := "..."
		if width <= len(tail) {
			tail = ""
		}
		text = runewidth.Truncate(text, width, tail)
	}
	return runewidth.FillRight(text, width)
}

// parseMatchMode maps the --best flag to a match mode
func parseMatchMode(best bool) gracenote.MatchMode {
	if best {
		return gracenote.BestMatchOnly
	}
	return gracenote.AllResults
}

// trackLabel is the list label of a track, e.g. "08. Hysteria"
func trackLabel(t gracenote.Track) string {
	n := strconv.Itoa(t.Number)
	if len(n) < 2 {
		n = "0" + n
	}
	return n + ". " + t.Title
}
