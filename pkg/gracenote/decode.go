package gracenote

import (
	"context"
	"encoding/xml"
	"strconv"
	"strings"
)

// document is the root of a Gracenote response.
type document struct {
	XMLName   xml.Name
	Message   *string    `xml:"MESSAGE"`
	Responses []response `xml:"RESPONSE"`
}

type response struct {
	Status  string  `xml:"STATUS,attr"`
	Message *string `xml:"MESSAGE"`
	User    string  `xml:"USER"`
	Albums  []album `xml:"ALBUM"`
}

type album struct {
	GNID         string       `xml:"GN_ID"`
	Artist       string       `xml:"ARTIST"`
	Title        string       `xml:"TITLE"`
	Date         string       `xml:"DATE"`
	Genre        []descriptor `xml:"GENRE"`
	URLs         []typedURL   `xml:"URL"`
	ArtistOrigin []descriptor `xml:"ARTIST_ORIGIN"`
	ArtistEra    []descriptor `xml:"ARTIST_ERA"`
	ArtistType   []descriptor `xml:"ARTIST_TYPE"`
	Tracks       []track      `xml:"TRACK"`
}

type track struct {
	Number       string       `xml:"TRACK_NUM"`
	GNID         string       `xml:"GN_ID"`
	Title        string       `xml:"TITLE"`
	Artist       *string      `xml:"ARTIST"`
	Mood         []descriptor `xml:"MOOD"`
	Tempo        []descriptor `xml:"TEMPO"`
	Genre        []descriptor `xml:"GENRE"`
	ArtistOrigin []descriptor `xml:"ARTIST_ORIGIN"`
	ArtistEra    []descriptor `xml:"ARTIST_ERA"`
	ArtistType   []descriptor `xml:"ARTIST_TYPE"`
}

// descriptor is one taxonomy level, e.g. <GENRE ORD="1" ID="25">Rock</GENRE>.
type descriptor struct {
	ID   string `xml:"ID,attr"`
	Text string `xml:",chardata"`
}

type typedURL struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// parseDocument unmarshals a response body.
//
// The usual root is <RESPONSES> wrapping one <RESPONSE>; a bare <RESPONSE>
// root is accepted too. rootMessage is a MESSAGE element sitting directly
// under the root, if any.
func parseDocument(raw []byte) (resp *response, rootMessage *string, err error) {
	var doc document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, err
	}

	if doc.XMLName.Local == "RESPONSE" {
		var bare response
		if err := xml.Unmarshal(raw, &bare); err != nil {
			return nil, nil, err
		}
		return &bare, nil, nil
	}

	if len(doc.Responses) == 0 {
		return &response{}, doc.Message, nil
	}
	return &doc.Responses[0], doc.Message, nil
}

// oetFetcher resolves the OET block of an album by its identifier.
type oetFetcher func(ctx context.Context, gnID string) (OET, error)

// decoder walks a checked response into the metadata model.
type decoder struct {
	fetchOET oetFetcher
}

// decode converts every album of resp. A failed secondary OET fetch
// fails the whole decode.
func (d *decoder) decode(ctx context.Context, resp *response) ([]Album, error) {
	albums := make([]Album, 0, len(resp.Albums))
	for _, a := range resp.Albums {
		decoded, err := d.decodeAlbum(ctx, a)
		if err != nil {
			return nil, err
		}
		albums = append(albums, decoded)
	}
	return albums, nil
}

func (d *decoder) decodeAlbum(ctx context.Context, a album) (Album, error) {
	out := Album{
		ID:             a.GNID,
		ArtistName:     a.Artist,
		Title:          a.Title,
		Year:           a.Date,
		Genre:          decodeTaxonomy(a.Genre),
		CoverArtURL:    findURL(a.URLs, URLCoverArt),
		ArtistImageURL: findURL(a.URLs, URLArtistImage),
		ArtistBioURL:   findURL(a.URLs, URLArtistBiography),
		ReviewURL:      findURL(a.URLs, URLReview),
	}

	if len(a.ArtistOrigin) > 0 {
		out.ArtistEra = decodeTaxonomy(a.ArtistEra)
		out.ArtistType = decodeTaxonomy(a.ArtistType)
		out.ArtistOrigin = decodeTaxonomy(a.ArtistOrigin)
	} else {
		oet, err := d.fetchOET(ctx, a.GNID)
		if err != nil {
			return Album{}, err
		}
		out.ArtistEra = oet.Era
		out.ArtistType = oet.Type
		out.ArtistOrigin = oet.Origin
	}

	out.Tracks = make([]Track, 0, len(a.Tracks))
	for _, t := range a.Tracks {
		decoded := Track{
			Number:     parseID(t.Number),
			ID:         t.GNID,
			Title:      t.Title,
			ArtistName: out.ArtistName,
			Mood:       decodeTaxonomy(t.Mood),
			Tempo:      decodeTaxonomy(t.Tempo),
		}
		if t.Artist != nil {
			decoded.ArtistName = *t.Artist
		}

		// Track-level GOET replaces the album value, so the last
		// overriding track decides what the album reports.
		if len(t.Genre) > 0 {
			out.Genre = decodeTaxonomy(t.Genre)
		}
		if len(t.ArtistEra) > 0 {
			out.ArtistEra = decodeTaxonomy(t.ArtistEra)
		}
		if len(t.ArtistType) > 0 {
			out.ArtistType = decodeTaxonomy(t.ArtistType)
		}
		if len(t.ArtistOrigin) > 0 {
			out.ArtistOrigin = decodeTaxonomy(t.ArtistOrigin)
		}

		out.Tracks = append(out.Tracks, decoded)
	}

	return out, nil
}

// decodeOETOnly extracts origin, era and type from the first album.
func decodeOETOnly(resp *response) OET {
	if len(resp.Albums) == 0 {
		return emptyOET()
	}
	a := resp.Albums[0]
	return OET{
		Origin: decodeTaxonomy(a.ArtistOrigin),
		Era:    decodeTaxonomy(a.ArtistEra),
		Type:   decodeTaxonomy(a.ArtistType),
	}
}

func emptyOET() OET {
	return OET{
		Origin: []TaxonomyEntry{},
		Era:    []TaxonomyEntry{},
		Type:   []TaxonomyEntry{},
	}
}

// decodeTaxonomy converts sibling descriptor elements into entries,
// preserving document order. It never returns nil.
func decodeTaxonomy(nodes []descriptor) []TaxonomyEntry {
	entries := make([]TaxonomyEntry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, TaxonomyEntry{
			ID:   parseID(n.ID),
			Text: n.Text,
		})
	}
	return entries
}

// findURL returns the first URL of the given type, or "" if there is none.
func findURL(urls []typedURL, t URLType) string {
	for _, u := range urls {
		if u.Type == string(t) {
			return strings.TrimSpace(u.Value)
		}
	}
	return ""
}

// parseID parses a numeric attribute or element, defaulting to 0.
func parseID(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
