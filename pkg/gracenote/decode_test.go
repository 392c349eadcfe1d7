package gracenote

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// parseOK parses a response body that is expected to carry STATUS="OK".
func parseOK(t *testing.T, body string) *response {
	t.Helper()

	resp, err := checkResponse([]byte(body))
	if err != nil {
		t.Fatalf("failed to check response: %v", err)
	}
	return resp
}

// countingFetcher returns a fixed OET and records the IDs it was asked for.
type countingFetcher struct {
	oet OET
	err error
	ids []string
}

func (f *countingFetcher) fetch(ctx context.Context, gnID string) (OET, error) {
	f.ids = append(f.ids, gnID)
	return f.oet, f.err
}

func TestDecodeTaxonomy(t *testing.T) {
	tests := []struct {
		name  string
		nodes []descriptor
		want  []TaxonomyEntry
	}{
		{
			name: "two levels in order",
			nodes: []descriptor{
				{ID: "1", Text: "Rock"},
				{ID: "2", Text: "Alt Rock"},
			},
			want: []TaxonomyEntry{
				{ID: 1, Text: "Rock"},
				{ID: 2, Text: "Alt Rock"},
			},
		},
		{
			name:  "missing and non-numeric IDs default to zero",
			nodes: []descriptor{{Text: "Pop"}, {ID: "abc", Text: "Synth Pop"}},
			want:  []TaxonomyEntry{{ID: 0, Text: "Pop"}, {ID: 0, Text: "Synth Pop"}},
		},
		{
			name:  "empty input",
			nodes: nil,
			want:  []TaxonomyEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeTaxonomy(tt.nodes)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDecodeTaxonomy_FromXML(t *testing.T) {
	resp := parseOK(t, `<RESPONSES><RESPONSE STATUS="OK"><ALBUM>
		<GN_ID>a1</GN_ID>
		<GENRE ID="1">Rock</GENRE><GENRE ID="2">Alt Rock</GENRE>
		<ARTIST_ORIGIN ID="5">UK</ARTIST_ORIGIN>
	</ALBUM></RESPONSE></RESPONSES>`)

	got := decodeTaxonomy(resp.Albums[0].Genre)
	want := []TaxonomyEntry{{ID: 1, Text: "Rock"}, {ID: 2, Text: "Alt Rock"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDecoder_AlbumFields(t *testing.T) {
	resp := parseOK(t, `<RESPONSES>
<RESPONSE STATUS="OK">
	<ALBUM>
		<GN_ID>97474325-8C600B4A2C3FD6AC7FE2C0A4F2B0E1E5</GN_ID>
		<ARTIST>Queen</ARTIST>
		<TITLE>A Night at the Opera</TITLE>
		<DATE>1975</DATE>
		<GENRE ORD="1" ID="25">Rock</GENRE>
		<URL TYPE="COVERART" SIZE="MEDIUM">http://example.com/cover.jpg</URL>
		<URL TYPE="REVIEW">http://example.com/review</URL>
		<ARTIST_ORIGIN ORD="1" ID="29896">Europe</ARTIST_ORIGIN>
		<ARTIST_ORIGIN ORD="2" ID="29922">Western Europe</ARTIST_ORIGIN>
		<ARTIST_ERA ORD="1" ID="29481">1970's</ARTIST_ERA>
		<ARTIST_TYPE ORD="1" ID="29423">Male</ARTIST_TYPE>
		<TRACK>
			<TRACK_NUM>1</TRACK_NUM>
			<GN_ID>t1</GN_ID>
			<TITLE>Death on Two Legs</TITLE>
			<MOOD ORD="1" ID="65322">Aggressive</MOOD>
			<TEMPO ORD="1" ID="34283">Medium Tempo</TEMPO>
			<TEMPO ORD="2" ID="34291">Medium Fast</TEMPO>
		</TRACK>
		<TRACK>
			<TRACK_NUM>2</TRACK_NUM>
			<GN_ID>t2</GN_ID>
			<ARTIST>Freddie Mercury</ARTIST>
			<TITLE>Lazing on a Sunday Afternoon</TITLE>
		</TRACK>
	</ALBUM>
</RESPONSE>
</RESPONSES>`)

	fetcher := &countingFetcher{}
	d := &decoder{fetchOET: fetcher.fetch}

	albums, err := d.decode(context.Background(), resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(albums) != 1 {
		t.Fatalf("expected 1 album, got %d", len(albums))
	}
	a := albums[0]

	if a.ID != "97474325-8C600B4A2C3FD6AC7FE2C0A4F2B0E1E5" {
		t.Errorf("unexpected album ID %q", a.ID)
	}
	if a.ArtistName != "Queen" || a.Title != "A Night at the Opera" || a.Year != "1975" {
		t.Errorf("unexpected scalars: %q / %q / %q", a.ArtistName, a.Title, a.Year)
	}
	if a.CoverArtURL != "http://example.com/cover.jpg" {
		t.Errorf("expected cover art URL, got %q", a.CoverArtURL)
	}
	if a.ReviewURL != "http://example.com/review" {
		t.Errorf("expected review URL, got %q", a.ReviewURL)
	}
	if a.ArtistImageURL != "" || a.ArtistBioURL != "" {
		t.Errorf("expected unset image and bio URLs, got %q and %q", a.ArtistImageURL, a.ArtistBioURL)
	}

	wantOrigin := []TaxonomyEntry{{ID: 29896, Text: "Europe"}, {ID: 29922, Text: "Western Europe"}}
	if !reflect.DeepEqual(a.ArtistOrigin, wantOrigin) {
		t.Errorf("expected origin %+v, got %+v", wantOrigin, a.ArtistOrigin)
	}
	if len(fetcher.ids) != 0 {
		t.Errorf("expected no OET fetch with inline data, got %v", fetcher.ids)
	}

	if len(a.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(a.Tracks))
	}
	if a.Tracks[0].Number != 1 || a.Tracks[0].ID != "t1" {
		t.Errorf("unexpected first track: %+v", a.Tracks[0])
	}
	if a.Tracks[0].ArtistName != "Queen" {
		t.Errorf("expected track artist to fall back to Queen, got %q", a.Tracks[0].ArtistName)
	}
	if a.Tracks[1].ArtistName != "Freddie Mercury" {
		t.Errorf("expected track artist Freddie Mercury, got %q", a.Tracks[1].ArtistName)
	}
	wantTempo := []TaxonomyEntry{{ID: 34283, Text: "Medium Tempo"}, {ID: 34291, Text: "Medium Fast"}}
	if !reflect.DeepEqual(a.Tracks[0].Tempo, wantTempo) {
		t.Errorf("expected tempo %+v, got %+v", wantTempo, a.Tracks[0].Tempo)
	}
	if a.Tracks[1].Mood == nil || len(a.Tracks[1].Mood) != 0 {
		t.Errorf("expected empty mood, got %+v", a.Tracks[1].Mood)
	}
}

func TestDecoder_URLResolution(t *testing.T) {
	urls := []typedURL{
		{Type: "COVERART", Value: "a"},
		{Type: "REVIEW", Value: "b"},
		{Type: "COVERART", Value: "ignored"},
	}

	if got := findURL(urls, URLCoverArt); got != "a" {
		t.Errorf("expected cover art a, got %q", got)
	}
	if got := findURL(urls, URLReview); got != "b" {
		t.Errorf("expected review b, got %q", got)
	}
	if got := findURL(urls, URLArtistImage); got != "" {
		t.Errorf("expected no artist image, got %q", got)
	}
}

func TestDecoder_OETFallback(t *testing.T) {
	resp := parseOK(t, `<RESPONSES><RESPONSE STATUS="OK">
		<ALBUM><GN_ID>album-1</GN_ID><ARTIST>Muse</ARTIST></ALBUM>
	</RESPONSE></RESPONSES>`)

	fetched := OET{
		Origin: []TaxonomyEntry{{ID: 1, Text: "Europe"}},
		Era:    []TaxonomyEntry{{ID: 2, Text: "2000's"}},
		Type:   []TaxonomyEntry{{ID: 3, Text: "Male Group"}},
	}
	fetcher := &countingFetcher{oet: fetched}
	d := &decoder{fetchOET: fetcher.fetch}

	albums, err := d.decode(context.Background(), resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(fetcher.ids, []string{"album-1"}) {
		t.Fatalf("expected one OET fetch for album-1, got %v", fetcher.ids)
	}
	a := albums[0]
	if !reflect.DeepEqual(a.ArtistOrigin, fetched.Origin) ||
		!reflect.DeepEqual(a.ArtistEra, fetched.Era) ||
		!reflect.DeepEqual(a.ArtistType, fetched.Type) {
		t.Errorf("expected fetched OET, got origin=%+v era=%+v type=%+v", a.ArtistOrigin, a.ArtistEra, a.ArtistType)
	}
}

func TestDecoder_OETFallbackError(t *testing.T) {
	resp := parseOK(t, `<RESPONSES><RESPONSE STATUS="OK">
		<ALBUM><GN_ID>album-1</GN_ID></ALBUM>
	</RESPONSE></RESPONSES>`)

	fetcher := &countingFetcher{err: &Error{Kind: KindRequestTimeout}}
	d := &decoder{fetchOET: fetcher.fetch}

	albums, err := d.decode(context.Background(), resp)
	if !errors.Is(err, ErrRequestTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if albums != nil {
		t.Errorf("expected no partial result, got %+v", albums)
	}
}

func TestDecoder_TrackOverridesLastWins(t *testing.T) {
	resp := parseOK(t, `<RESPONSES><RESPONSE STATUS="OK">
	<ALBUM>
		<GN_ID>a1</GN_ID>
		<ARTIST>Various</ARTIST>
		<GENRE ID="1">Rock</GENRE>
		<ARTIST_ORIGIN ID="10">North America</ARTIST_ORIGIN>
		<ARTIST_ERA ID="20">1990's</ARTIST_ERA>
		<ARTIST_TYPE ID="30">Mixed Group</ARTIST_TYPE>
		<TRACK>
			<TRACK_NUM>1</TRACK_NUM>
			<GENRE ID="2">Electronica</GENRE>
			<ARTIST_ERA ID="21">2000's</ARTIST_ERA>
		</TRACK>
		<TRACK>
			<TRACK_NUM>2</TRACK_NUM>
			<GENRE ID="3">Jazz</GENRE>
		</TRACK>
		<TRACK>
			<TRACK_NUM>3</TRACK_NUM>
		</TRACK>
	</ALBUM>
	</RESPONSE></RESPONSES>`)

	d := &decoder{fetchOET: (&countingFetcher{}).fetch}
	albums, err := d.decode(context.Background(), resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := albums[0]

	if want := []TaxonomyEntry{{ID: 3, Text: "Jazz"}}; !reflect.DeepEqual(a.Genre, want) {
		t.Errorf("expected last track genre %+v, got %+v", want, a.Genre)
	}
	if want := []TaxonomyEntry{{ID: 21, Text: "2000's"}}; !reflect.DeepEqual(a.ArtistEra, want) {
		t.Errorf("expected era from track 1 %+v, got %+v", want, a.ArtistEra)
	}
	if want := []TaxonomyEntry{{ID: 30, Text: "Mixed Group"}}; !reflect.DeepEqual(a.ArtistType, want) {
		t.Errorf("expected album type %+v, got %+v", want, a.ArtistType)
	}
	if len(a.Tracks) != 3 {
		t.Errorf("expected 3 tracks, got %d", len(a.Tracks))
	}
}

func TestDecodeOETOnly(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		resp := parseOK(t, `<RESPONSES><RESPONSE STATUS="OK"><ALBUM>
			<ARTIST_ORIGIN ID="1">Europe</ARTIST_ORIGIN>
			<ARTIST_ERA ID="2">1970's</ARTIST_ERA>
			<ARTIST_TYPE ID="3">Male</ARTIST_TYPE>
		</ALBUM></RESPONSE></RESPONSES>`)

		oet := decodeOETOnly(resp)
		if len(oet.Origin) != 1 || oet.Origin[0].Text != "Europe" {
			t.Errorf("unexpected origin %+v", oet.Origin)
		}
		if len(oet.Era) != 1 || oet.Era[0].ID != 2 {
			t.Errorf("unexpected era %+v", oet.Era)
		}
		if len(oet.Type) != 1 || oet.Type[0].Text != "Male" {
			t.Errorf("unexpected type %+v", oet.Type)
		}
	})

	t.Run("missing fields are empty", func(t *testing.T) {
		resp := parseOK(t, `<RESPONSES><RESPONSE STATUS="OK"><ALBUM>
			<ARTIST_ERA ID="2">1970's</ARTIST_ERA>
		</ALBUM></RESPONSE></RESPONSES>`)

		oet := decodeOETOnly(resp)
		if oet.Origin == nil || len(oet.Origin) != 0 {
			t.Errorf("expected empty origin, got %+v", oet.Origin)
		}
		if oet.Type == nil || len(oet.Type) != 0 {
			t.Errorf("expected empty type, got %+v", oet.Type)
		}
	})

	t.Run("no album", func(t *testing.T) {
		oet := decodeOETOnly(&response{Status: "OK"})
		if oet.Origin == nil || oet.Era == nil || oet.Type == nil {
			t.Errorf("expected empty slices, got %+v", oet)
		}
	})
}
