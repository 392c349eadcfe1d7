package gracenote

import (
	"encoding/xml"
	"fmt"
)

// queries is the root element of every request.
type queries struct {
	XMLName xml.Name `xml:"QUERIES"`
	Auth    *auth    `xml:"AUTH,omitempty"`
	Query   query    `xml:"QUERY"`
}

type auth struct {
	Client string `xml:"CLIENT"`
	User   string `xml:"USER"`
}

// query is a single QUERY element. Field order is the element order on the wire.
type query struct {
	Cmd     Command    `xml:"CMD,attr,omitempty"`
	Client  string     `xml:"CLIENT,omitempty"`
	Mode    string     `xml:"MODE,omitempty"`
	GNID    *string    `xml:"GN_ID,omitempty"`
	Text    []textTerm `xml:"TEXT"`
	TOC     *toc       `xml:"TOC,omitempty"`
	Options []option   `xml:"OPTION"`
}

type textTerm struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

type toc struct {
	Offsets string `xml:"OFFSETS"`
}

type option struct {
	Parameter string `xml:"PARAMETER"`
	Value     string `xml:"VALUE"`
}

const singleBestMode = "SINGLE_BEST_COVER"

// Text search types, in the priority order the service expects them.
const (
	textArtist     = "ARTIST"
	textTrackTitle = "TRACK_TITLE"
	textAlbumTitle = "ALBUM_TITLE"
)

var (
	extendedOption = option{
		Parameter: "SELECT_EXTENDED",
		Value:     "COVER,REVIEW,ARTIST_BIOGRAPHY,ARTIST_IMAGE,ARTIST_OET,MOOD,TEMPO",
	}
	detailOption = option{
		Parameter: "SELECT_DETAIL",
		Value:     "GENRE:3LEVEL,MOOD:2LEVEL,TEMPO:3LEVEL,ARTIST_ORIGIN:4LEVEL,ARTIST_ERA:2LEVEL,ARTIST_TYPE:2LEVEL",
	}
	coverSizeOption = option{
		Parameter: "COVER_SIZE",
		Value:     "MEDIUM",
	}

	oetExtendedOption = option{
		Parameter: "SELECT_EXTENDED",
		Value:     "ARTIST_OET",
	}
	oetDetailOption = option{
		Parameter: "SELECT_DETAIL",
		Value:     "ARTIST_ORIGIN:4LEVEL,ARTIST_ERA:2LEVEL,ARTIST_TYPE:2LEVEL",
	}
)

// buildQueryBody constructs the body of a search or fetch query.
//
// A fetch carries only the identifier. A search carries the optional
// single-best directive followed by one TEXT element per non-empty field,
// always in artist, track, album order. Both get the full option set.
func buildQueryBody(artist, album, track, gnID string, cmd Command, mode MatchMode) query {
	var q query

	if cmd == CmdAlbumFetch {
		q.GNID = &gnID
	} else {
		if mode == BestMatchOnly {
			q.Mode = singleBestMode
		}
		if artist != "" {
			q.Text = append(q.Text, textTerm{Type: textArtist, Value: artist})
		}
		if track != "" {
			q.Text = append(q.Text, textTerm{Type: textTrackTitle, Value: track})
		}
		if album != "" {
			q.Text = append(q.Text, textTerm{Type: textAlbumTitle, Value: album})
		}
	}

	q.Options = []option{extendedOption, detailOption, coverSizeOption}
	return q
}

// buildTOCBody constructs the body of a table-of-contents lookup.
func buildTOCBody(offsets string) query {
	return query{TOC: &toc{Offsets: offsets}}
}

// buildOETOnlyBody constructs a fetch body that requests only artist
// origin, era and type.
func buildOETOnlyBody(gnID string) query {
	return query{
		GNID:    &gnID,
		Options: []option{oetExtendedOption, oetDetailOption},
	}
}

// buildRegisterRequest constructs the unauthenticated REGISTER request.
func buildRegisterRequest(client string) queries {
	return queries{
		Query: query{Cmd: CmdRegister, Client: client},
	}
}

// wrapWithAuth wraps a query body with the AUTH block and command.
func wrapWithAuth(body query, clientID, clientTag, userID string, cmd Command) (queries, error) {
	if userID == "" {
		return queries{}, ErrNoUserID
	}
	body.Cmd = cmd
	return queries{
		Auth: &auth{
			Client: clientID + "-" + clientTag,
			User:   userID,
		},
		Query: body,
	}, nil
}

// encodeRequest renders a request document.
func encodeRequest(q queries) ([]byte, error) {
	data, err := xml.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("gracenote: failed to encode request: %w", err)
	}
	return data, nil
}
