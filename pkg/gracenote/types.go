package gracenote

// MatchMode selects between the single best match and every candidate.
type MatchMode int

const (
	BestMatchOnly MatchMode = iota // Ask for the single best match only
	AllResults                     // Return all candidate matches
)

// String returns a human-readable representation of the MatchMode
func (m MatchMode) String() string {
	switch m {
	case BestMatchOnly:
		return "best"
	case AllResults:
		return "all"
	default:
		return "unknown"
	}
}

// Command is the CMD attribute of a Gracenote QUERY element.
type Command string

const (
	CmdRegister    Command = "REGISTER"
	CmdAlbumSearch Command = "ALBUM_SEARCH"
	CmdAlbumFetch  Command = "ALBUM_FETCH"
	CmdAlbumTOC    Command = "ALBUM_TOC"
)

// URLType is the TYPE attribute of an album URL element.
type URLType string

const (
	URLCoverArt        URLType = "COVERART"
	URLArtistImage     URLType = "ARTIST_IMAGE"
	URLArtistBiography URLType = "ARTIST_BIOGRAPHY"
	URLReview          URLType = "REVIEW"
)

// TaxonomyEntry is one classification level (genre, mood, tempo, origin, era or type).
type TaxonomyEntry struct {
	ID   int    // Gracenote descriptor ID, 0 when missing
	Text string // Display text
}

// Track is a single track of an album as returned by Gracenote.
type Track struct {
	Number     int             // Track number on the album
	ID         string          // Gracenote track identifier
	Title      string          // Track title
	ArtistName string          // Track artist, or the album artist when the track has none
	Mood       []TaxonomyEntry // Mood levels, outer to inner
	Tempo      []TaxonomyEntry // Tempo levels, outer to inner
}

// Album is the normalized metadata for one album in a response.
//
// URL fields are empty when the service returned no URL of that type.
type Album struct {
	ID             string
	ArtistName     string
	Title          string
	Year           string
	Genre          []TaxonomyEntry
	CoverArtURL    string
	ArtistImageURL string
	ArtistBioURL   string
	ReviewURL      string
	ArtistEra      []TaxonomyEntry
	ArtistType     []TaxonomyEntry
	ArtistOrigin   []TaxonomyEntry
	Tracks         []Track
}

// OET holds the artist Origin, Era and Type classifications of an album.
type OET struct {
	Origin []TaxonomyEntry
	Era    []TaxonomyEntry
	Type   []TaxonomyEntry
}
