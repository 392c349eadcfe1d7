package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jfmyers9/gnlookup/internal/store"
	"github.com/jfmyers9/gnlookup/pkg/gracenote"
	"github.com/rs/zerolog"
)

// ErrEmptyQuery is returned by Search when no search field is set
var ErrEmptyQuery = errors.New("at least one of artist, album or track is required")

// Options configures a Service
type Options struct {
	Gracenote gracenote.Config
	Store     *store.Store // Optional: persists user IDs and lookup history
	Logger    zerolog.Logger
}

// Query holds the text fields of an album search
type Query struct {
	Artist string
	Album  string
	Track  string
}

// String renders the non-empty fields, e.g. "artist=Muse album=Absolution"
func (q Query) String() string {
	var parts []string
	if q.Artist != "" {
		parts = append(parts, "artist="+q.Artist)
	}
	if q.Album != "" {
		parts = append(parts, "album="+q.Album)
	}
	if q.Track != "" {
		parts = append(parts, "track="+q.Track)
	}
	return strings.Join(parts, " ")
}

// Service wraps the Gracenote client with user ID persistence and lookup history
type Service struct {
	client   *gracenote.Client
	store    *store.Store
	clientID string
	savedID  string
	logger   zerolog.Logger
}

// New creates a Service
// When a store is given and no user ID is configured, the stored user ID for
// the client ID is reused so the service does not register again.
func New(ctx context.Context, opts Options) (*Service, error) {
	cfg := opts.Gracenote

	var savedID string
	if opts.Store != nil && cfg.ClientID != "" {
		id, err := opts.Store.UserID(ctx, cfg.ClientID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user id: %w", err)
		}
		savedID = id
		if cfg.UserID == "" {
			cfg.UserID = id
		}
	}

	client, err := gracenote.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gracenote client: %w", err)
	}

	return &Service{
		client:   client,
		store:    opts.Store,
		clientID: cfg.ClientID,
		savedID:  savedID,
		logger:   opts.Logger.With().Str("component", "lookup").Logger(),
	}, nil
}

// UserID returns the user ID currently held by the client
func (s *Service) UserID() string {
	return s.client.UserID()
}

// Register adopts userID, or registers with Gracenote when it is empty and
// no user ID is held yet. The resulting ID is persisted.
func (s *Service) Register(ctx context.Context, userID string) (string, error) {
	id, err := s.client.Register(ctx, userID)
	s.finish(ctx, gracenote.CmdRegister, "", 0, err)
	if err != nil {
		return "", fmt.Errorf("failed to register: %w", err)
	}
	return id, nil
}

// Search runs an album search
// The most specific SDK operation for the set fields is used.
func (s *Service) Search(ctx context.Context, q Query, mode gracenote.MatchMode) ([]gracenote.Album, error) {
	var (
		albums []gracenote.Album
		err    error
	)

	switch {
	case q.Track != "":
		albums, err = s.client.SearchTrack(ctx, q.Artist, q.Album, q.Track, mode)
	case q.Album != "":
		albums, err = s.client.SearchAlbum(ctx, q.Artist, q.Album, mode)
	case q.Artist != "":
		albums, err = s.client.SearchArtist(ctx, q.Artist, mode)
	default:
		return nil, ErrEmptyQuery
	}

	s.finish(ctx, gracenote.CmdAlbumSearch, q.String(), len(albums), err)
	if err != nil {
		return nil, fmt.Errorf("failed to search albums: %w", err)
	}
	return albums, nil
}

// Fetch looks up an album by Gracenote ID
func (s *Service) Fetch(ctx context.Context, gnID string) ([]gracenote.Album, error) {
	albums, err := s.client.FetchAlbum(ctx, gnID)
	s.finish(ctx, gracenote.CmdAlbumFetch, "gn_id="+gnID, len(albums), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch album: %w", err)
	}
	return albums, nil
}

// OET retrieves only the artist origin, era and type for an album
func (s *Service) OET(ctx context.Context, gnID string) (gracenote.OET, error) {
	oet, err := s.client.FetchOETData(ctx, gnID)

	results := 0
	if err == nil && (len(oet.Origin) > 0 || len(oet.Era) > 0 || len(oet.Type) > 0) {
		results = 1
	}
	s.finish(ctx, gracenote.CmdAlbumFetch, "oet gn_id="+gnID, results, err)
	if err != nil {
		return gracenote.OET{}, fmt.Errorf("failed to fetch oet data: %w", err)
	}
	return oet, nil
}

// TOC looks up an album by its disc table of contents
func (s *Service) TOC(ctx context.Context, offsets string) ([]gracenote.Album, error) {
	albums, err := s.client.AlbumTOC(ctx, offsets)
	s.finish(ctx, gracenote.CmdAlbumTOC, "toc="+offsets, len(albums), err)
	if err != nil {
		return nil, fmt.Errorf("failed to look up toc: %w", err)
	}
	return albums, nil
}

// History returns recorded lookups, newest first
func (s *Service) History(ctx context.Context, limit int) ([]store.Lookup, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.RecentLookups(ctx, limit)
}

// Prune removes history older than maxAge
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if s.store == nil {
		return 0, nil
	}
	return s.store.Prune(ctx, maxAge)
}

// finish persists a newly issued user ID and records the lookup
// Store failures are logged and not returned.
func (s *Service) finish(ctx context.Context, cmd gracenote.Command, query string, results int, lookupErr error) {
	if s.store == nil {
		return
	}

	if id := s.client.UserID(); id != "" && id != s.savedID {
		if err := s.store.SaveUserID(ctx, s.clientID, id); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to persist user id")
		} else {
			s.savedID = id
			s.logger.Info().Str("user_id", id).Msg("Stored gracenote user id")
		}
	}

	l := store.Lookup{
		Command: string(cmd),
		Query:   query,
		Results: results,
	}
	if lookupErr != nil {
		l.Error = lookupErr.Error()
	}

	id, err := s.store.RecordLookup(ctx, l)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record lookup")
		return
	}

	s.logger.Debug().
		Str("id", id).
		Str("command", l.Command).
		Int("results", results).
		Msg("Recorded lookup")
}
