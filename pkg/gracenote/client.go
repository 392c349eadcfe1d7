package gracenote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config holds client configuration.
type Config struct {
	ClientID   string        // Required: Gracenote client ID
	ClientTag  string        // Required: Gracenote client tag
	UserID     string        // Optional: previously registered user ID
	Debug      bool          // Optional: log every outgoing request through Logger
	Timeout    time.Duration // Optional: per-request timeout (defaults to DefaultTimeout)
	BaseURL    string        // Optional: API endpoint (defaults to the client's cddbp.net host, used for testing)
	HTTPClient *http.Client  // Optional: HTTP client for the default transport
	Transport  Transport     // Optional: replaces the default HTTP transport
	Logger     Logger        // Optional: Logger interface for debug and warning output
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
	// Warnf logs a warning message with format and arguments.
	Warnf(format string, args ...interface{})
}

// Client is the main entry point for Gracenote Web API operations.
//
// A Client is not safe for concurrent use: the user ID is set lazily by
// the first query. Use one Client per goroutine.
type Client struct {
	clientID  string
	clientTag string
	userID    string
	apiURL    string
	timeout   time.Duration
	debug     bool
	transport Transport
	logger    Logger
	decoder   *decoder
}

const apiURLFormat = "https://%s.web.cddbp.net/webapi/xml/1.0/"

// NewClient creates a new Gracenote API client.
//
// Returns an error of kind KindInvalidInput if ClientID or ClientTag is
// empty. No network call is made.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, &Error{Kind: KindInvalidInput, Field: "clientID"}
	}
	if cfg.ClientTag == "" {
		return nil, &Error{Kind: KindInvalidInput, Field: "clientTag"}
	}

	apiURL := cfg.BaseURL
	if apiURL == "" {
		apiURL = fmt.Sprintf(apiURLFormat, cfg.ClientID)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPTransport(cfg.HTTPClient)
	}

	c := &Client{
		clientID:  cfg.ClientID,
		clientTag: cfg.ClientTag,
		userID:    cfg.UserID,
		apiURL:    apiURL,
		timeout:   timeout,
		debug:     cfg.Debug,
		transport: transport,
		logger:    cfg.Logger,
	}
	c.decoder = &decoder{fetchOET: c.fetchOET}

	return c, nil
}

// UserID returns the current user ID, or "" if none is held yet.
func (c *Client) UserID() string {
	return c.userID
}

// Register obtains a user ID for this client.
//
// A non-empty userID is adopted as-is without a network call. Otherwise a
// held user ID is returned unchanged, and only a client without one sends
// a REGISTER query. The returned ID should be stored by the caller and
// passed back in later sessions; every registration counts against the
// client's user limit.
func (c *Client) Register(ctx context.Context, userID string) (string, error) {
	if userID != "" {
		c.userID = userID
		return c.userID, nil
	}

	if c.userID != "" {
		c.logWarnf("gracenote: already registered, reusing user ID %s", c.userID)
		return c.userID, nil
	}

	resp, err := c.do(ctx, buildRegisterRequest(c.clientCredential()), CmdRegister)
	if err != nil {
		return "", err
	}
	if resp.User == "" {
		return "", &Error{Kind: KindUnableToParseResponse, Err: errors.New("register response has no USER element")}
	}

	c.userID = resp.User
	return c.userID, nil
}

// SearchTrack searches for albums by artist name, album title and track
// title. Empty fields are left out of the query.
//
// A query without matches returns an empty slice and no error.
func (c *Client) SearchTrack(ctx context.Context, artistName, albumTitle, trackTitle string, mode MatchMode) ([]Album, error) {
	body := buildQueryBody(artistName, albumTitle, trackTitle, "", CmdAlbumSearch, mode)
	return c.execute(ctx, body, CmdAlbumSearch)
}

// SearchArtist searches for albums by artist name.
func (c *Client) SearchArtist(ctx context.Context, artistName string, mode MatchMode) ([]Album, error) {
	return c.SearchTrack(ctx, artistName, "", "", mode)
}

// SearchAlbum searches for albums by artist name and album title.
func (c *Client) SearchAlbum(ctx context.Context, artistName, albumTitle string, mode MatchMode) ([]Album, error) {
	return c.SearchTrack(ctx, artistName, albumTitle, "", mode)
}

// FetchAlbum looks up an album directly by its Gracenote identifier,
// including all GOET data.
func (c *Client) FetchAlbum(ctx context.Context, gnID string) ([]Album, error) {
	body := buildQueryBody("", "", "", gnID, CmdAlbumFetch, AllResults)
	return c.execute(ctx, body, CmdAlbumFetch)
}

// FetchOETData retrieves only the artist origin, era and type of an album.
func (c *Client) FetchOETData(ctx context.Context, gnID string) (OET, error) {
	if err := c.ensureRegistered(ctx); err != nil {
		return OET{}, err
	}
	return c.fetchOET(ctx, gnID)
}

// AlbumTOC looks up an album by its disc table of contents, given as a
// space-separated list of frame offsets.
func (c *Client) AlbumTOC(ctx context.Context, offsets string) ([]Album, error) {
	return c.execute(ctx, buildTOCBody(offsets), CmdAlbumTOC)
}

// execute registers if needed, sends an authenticated query and decodes
// the albums in the response. NO_MATCH becomes an empty result.
func (c *Client) execute(ctx context.Context, body query, cmd Command) ([]Album, error) {
	if err := c.ensureRegistered(ctx); err != nil {
		return nil, err
	}

	req, err := wrapWithAuth(body, c.clientID, c.clientTag, c.userID, cmd)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, req, cmd)
	if err != nil {
		if isNoMatch(err) {
			c.logDebugf("gracenote: %s returned no match", cmd)
			return []Album{}, nil
		}
		return nil, err
	}

	return c.decoder.decode(ctx, resp)
}

// fetchOET sends an OET-only fetch. It also backs the decoder's fallback
// for albums without an inline ARTIST_ORIGIN block.
func (c *Client) fetchOET(ctx context.Context, gnID string) (OET, error) {
	req, err := wrapWithAuth(buildOETOnlyBody(gnID), c.clientID, c.clientTag, c.userID, CmdAlbumFetch)
	if err != nil {
		return OET{}, err
	}

	resp, err := c.do(ctx, req, CmdAlbumFetch)
	if err != nil {
		if isNoMatch(err) {
			return emptyOET(), nil
		}
		return OET{}, err
	}

	return decodeOETOnly(resp), nil
}

// do encodes and sends a request, classifying transport and status failures.
func (c *Client) do(ctx context.Context, req queries, cmd Command) (*response, error) {
	body, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}

	c.logDebugf("http: external request POST url=%s, timeout=%d, cmd=%s", c.apiURL, c.timeout.Milliseconds(), cmd)

	raw, err := c.transport.Post(ctx, c.apiURL, body, c.timeout)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	return checkResponse(raw)
}

func (c *Client) ensureRegistered(ctx context.Context) error {
	if c.userID != "" {
		return nil
	}
	_, err := c.Register(ctx, "")
	return err
}

func (c *Client) clientCredential() string {
	return c.clientID + "-" + c.clientTag
}

// logDebugf logs a debug message if debug output is enabled.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.debug && c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

// logWarnf logs a warning if a logger is configured.
func (c *Client) logWarnf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warnf(format, args...)
	}
}
