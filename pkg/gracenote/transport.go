package gracenote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Transport performs a single blocking POST to the Gracenote API.
//
// Implementations must return a *TransportError for any failure so the
// client can classify it. The default implementation is HTTPTransport.
type Transport interface {
	Post(ctx context.Context, url string, body []byte, timeout time.Duration) ([]byte, error)
}

// TransportCause is the coarse reason a transport call failed.
type TransportCause int

const (
	CauseTimeout  TransportCause = iota + 1 // Deadline exceeded
	CauseNotFound                           // Server answered with an HTTP error status
	CauseOther                              // Connection failure or unexpected status
)

// String returns a human-readable representation of the TransportCause
func (c TransportCause) String() string {
	switch c {
	case CauseTimeout:
		return "timeout"
	case CauseNotFound:
		return "not found"
	case CauseOther:
		return "other"
	default:
		return "unknown"
	}
}

// TransportError describes a failed transport call.
type TransportError struct {
	Cause TransportCause
	Code  int   // HTTP status for CauseNotFound and unexpected statuses, 0 otherwise
	Err   error // Underlying error, if any
}

// Error returns the error message.
func (e *TransportError) Error() string {
	msg := "transport: " + e.Cause.String()
	if e.Code != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

const (
	// DefaultTimeout is applied when Config.Timeout is zero.
	DefaultTimeout = 10 * time.Second

	userAgent = "gnlookup"
)

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport on top of httpClient.
// A nil httpClient uses http.DefaultClient, which follows redirects.
func NewHTTPTransport(httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTransport{client: httpClient}
}

// Post sends body to url and returns the raw response body.
//
// Any HTTP status of 400 or above is reported as CauseNotFound with the
// status in Code. A timeout of zero or less leaves the deadline to ctx.
func (t *HTTPTransport) Post(ctx context.Context, url string, body []byte, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Cause: CauseOther, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, transportFailure(err)
	}
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, transportFailure(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &TransportError{Cause: CauseNotFound, Code: resp.StatusCode}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &TransportError{Cause: CauseOther, Code: resp.StatusCode}
	}

	return data, nil
}

// transportFailure wraps a client or body-read error with its cause.
func transportFailure(err error) *TransportError {
	if isTimeout(err) {
		return &TransportError{Cause: CauseTimeout, Err: err}
	}
	return &TransportError{Cause: CauseOther, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
