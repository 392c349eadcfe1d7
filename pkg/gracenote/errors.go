package gracenote

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a Gracenote failure.
type ErrorKind int

const (
	KindInvalidInput          ErrorKind = iota + 1 // Construction-time validation failure
	KindUnableToParseResponse                      // Response body is not valid XML
	KindAPIResponseError                           // STATUS="ERROR" with a message
	KindAPINoMatch                                 // STATUS="NO_MATCH"
	KindAPINonOKResponse                           // Unrecognized STATUS value
	KindRequestTimeout                             // Transport timed out
	KindResponseErrorCode                          // Server answered with an HTTP error status
	KindResponseError                              // Any other transport failure
)

// String returns a short name for the ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input specified"
	case KindUnableToParseResponse:
		return "unable to parse response"
	case KindAPIResponseError:
		return "api response error"
	case KindAPINoMatch:
		return "no match"
	case KindAPINonOKResponse:
		return "non-ok api response"
	case KindRequestTimeout:
		return "request timed out"
	case KindResponseErrorCode:
		return "http error status"
	case KindResponseError:
		return "http request failed"
	default:
		return "unknown error"
	}
}

// Error represents a classified Gracenote failure.
//
// Only the fields relevant to Kind are set: Field for invalid input,
// Message for API errors, Status for non-OK responses and Code for
// transport failures. Use errors.Is with the Err* sentinels to match
// on Kind, and errors.As to read the structured fields.
type Error struct {
	Kind    ErrorKind
	Field   string // Offending configuration field
	Message string // Message from the service
	Status  string // Raw STATUS attribute
	Code    int    // HTTP status or transport code
	Err     error  // Underlying cause, if any
}

// Error returns the error message.
func (e *Error) Error() string {
	msg := "gracenote: " + e.Kind.String()
	switch e.Kind {
	case KindInvalidInput:
		msg += ": " + e.Field
	case KindAPIResponseError:
		msg += ": " + e.Message
	case KindAPINonOKResponse:
		msg += fmt.Sprintf(": status %q", e.Status)
	case KindResponseErrorCode, KindResponseError:
		if e.Code != 0 {
			msg += fmt.Sprintf(": code %d", e.Code)
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a Gracenote error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is matching.
var (
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrUnableToParseResponse = &Error{Kind: KindUnableToParseResponse}
	ErrAPIResponse           = &Error{Kind: KindAPIResponseError}
	ErrNoMatch               = &Error{Kind: KindAPINoMatch}
	ErrNonOKResponse         = &Error{Kind: KindAPINonOKResponse}
	ErrRequestTimeout        = &Error{Kind: KindRequestTimeout}
	ErrResponseStatusCode    = &Error{Kind: KindResponseErrorCode}
	ErrResponse              = &Error{Kind: KindResponseError}

	// ErrNoUserID is returned when an authenticated query is built
	// before a user ID has been registered or supplied.
	ErrNoUserID = errors.New("gracenote: user ID required")
)

// isNoMatch reports whether err is the NO_MATCH outcome.
func isNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}
