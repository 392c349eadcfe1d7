package gracenote

import (
	"errors"
)

// Response STATUS values.
const (
	statusOK      = "OK"
	statusError   = "ERROR"
	statusNoMatch = "NO_MATCH"
)

// classifyTransportError maps a transport failure onto the error taxonomy.
func classifyTransportError(err error) error {
	var te *TransportError
	if !errors.As(err, &te) {
		return &Error{Kind: KindResponseError, Err: err}
	}

	switch te.Cause {
	case CauseTimeout:
		return &Error{Kind: KindRequestTimeout, Err: te}
	case CauseNotFound:
		return &Error{Kind: KindResponseErrorCode, Code: te.Code, Err: te}
	default:
		return &Error{Kind: KindResponseError, Code: te.Code, Err: te}
	}
}

// checkResponse parses raw and fails unless the top-level status is OK.
func checkResponse(raw []byte) (*response, error) {
	resp, rootMessage, err := parseDocument(raw)
	if err != nil {
		return nil, &Error{Kind: KindUnableToParseResponse, Err: err}
	}

	switch resp.Status {
	case statusOK:
		return resp, nil
	case statusError:
		msg := ""
		if resp.Message != nil {
			msg = *resp.Message
		} else if rootMessage != nil {
			msg = *rootMessage
		}
		return nil, &Error{Kind: KindAPIResponseError, Message: msg}
	case statusNoMatch:
		return nil, &Error{Kind: KindAPINoMatch}
	default:
		return nil, &Error{Kind: KindAPINonOKResponse, Status: resp.Status}
	}
}
