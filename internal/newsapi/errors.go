package newsapi

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a request to the news API did not produce articles.
type ErrorKind int

const (
	// KindInvalidRequest means the request could not be built from its parameters.
	KindInvalidRequest ErrorKind = iota
	// KindInvalidResponse means the transport failed before a response arrived.
	KindInvalidResponse
	// KindDecode means the body did not match the expected envelope.
	KindDecode
	// KindInvalidData means the body was empty or the envelope reported an error status.
	KindInvalidData
	// KindHTTPStatus means the server answered with a non-2xx status.
	KindHTTPStatus
	// KindWrapped carries any other cause, such as context cancellation.
	KindWrapped
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid request"
	case KindInvalidResponse:
		return "invalid response"
	case KindDecode:
		return "decoding error"
	case KindInvalidData:
		return "invalid data"
	case KindHTTPStatus:
		return "http status"
	case KindWrapped:
		return "wrapped error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FetchError is returned by every Client method on failure.
type FetchError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	// Code and Message come from the API's error envelope when it sent one.
	Code    string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Kind == KindHTTPStatus {
		msg = fmt.Sprintf("%s: request failed with status code %d", e.Op, e.StatusCode)
	}
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf reports the ErrorKind of err, or false when err is not a FetchError.
func KindOf(err error) (ErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}
