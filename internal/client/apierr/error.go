package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorRecord is the uniform shape of a classified failure. Code 0 and an
// empty Details mean absent.
type ErrorRecord struct {
	Message string
	Code    int
	Details string
}

// Error is what every client boundary returns on failure.
type Error struct {
	Kind   Kind
	Record ErrorRecord
	Err    error
}

func (e *Error) Error() string {
	if e.Record.Code != 0 {
		return fmt.Sprintf("%s (%d)", e.Record.Message, e.Record.Code)
	}
	return e.Record.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of e's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Network wraps a transport failure.
func Network(err error, context string) *Error {
	return &Error{Kind: KindNetwork, Record: Classify(err, context), Err: err}
}

// Validation builds a client-side validation failure.
func Validation(msg, context string) *Error {
	return &Error{Kind: KindValidation, Record: Classify(msg, context)}
}

// Auth builds an authorization failure that never reached the network.
func Auth(err error, context string) *Error {
	return &Error{Kind: KindAuth, Record: Classify(err, context), Err: err}
}

// FromResponse classifies a non-2xx response. The body is consumed but not closed.
func FromResponse(resp *http.Response, context string) *Error {
	return &Error{Kind: KindForStatus(resp.StatusCode), Record: ClassifyHTTP(resp, context)}
}

// KindOf reports the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
