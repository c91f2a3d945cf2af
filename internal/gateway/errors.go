// ABOUTME: Typed errors returned by the API gateway client
// ABOUTME: Lets callers tell session failures from API and transport failures

package gateway

import (
	"errors"
	"time"
)

var (
	// ErrSessionExpired means the stored token was past its exp before sending.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionInvalid means the stored token could not be decoded.
	ErrSessionInvalid = errors.New("invalid session")
	// ErrUnauthorized means the backend answered 401.
	ErrUnauthorized = errors.New("unauthorized")
)

// Reason identifies which authorization check ended the session
type Reason int

const (
	ReasonExpired Reason = iota + 1
	ReasonInvalid
	ReasonUnauthorized
)

// String returns the string representation of a Reason
func (r Reason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonInvalid:
		return "invalid"
	case ReasonUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// SessionError is returned when a request ended the session.
// The session has already been logged out; the caller should navigate to
// the login screen after RedirectAfter.
type SessionError struct {
	Reason        Reason
	Message       string
	RedirectAfter time.Duration
	Err           error
}

func (e *SessionError) Error() string {
	return e.Message
}

func (e *SessionError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *SessionError) sentinel() error {
	switch e.Reason {
	case ReasonExpired:
		return ErrSessionExpired
	case ReasonInvalid:
		return ErrSessionInvalid
	default:
		return ErrUnauthorized
	}
}

// APIError is a non-2xx, non-401 response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError wraps failures that never produced a response
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Outcome classifies the result of a gateway call
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeExpired
	OutcomeInvalid
	OutcomeUnauthorized
	OutcomeFailed
)

// Classify maps any error returned by the gateway to an Outcome
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var se *SessionError
	if !errors.As(err, &se) {
		return OutcomeFailed
	}
	switch se.Reason {
	case ReasonExpired:
		return OutcomeExpired
	case ReasonInvalid:
		return OutcomeInvalid
	default:
		return OutcomeUnauthorized
	}
}

// AsSessionError extracts a SessionError from err
func AsSessionError(err error) (*SessionError, bool) {
	var se *SessionError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// Message returns the human-readable message carried by err: the backend's
// message for API errors, otherwise err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
