package services

import (
	"fmt"

	"github.com/desertthunder/cleverdemo/internal/shared"
)

// Stages of the OAuth exchange reported by [AuthError].
const (
	StageToken    = "token"
	StageIdentity = "identity"
)

// AuthError reports a failed authorization-code exchange.
//
// Body holds the raw response body of the failing call, shown to the user as the diagnostic.
type AuthError struct {
	Stage      string
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("%v at %s", shared.ErrAuthFailed, e.Stage)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrAuthFailed}
	}
	return []error{shared.ErrAuthFailed, e.Err}
}

// Diagnostic returns the text shown on the error page.
func (e *AuthError) Diagnostic() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return shared.ErrAuthFailed.Error()
}

// APIError reports a non-2xx response from the data API.
//
// Kind is one of the shared fetch sentinels, e.g. [shared.ErrProfileFetch].
type APIError struct {
	Kind       error
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: GET %s returned %d: %s", e.Kind, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() []error {
	return []error{e.Kind, shared.ErrAPIRequest}
}
