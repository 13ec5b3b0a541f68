// package models defines the data model for the Clever schedule web app
package models

import (
	"fmt"

	"github.com/desertthunder/cleverdemo/internal/shared"
)

// SessionKey is the cookie session key holding the student identifier.
const SessionKey = "clever_id"

// Session is the per-client authentication state.
//
// A zero Session is anonymous.
type Session struct {
	StudentID string
}

// Authenticated reports whether a student identifier is present.
func (s Session) Authenticated() bool {
	return s.StudentID != ""
}

// Result is the outcome of one outbound call: either a Value or an Err.
type Result[T any] struct {
	Value T
	Err   error
}

// Success wraps v in a successful [Result].
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failure wraps err in a failed [Result].
func Failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Ok reports whether the call succeeded.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Or returns the value on success and fallback otherwise.
func (r Result[T]) Or(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}

// Unwrap returns the value and error as a pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err
}

// DecodeError reports a payload that is not shaped the way Clever documents it.
type DecodeError struct {
	Payload string // e.g. "token", "me", "student", "sections"
	Field   string // JSON path of the offending field, empty when the body itself is unreadable
	Err     error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode %s", e.Payload)
	if e.Field != "" {
		msg += ": field " + e.Field
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap allows errors.Is(err, shared.ErrDecode) and access to the cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrDecode}
	}
	return []error{shared.ErrDecode, e.Err}
}

// missing builds a DecodeError for an absent field.
func missing(payload, field string) *DecodeError {
	return &DecodeError{Payload: payload, Field: field, Err: fmt.Errorf("missing")}
}
