// Package result holds the normalized outcome types returned by every network operation.
package result

import (
	"github.com/verrloren/hackathon-evrz/internal/apperr"
)

// Envelope is the {success, response} body every auth endpoint answers with.
// Token is only filled in by login.
type Envelope struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Token    string `json:"token,omitempty"`
}

// OK reports whether the envelope is present, successful, and carries a message.
// A nil envelope (logout transport failure) is not OK.
func (e *Envelope) OK() bool {
	return e != nil && e.Success && e.Response != ""
}

// Outcome is what Register and Login hand back to the UI: either the backend's envelope verbatim,
// or a local error message when no envelope could be obtained.
type Outcome struct {
	Envelope *Envelope
	// Error is the user-facing message when Envelope is nil ("Invalid fields", "Failed to create user").
	Error string
	// Fields is set when validation failed.
	Fields map[string]string
	// Err is the typed cause for callers that branch on apperr kinds.
	Err error
}

// Succeeded reports whether the backend confirmed the action.
func (o Outcome) Succeeded() bool {
	return o.Envelope.OK()
}

// Message returns the text a notifier should show for this outcome.
func (o Outcome) Message() string {
	if o.Envelope != nil {
		return o.Envelope.Response
	}
	return o.Error
}

// Result is a tagged Ok(value) | Err(error) used by the team flows.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a success value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err wraps a failure. A nil err is replaced so that Err never produces an Ok result.
func Err[T any](err error) Result[T] {
	if err == nil {
		err = apperr.Network("unknown failure", nil)
	}
	return Result[T]{err: err}
}

// IsOk reports whether r holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Unwrap returns the value and the error; exactly one is meaningful.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }

// Value returns the value, or the zero value for an Err result.
func (r Result[T]) Value() T { return r.value }

// Error returns the failure, or nil for an Ok result.
func (r Result[T]) Error() error { return r.err }

// Kind returns the apperr kind of the failure, or KindUnknown for an Ok result.
func (r Result[T]) Kind() apperr.Kind {
	if r.err == nil {
		return apperr.KindUnknown
	}
	return apperr.KindOf(r.err)
}
