// Package apperr defines the error taxonomy shared by the gateway, the team flows, and the backend client.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a failure. Callers branch on the kind, not on the message.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration: backend URL or key missing. Fatal; no network call may be issued.
	KindConfiguration
	// KindValidation: client-side input failed its schema. Carries field-level messages.
	KindValidation
	// KindBackendRejection: the backend answered but refused (non-2xx or success=false).
	KindBackendRejection
	// KindNetwork: transport failure, timeout, or an unparseable body.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindBackendRejection:
		return "backend_rejection"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; any *Error of the same kind matches.
var (
	ErrConfiguration    = &Error{Kind: KindConfiguration, Message: "configuration error"}
	ErrValidation       = &Error{Kind: KindValidation, Message: "validation failure"}
	ErrBackendRejection = &Error{Kind: KindBackendRejection, Message: "backend rejection"}
	ErrNetwork          = &Error{Kind: KindNetwork, Message: "network failure"}
)

// Error is the concrete failure value.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field messages for KindValidation.
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Kind == KindValidation && len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, formatFields(e.Fields))
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports kind equality so errors.Is(err, ErrNetwork) works for any network failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Configuration returns a KindConfiguration error.
func Configuration(msg string) error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

// Validation returns a KindValidation error carrying the given field messages.
func Validation(msg string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Rejection returns a KindBackendRejection error with the server-provided message.
func Rejection(msg string) error {
	return &Error{Kind: KindBackendRejection, Message: msg}
}

// Network wraps a transport or decode failure.
func Network(msg string, cause error) error {
	return &Error{Kind: KindNetwork, Message: msg, Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown when err is not (and does not wrap) an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldsOf returns the field messages of a validation error, or nil.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindValidation {
		return e.Fields
	}
	return nil
}

// MessageOf returns the human-readable message of err without its cause chain.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
