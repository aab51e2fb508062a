package errors

import (
	"errors"
	"fmt"
)

// Kind classifies every error the portal can surface to a user.
type Kind string

const (
	KindPermissionDenied      Kind = "permission_denied"
	KindInvalidAction         Kind = "invalid_action"
	KindValidation            Kind = "validation_error"
	KindStaleState            Kind = "stale_state"
	KindNetwork               Kind = "network_error"
	KindUnreachableTransition Kind = "unreachable_transition"
	KindUnknownStatus         Kind = "unknown_status"
	KindNotFound              Kind = "not_found"
	KindUnauthenticated       Kind = "unauthenticated"
	KindUpstream              Kind = "upstream_error"
)

// Sentinels for errors.Is matching; any *Error of the same Kind matches.
var (
	ErrPermissionDenied      = &Error{Kind: KindPermissionDenied, Message: "you are not allowed to perform this action"}
	ErrInvalidAction         = &Error{Kind: KindInvalidAction, Message: "this action is not available for the request's current status"}
	ErrValidation            = &Error{Kind: KindValidation, Message: "the submitted data is invalid"}
	ErrStaleState            = &Error{Kind: KindStaleState, Message: "the request changed since it was loaded; it has been refreshed"}
	ErrNetwork               = &Error{Kind: KindNetwork, Message: "could not reach the exeat service, please retry"}
	ErrUnreachableTransition = &Error{Kind: KindUnreachableTransition, Message: "workflow table has no transition for this action"}
	ErrUnknownStatus         = &Error{Kind: KindUnknownStatus, Message: "unknown exeat status"}
	ErrNotFound              = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrUnauthenticated       = &Error{Kind: KindUnauthenticated, Message: "authentication required"}
	ErrUpstream              = &Error{Kind: KindUpstream, Message: "the exeat service could not complete the request"}
)

// ErrOptimisticLock is returned when a versioned row changed underneath an update.
var ErrOptimisticLock = New(KindStaleState, "record was modified by another operation, reload and try again")

// Error is a classified error carrying a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field messages reported by the exeat API, if any.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so that wrapped errors match the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies err under kind, keeping it as the cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithFields returns a copy of e carrying per-field messages.
func (e *Error) WithFields(fields map[string][]string) *Error {
	c := *e
	c.Fields = fields
	return &c
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the user-facing message of err, falling back to fallback.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
