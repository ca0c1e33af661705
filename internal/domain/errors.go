package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a token or id does not resolve to a live row.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation is returned for structurally disallowed actions,
	// e.g. removing the organizer or submitting a malformed reply.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrDispatchFailed is returned when a notification could not be sent.
	// The underlying event/guest rows are always committed before dispatch,
	// so this error never implies lost state.
	ErrDispatchFailed = errors.New("dispatch failed")
)
