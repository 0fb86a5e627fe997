package service

import "errors"

var (
	// ErrEmptyHistory is returned by queries that need at least one saved record.
	ErrEmptyHistory = errors.New("no measurement records yet")

	// ErrInvalidWindow is returned for an unknown history period name. With a
	// correctly wired adapter it should never reach a user.
	ErrInvalidWindow = errors.New("unknown history window")

	// ErrNotAuthorized is the gate outcome for callers outside the access
	// policy. It is an expected result, not a fault; the adapter turns it
	// into a polite refusal.
	ErrNotAuthorized = errors.New("user is not authorized")
)
