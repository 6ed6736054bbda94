package lifecycle

import "errors"

var (
	// ErrInvalidInput is returned before any state change when a command's
	// arguments are unusable.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for an appliance or alert id that is not
	// (or no longer) present.
	ErrNotFound = errors.New("not found")
	// ErrPersistence wraps a store failure. The in-memory transition has
	// already happened and the returned value is valid.
	ErrPersistence = errors.New("persistence failure")
	// ErrClosed is returned by every command after Close.
	ErrClosed = errors.New("manager closed")
)
