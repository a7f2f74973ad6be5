package store

import (
	"errors"
	"fmt"
)

// Outcomes every data access call can report. Handlers translate these into
// the response envelope; nothing below this layer reaches the transport raw.
var (
	// ErrInvalidID means the identifier is not a well-formed UUID. It is
	// detected before any query runs.
	ErrInvalidID = errors.New("invalid object id")

	// ErrNotFound means the query ran fine but matched nothing.
	ErrNotFound = errors.New("item not found")
)

// ConflictError reports a uniqueness or state conflict, e.g. registering an
// email that already exists.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// PersistenceError wraps a storage failure (save/find/update/remove/
// aggregate). The underlying driver error stays available via Unwrap.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError reports malformed or missing input, raised either by a
// model hook before persistence or directly by a handler.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// classify keeps model hook validation errors intact and wraps everything
// else as a persistence failure for op.
func classify(op string, err error) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return err
	}
	var cErr *ConflictError
	if errors.As(err, &cErr) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
