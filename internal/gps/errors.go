package gps

import "fmt"

// ValidationError rejects a malformed report before any state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError reports a failed durable append. The in-memory session
// and the live broadcast have already progressed when it is returned.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist report: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
