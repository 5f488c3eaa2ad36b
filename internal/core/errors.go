package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSaveInFlight is returned when Save is called while a previous save on
// the same session is still outstanding (double-submit guard).
var ErrSaveInFlight = errors.New("a save is already in progress for this entity")

// RowError pinpoints a validation failure to one staged line item so the UI
// can highlight the offending row.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Row+1, e.Message)
}

// ValidationError aggregates row-level failures raised before any network
// call. It is always recoverable by the user editing input.
type ValidationError struct {
	Rows []RowError
}

func (e *ValidationError) Error() string {
	if len(e.Rows) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return strings.Join(msgs, "; ")
}

// TransitionRejected is a status-gate failure. It carries the target status
// and the reason so the UI can render a banner naming both.
type TransitionRejected struct {
	Target Status
	Reason string
}

func (e *TransitionRejected) Error() string {
	if e.Target == "" {
		return e.Reason
	}
	return fmt.Sprintf("cannot move to %q: %s", e.Target, e.Reason)
}

// PersistenceError wraps a failed collaborator call. In granular mode
// Completed counts the item operations that had already succeeded before the
// failure, so the caller knows partial progress was made.
type PersistenceError struct {
	Op        string // "create", "update", "delete", "replace", "fields", "status", "call"
	Completed int
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Completed > 0 {
		return fmt.Sprintf("%s failed after %d operation(s) succeeded: %v", e.Op, e.Completed, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotFoundError reports a missing entity or referenced product server-side.
type NotFoundError struct {
	Kind string
	Ref  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Ref)
}
