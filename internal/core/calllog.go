package core

import (
	"context"
	"fmt"
	"strings"
)

// CallLogStore persists append-only call log entries. ListCallLogs returns
// the most recent entry first and an empty list (not an error) when the
// entity has no calls or does not exist.
type CallLogStore interface {
	InsertCallLog(ctx context.Context, kind EntityKind, entityID int, outcome CallOutcome, notes string) (CallLogEntry, error)
	ListCallLogs(ctx context.Context, kind EntityKind, entityID int) ([]CallLogEntry, error)
}

// CallRecorder appends immutable call outcomes to an order or lead. Recording
// a call is independent of item and status saves: it may be submitted
// together with them but is never merged into them, and a failed call write
// rolls back nothing else.
type CallRecorder struct {
	store CallLogStore
}

func NewCallRecorder(store CallLogStore) *CallRecorder {
	return &CallRecorder{store: store}
}

// LogCall validates the outcome against the fixed taxonomy and appends one
// entry.
func (r *CallRecorder) LogCall(ctx context.Context, kind EntityKind, entityID int, outcome CallOutcome, notes string) (CallLogEntry, error) {
	if !outcome.Valid() {
		return CallLogEntry{}, &ValidationError{Rows: []RowError{{
			Row: -1, Field: "outcome", Message: fmt.Sprintf("unknown call outcome %q", outcome),
		}}}
	}
	entry, err := r.store.InsertCallLog(ctx, kind, entityID, outcome, strings.TrimSpace(notes))
	if err != nil {
		return CallLogEntry{}, &PersistenceError{Op: "call", Err: err}
	}
	return entry, nil
}

// History returns the entity's call log, most recent first.
func (r *CallRecorder) History(ctx context.Context, kind EntityKind, entityID int) ([]CallLogEntry, error) {
	return r.store.ListCallLogs(ctx, kind, entityID)
}
