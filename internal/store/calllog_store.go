package store

import (
	"context"
	"fmt"

	"orderdesk/internal/core"
)

// InsertCallLog appends one immutable call log entry. Existing rows are never
// touched.
func (s *Store) InsertCallLog(ctx context.Context, kind core.EntityKind, entityID int, outcome core.CallOutcome, notes string) (core.CallLogEntry, error) {
	var e core.CallLogEntry
	err := s.pool.QueryRow(ctx, `
		INSERT INTO call_logs (entity_kind, entity_id, outcome, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, entity_kind, entity_id, outcome, notes, created_at
	`, kind, entityID, outcome, notes).Scan(
		&e.ID, &e.Kind, &e.EntityID, &e.Outcome, &e.Notes, &e.CreatedAt,
	)
	if err != nil {
		return core.CallLogEntry{}, fmt.Errorf("failed to insert call log: %w", err)
	}
	return e, nil
}

// ListCallLogs returns the entity's call log, most recent first. An unknown
// entity yields an empty list, not an error.
func (s *Store) ListCallLogs(ctx context.Context, kind core.EntityKind, entityID int) ([]core.CallLogEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, entity_kind, entity_id, outcome, notes, created_at
		FROM call_logs
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
	`, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query call logs: %w", err)
	}
	defer rows.Close()

	var entries []core.CallLogEntry
	for rows.Next() {
		var e core.CallLogEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.EntityID, &e.Outcome, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan call log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
