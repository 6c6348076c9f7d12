package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "fnsgate/pkg/platform/audit"
)

// Store implements audit.Store on PostgreSQL. One row per event; duplicate
// inserts are ignored so replays from the worker stay idempotent.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes an audit event to the audit_events table.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query := `
		INSERT INTO audit_events (
			id, timestamp, action, subject_hash, decision, reason, request_id, cache_hit
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		ts,
		string(event.Action),
		event.SubjectHash,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.CacheHit,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Migrate creates the audit_events table if it does not exist. Kept here
// instead of a migration tool because this is the only table the service owns.
func Migrate(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS audit_events (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			action TEXT NOT NULL,
			subject_hash TEXT NOT NULL,
			decision TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			request_id TEXT NOT NULL DEFAULT '',
			cache_hit BOOLEAN NOT NULL DEFAULT FALSE
		)
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create audit_events table: %w", err)
	}
	return nil
}
