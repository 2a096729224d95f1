package db

import (
	"context"
	"database/sql"
	"time"
)

// Lookup is a single audit log row.
type Lookup struct {
	ID         int64
	Tag        string
	Source     string
	Found      bool
	LookedUpAt time.Time
}

// AuditStore records and queries asset lookups.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore wraps an initialized database handle.
func NewAuditStore(database *sql.DB) *AuditStore {
	return &AuditStore{db: database}
}

// RecordLookup appends a lookup event to the audit log.
func (s *AuditStore) RecordLookup(ctx context.Context, tag, source string, found bool) error {
	const q = `INSERT INTO lookups (tag, source, found) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, tag, source, found)
	return err
}

// RecentLookups returns the most recent lookup events, newest first.
func (s *AuditStore) RecentLookups(ctx context.Context, limit int64) ([]Lookup, error) {
	const q = `SELECT id, tag, source, found, looked_up_at FROM lookups ORDER BY looked_up_at DESC, id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	items, scanErr := scanLookupRows(rows)
	closeErr := rows.Close()
	if scanErr != nil {
		return nil, scanErr
	}
	if closeErr != nil {
		return nil, closeErr
	}
	return items, nil
}

func scanLookupRows(rows *sql.Rows) ([]Lookup, error) {
	var items []Lookup
	var scanErr error
	for rows.Next() {
		var i Lookup
		if err := rows.Scan(
			&i.ID,
			&i.Tag,
			&i.Source,
			&i.Found,
			&i.LookedUpAt,
		); err != nil {
			scanErr = err
			break
		}
		items = append(items, i)
	}
	if scanErr != nil {
		return nil, scanErr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
