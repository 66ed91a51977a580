package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"basekit/internal/devserver/storage"
	pkgapi "basekit/pkg/api"
)

var _ storage.ChangeStorage = (*Storage)(nil)

// AppendChange records one change on the feed
func (s *Storage) AppendChange(ctx context.Context, change *pkgapi.Change) error {
	query := `
		INSERT INTO profile_changes (table_name, event_type, row_id, user_id, record, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var record any
	if len(change.Record) > 0 {
		record = string(change.Record)
	}

	_, err := s.db.ExecContext(ctx, query,
		change.Table,
		change.EventType,
		change.RowID,
		change.UserID,
		record,
		change.OccurredAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append change: %w", err)
	}

	return nil
}

// ChangesSince returns the changes on table for userID past the since
// cursor, oldest first
func (s *Storage) ChangesSince(ctx context.Context, table, userID string, since int64) ([]pkgapi.Change, error) {
	query := `
		SELECT cursor, table_name, event_type, row_id, user_id, record, occurred_at
		FROM profile_changes
		WHERE table_name = ? AND user_id = ? AND cursor > ?
		ORDER BY cursor ASC
	`

	rows, err := s.db.QueryContext(ctx, query, table, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var changes []pkgapi.Change

	for rows.Next() {
		var change pkgapi.Change
		var record sql.NullString
		if err := rows.Scan(
			&change.Cursor,
			&change.Table,
			&change.EventType,
			&change.RowID,
			&change.UserID,
			&record,
			&change.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		if record.Valid {
			change.Record = []byte(record.String)
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return changes, nil
}

// Cursor returns the feed's current high-water mark
func (s *Storage) Cursor(ctx context.Context) (int64, error) {
	var cursor sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(cursor) FROM profile_changes`).Scan(&cursor)
	if err != nil {
		return 0, fmt.Errorf("failed to get cursor: %w", err)
	}
	return cursor.Int64, nil
}
