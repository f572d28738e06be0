package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/profile-explorer/internal/apperror"
	"github.com/sakif/profile-explorer/internal/model"
	"github.com/sakif/profile-explorer/internal/repository"
)

var _ repository.NoteRepository = (*DB)(nil)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// GetNote returns the device's note for key, or NotFound.
func (db *DB) GetNote(ctx context.Context, deviceID string, key model.NoteKey) (*model.Note, error) {
	note := model.Note{DeviceID: deviceID, Key: key}

	err := db.conn.QueryRowContext(ctx,
		`SELECT text, created_at, updated_at
		 FROM notes
		 WHERE device_id = ? AND namespace = ? AND identity = ?`,
		deviceID, key.Kind.Namespace(), key.Identity,
	).Scan(&note.Text, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Note", key.String())
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", key, err)
	}

	return &note, nil
}

// SaveNote inserts or overwrites a note. CreatedAt survives overwrites;
// UpdatedAt is always refreshed. Both are written back into note.
func (db *DB) SaveNote(ctx context.Context, note *model.Note) error {
	now := time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notes (device_id, namespace, identity, text, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (device_id, namespace, identity)
		 DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at`,
		note.DeviceID,
		note.Key.Kind.Namespace(),
		note.Key.Identity,
		note.Text,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving note %s: %w", note.Key, err)
	}

	stored, err := db.GetNote(ctx, note.DeviceID, note.Key)
	if err != nil {
		return fmt.Errorf("sqlite: reading back note %s: %w", note.Key, err)
	}
	note.CreatedAt = stored.CreatedAt
	note.UpdatedAt = stored.UpdatedAt

	return nil
}

// DeleteNote removes a note. Deleting a note that does not exist is not an error.
func (db *DB) DeleteNote(ctx context.Context, deviceID string, key model.NoteKey) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE device_id = ? AND namespace = ? AND identity = ?`,
		deviceID, key.Kind.Namespace(), key.Identity,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", key, err)
	}
	return nil
}

// ListNotes returns the device's notes, most recently updated first.
func (db *DB) ListNotes(ctx context.Context, deviceID string, opts repository.ListOptions) ([]model.Note, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := max(opts.Offset, 0)

	query := `SELECT namespace, identity, text, created_at, updated_at
		 FROM notes
		 WHERE device_id = ?`
	args := []any{deviceID}
	if opts.Kind != "" {
		query += ` AND namespace = ?`
		args = append(args, opts.Kind.Namespace())
	}
	query += ` ORDER BY updated_at DESC, identity LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		var (
			n         model.Note
			namespace string
		)
		if err := rows.Scan(&namespace, &n.Key.Identity, &n.Text, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		kind, ok := model.ParseNoteKind(namespace)
		if !ok {
			continue
		}
		n.DeviceID = deviceID
		n.Key.Kind = kind
		notes = append(notes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}
