package storage

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// notesSearchLimit caps every note query.
const notesSearchLimit = 20

// InsertNote appends a tagged note.
func InsertNote(ctx context.Context, db Execer, note *Note) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	if note.Tags == nil {
		note.Tags = JSONStringArray{}
	}

	query := `INSERT INTO notes (id, user_id, content, tags, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, note.ID, note.UserID, note.Content, note.Tags, note.CreatedAt)
	return err
}

// SearchNotes returns notes most-recent-first. A tag argument matches
// substrings within the serialized tag list and takes precedence over query,
// which matches content substrings; with neither it returns the most recent
// notes. At most 20 rows are returned.
func SearchNotes(ctx context.Context, db sqlscan.Querier, userID, query, tag string) ([]Note, error) {
	var (
		stmt string
		args []interface{}
	)

	switch {
	case tag != "":
		stmt = `SELECT id, user_id, content, tags, created_at FROM notes
			WHERE user_id = ? AND tags LIKE ? ORDER BY created_at DESC LIMIT ?`
		args = []interface{}{userID, "%" + tag + "%", notesSearchLimit}
	case query != "":
		stmt = `SELECT id, user_id, content, tags, created_at FROM notes
			WHERE user_id = ? AND content LIKE ? ORDER BY created_at DESC LIMIT ?`
		args = []interface{}{userID, "%" + query + "%", notesSearchLimit}
	default:
		stmt = `SELECT id, user_id, content, tags, created_at FROM notes
			WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
		args = []interface{}{userID, notesSearchLimit}
	}

	var notes []Note
	if err := sqlscan.Select(ctx, db, &notes, stmt, args...); err != nil {
		return nil, err
	}
	return notes, nil
}
