package storage

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// InsertMessage appends one message to the durable log.
func InsertMessage(ctx context.Context, db Execer, message *Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	query := `INSERT INTO messages (id, user_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, message.ID, message.UserID, message.Role, message.Content, message.CreatedAt)
	return err
}

// GetRecentMessages returns the most recent limit messages for a user in
// chronological (oldest-first) order. The underlying query fetches
// most-recent-first and the rows are reversed before return.
func GetRecentMessages(ctx context.Context, db sqlscan.Querier, userID string, limit int) ([]Message, error) {
	query := `SELECT id, user_id, role, content, created_at FROM messages
		WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	var messages []Message
	if err := sqlscan.Select(ctx, db, &messages, query, userID, limit); err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
