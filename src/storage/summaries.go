package storage

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// InsertSummary appends a conversation summary.
func InsertSummary(ctx context.Context, db Execer, summary *Summary) error {
	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	query := `INSERT INTO summaries (id, user_id, summary, period_start, period_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, summary.ID, summary.UserID, summary.Summary,
		summary.PeriodStart, summary.PeriodEnd, summary.CreatedAt)
	return err
}

// GetRecentSummaries returns the most recent limit summaries for a user in
// chronological (oldest-first) order, matching the message log's convention.
func GetRecentSummaries(ctx context.Context, db sqlscan.Querier, userID string, limit int) ([]Summary, error) {
	query := `SELECT id, user_id, summary, period_start, period_end, created_at FROM summaries
		WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	var summaries []Summary
	if err := sqlscan.Select(ctx, db, &summaries, query, userID, limit); err != nil {
		return nil, err
	}
	reverse(summaries)
	return summaries, nil
}
