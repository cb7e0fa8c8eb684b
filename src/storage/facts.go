package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// UpsertFact inserts a fact or, when (user_id, key) already exists, updates
// its value and updated_at in place.
func UpsertFact(ctx context.Context, db Execer, userID, key, value string) error {
	now := time.Now()
	query := `INSERT INTO user_facts (id, user_id, key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = ?, updated_at = ?`
	_, err := db.ExecContext(ctx, query, uuid.New().String(), userID, key, value, now, now, value, now)
	return err
}

// GetFacts returns all facts for a user ordered by updated_at descending.
func GetFacts(ctx context.Context, db sqlscan.Querier, userID string) ([]Fact, error) {
	query := `SELECT id, user_id, key, value, created_at, updated_at FROM user_facts
		WHERE user_id = ? ORDER BY updated_at DESC`
	var facts []Fact
	if err := sqlscan.Select(ctx, db, &facts, query, userID); err != nil {
		return nil, err
	}
	return facts, nil
}

// GetFact returns the fact stored under (userID, key), or nil when absent.
func GetFact(ctx context.Context, db sqlscan.Querier, userID, key string) (*Fact, error) {
	query := `SELECT id, user_id, key, value, created_at, updated_at FROM user_facts
		WHERE user_id = ? AND key = ?`
	var fact Fact
	err := sqlscan.Get(ctx, db, &fact, query, userID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &fact, nil
}
