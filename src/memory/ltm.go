package memory

import (
	"context"
	"log/slog"

	"github.com/marubot/maru/src/storage"
)

// LongTermMemory is the durable cross-session store of user facts, tagged
// notes, and conversation summaries.
type LongTermMemory struct {
	db     storage.ExecQuerier
	logger *slog.Logger
}

// NewLongTermMemory creates a LongTermMemory over db.
func NewLongTermMemory(db storage.ExecQuerier, logger *slog.Logger) *LongTermMemory {
	if logger == nil {
		logger = slog.Default()
	}
	return &LongTermMemory{
		db:     db,
		logger: logger.With("component", "ltm"),
	}
}

// SaveFact upserts a key/value fact for a user.
func (m *LongTermMemory) SaveFact(ctx context.Context, userID, key, value string) error {
	return storage.UpsertFact(ctx, m.db, userID, key, value)
}

// GetFacts returns all facts for a user, most recently updated first.
func (m *LongTermMemory) GetFacts(ctx context.Context, userID string) ([]storage.Fact, error) {
	return storage.GetFacts(ctx, m.db, userID)
}

// GetFact returns the value stored under key, or "" when absent.
func (m *LongTermMemory) GetFact(ctx context.Context, userID, key string) (string, error) {
	fact, err := storage.GetFact(ctx, m.db, userID, key)
	if err != nil || fact == nil {
		return "", err
	}
	return fact.Value, nil
}

// SaveNote appends a tagged note.
func (m *LongTermMemory) SaveNote(ctx context.Context, userID, content string, tags []string) error {
	return storage.InsertNote(ctx, m.db, &storage.Note{
		UserID:  userID,
		Content: content,
		Tags:    storage.JSONStringArray(tags),
	})
}

// SearchNotes searches notes by content substring or tag substring; with
// neither it returns the most recent notes.
func (m *LongTermMemory) SearchNotes(ctx context.Context, userID, query, tag string) ([]storage.Note, error) {
	return storage.SearchNotes(ctx, m.db, userID, query, tag)
}

// SaveSummary appends a conversation summary.
func (m *LongTermMemory) SaveSummary(ctx context.Context, summary *storage.Summary) error {
	return storage.InsertSummary(ctx, m.db, summary)
}

// RecentSummaries returns the most recent limit summaries in chronological order.
func (m *LongTermMemory) RecentSummaries(ctx context.Context, userID string, limit int) ([]storage.Summary, error) {
	return storage.GetRecentSummaries(ctx, m.db, userID, limit)
}
