// Package memory manages what the model sees as context: the per-user
// conversation history, the long-term memory of facts/notes/summaries, and
// the turn-counting summarization trigger.
package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marubot/maru/src/aisdk"
	"github.com/marubot/maru/src/storage"
)

// DefaultWindowLimit caps the in-memory working window per user.
const DefaultWindowLimit = 50

// History is the per-user message history: an unbounded durable log plus a
// capped in-memory working window. The window map is guarded by a single
// mutex; callers may run exchanges for distinct users concurrently.
type History struct {
	db     storage.ExecQuerier
	logger *slog.Logger
	limit  int

	mu      sync.Mutex
	windows map[string][]*aisdk.Message
}

// NewHistory creates a History over db. limit <= 0 selects DefaultWindowLimit.
func NewHistory(db storage.ExecQuerier, limit int, logger *slog.Logger) *History {
	if limit <= 0 {
		limit = DefaultWindowLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &History{
		db:      db,
		logger:  logger.With("component", "history"),
		limit:   limit,
		windows: make(map[string][]*aisdk.Message),
	}
}

// Append writes one message to the durable log and to the user's working
// window, truncating the window to the most recent limit entries.
func (h *History) Append(ctx context.Context, userID, role, content string) error {
	now := time.Now()
	if err := storage.InsertMessage(ctx, h.db, &storage.Message{
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	window := append(h.windows[userID], &aisdk.Message{
		Role:      role,
		Content:   content,
		CreatedAt: now,
	})
	if len(window) > h.limit {
		window = window[len(window)-h.limit:]
	}
	h.windows[userID] = window
	return nil
}

// Working returns a copy of the user's working window in order.
func (h *History) Working(userID string) []*aisdk.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	window := h.windows[userID]
	out := make([]*aisdk.Message, len(window))
	copy(out, window)
	return out
}

// Recent returns the most recent limit durable rows in chronological order.
func (h *History) Recent(ctx context.Context, userID string, limit int) ([]storage.Message, error) {
	return storage.GetRecentMessages(ctx, h.db, userID, limit)
}
