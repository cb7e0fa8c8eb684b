package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/marubot/maru/src/aisdk"
	"github.com/marubot/maru/src/storage"
)

// SummaryTrigger is the per-user turn count at which a summarization runs.
const SummaryTrigger = 20

// summaryMaxTokens bounds the backend call that produces a summary.
const summaryMaxTokens = 512

const summarySystemPrompt = `당신은 대화 요약 전문가입니다.
주어진 대화 내용을 간결하고 핵심적으로 요약해주세요.
- 주요 주제와 결론 위주로 요약
- 사용자의 요청사항이나 선호도가 있으면 포함
- 3~5문장으로 요약
- 한국어로 작성`

// Summarizer counts completed exchanges per user and, at the trigger
// threshold, compresses recent history into a stored summary via a single
// backend call.
type Summarizer struct {
	ltm    *LongTermMemory
	client aisdk.ModelClient
	logger *slog.Logger

	mu    sync.Mutex
	turns map[string]int
}

// NewSummarizer creates a Summarizer storing into ltm via client.
func NewSummarizer(ltm *LongTermMemory, client aisdk.ModelClient, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		ltm:    ltm,
		client: client,
		logger: logger.With("component", "summarizer"),
		turns:  make(map[string]int),
	}
}

// IncrementTurn increments the user's turn counter and returns the new value.
func (s *Summarizer) IncrementTurn(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[userID]++
	return s.turns[userID]
}

// ResetTurns resets the user's turn counter to zero.
func (s *Summarizer) ResetTurns(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[userID] = 0
}

// ShouldSummarize reports whether the user's counter reached the trigger.
func (s *Summarizer) ShouldSummarize(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns[userID] >= SummaryTrigger
}

// SummarizeAndStore flattens the message batch into a transcript, asks the
// backend for a 3-5 sentence summary, and persists it spanning the batch's
// first and last timestamps. An empty batch, a failed backend call, or empty
// summary text is a no-op; the turn counter is reset only on success so the
// next exchange retries summarization.
func (s *Summarizer) SummarizeAndStore(ctx context.Context, userID string, messages []storage.Message) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}

	var lines []string
	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		label := "어시스턴트"
		if m.Role == aisdk.RoleUser {
			label = "사용자"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, m.Content))
	}
	if len(lines) == 0 {
		return "", nil
	}
	transcript := strings.Join(lines, "\n")

	completion, err := s.client.Complete(ctx, &aisdk.CompletionRequest{
		Messages: []*aisdk.Message{
			{Role: aisdk.RoleSystem, Content: summarySystemPrompt},
			{Role: aisdk.RoleUser, Content: "다음 대화를 요약해주세요:\n\n" + transcript},
		},
		MaxTokens: summaryMaxTokens,
	})
	if err != nil {
		s.logger.Warn("summarization call failed", "user_id", userID, "error", err)
		return "", err
	}

	summary := strings.TrimSpace(completion.Text)
	if summary == "" {
		s.logger.Warn("summarization produced empty text", "user_id", userID)
		return "", nil
	}

	if err := s.ltm.SaveSummary(ctx, &storage.Summary{
		UserID:      userID,
		Summary:     summary,
		PeriodStart: messages[0].CreatedAt,
		PeriodEnd:   messages[len(messages)-1].CreatedAt,
	}); err != nil {
		return "", err
	}

	s.ResetTurns(userID)
	s.logger.Info("stored conversation summary", "user_id", userID, "messages", len(messages))
	return summary, nil
}

// ContextPrompt concatenates up to 3 most recent summaries and all stored
// facts into a prompt-injectable block; empty string when nothing is stored.
func (s *Summarizer) ContextPrompt(ctx context.Context, userID string) (string, error) {
	var parts []string

	summaries, err := s.ltm.RecentSummaries(ctx, userID, 3)
	if err != nil {
		return "", err
	}
	if len(summaries) > 0 {
		parts = append(parts, "## 이전 대화 요약")
		for _, sum := range summaries {
			parts = append(parts, "- "+sum.Summary)
		}
	}

	facts, err := s.ltm.GetFacts(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(facts) > 0 {
		parts = append(parts, "\n## 사용자 정보")
		for _, f := range facts {
			parts = append(parts, fmt.Sprintf("- %s: %s", f.Key, f.Value))
		}
	}

	return strings.Join(parts, "\n"), nil
}
