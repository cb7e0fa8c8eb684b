// Package engine drives the bounded tool-use loop: it interleaves backend
// calls with sequential tool execution until the backend produces a final
// text reply or the round bound is reached.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/marubot/maru/src/agent"
	"github.com/marubot/maru/src/aisdk"
)

// DefaultMaxRounds bounds the number of backend invocations per exchange,
// guarding against backends that keep requesting tools without converging.
const DefaultMaxRounds = 5

// RoundLimitReply is the fixed fallback returned when the round bound is hit.
const RoundLimitReply = "도구 호출 한도에 도달했습니다."

// Loop runs the tool-use state machine for one exchange.
type Loop struct {
	Client    aisdk.ModelClient
	Toolbox   *agent.DefaultToolbox
	MaxRounds int
	MaxTokens int
	Logger    *slog.Logger
}

// Result is the outcome of one exchange.
type Result struct {
	// State is the terminal state: StateDone or StateRoundLimit.
	State State
	// Text is the final reply (fallback text when the round limit was hit).
	Text string
	// Messages is the working message list including every assistant and
	// tool-result message appended during the loop.
	Messages []*aisdk.Message
	// Rounds is the number of backend invocations made.
	Rounds int
}

// Run executes the loop over the given working messages. Tool-level failures
// degrade to error-text tool results and never abort the exchange; a backend
// failure propagates out unmodified and is terminal for the exchange.
//
// Invariant: the working list is never left with an assistant tool_calls
// message unmatched by its tool-result messages before the next backend call.
func (l *Loop) Run(ctx context.Context, messages []*aisdk.Message) (*Result, error) {
	if l.Client == nil {
		return nil, ErrModelClientRequired
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	maxRounds := l.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}

	working := make([]*aisdk.Message, len(messages))
	copy(working, messages)

	var tools []*aisdk.ChatTool
	if l.Toolbox != nil {
		tools = agent.ToChatTools(l.Toolbox.Tools())
	}

	for round := 1; round <= maxRounds; round++ {
		logger.Debug("loop state", "state", StateAwaitingModel.String(), "round", round)

		completion, err := l.Client.Complete(ctx, &aisdk.CompletionRequest{
			Messages:  working,
			Tools:     tools,
			MaxTokens: l.MaxTokens,
		})
		if err != nil {
			return nil, err
		}

		if len(completion.ToolCalls) == 0 {
			return &Result{
				State:    StateDone,
				Text:     completion.Text,
				Messages: working,
				Rounds:   round,
			}, nil
		}

		working = append(working, &aisdk.Message{
			Role:      aisdk.RoleAssistant,
			Content:   completion.Text,
			ToolCalls: completion.ToolCalls,
			CreatedAt: time.Now(),
		})

		logger.Debug("loop state", "state", StateExecutingTools.String(), "round", round, "tool_calls", len(completion.ToolCalls))

		// Strictly sequential, in the order received: the appended results
		// must reproduce a deterministic transcript for the next turn.
		for i := range completion.ToolCalls {
			call := &completion.ToolCalls[i]
			result := l.executeToolCall(ctx, call)
			working = append(working, &aisdk.Message{
				Role:       aisdk.RoleTool,
				ToolCallID: call.ID,
				Content:    result,
				CreatedAt:  time.Now(),
			})
		}
	}

	logger.Warn("round limit reached", "max_rounds", maxRounds)
	return &Result{
		State:    StateRoundLimit,
		Text:     RoundLimitReply,
		Messages: working,
		Rounds:   maxRounds,
	}, nil
}

// executeToolCall resolves and runs a single tool call. Every failure mode
// degrades to diagnostic error text consumed by the backend on the next round.
func (l *Loop) executeToolCall(ctx context.Context, call *aisdk.ToolCall) string {
	name := call.Function.Name

	if l.Toolbox == nil || !l.Toolbox.HasTool(name) {
		return fmt.Sprintf("❌ 알 수 없는 도구: %s", name)
	}

	if args := call.Function.Arguments; len(args) > 0 && !json.Valid(args) {
		return fmt.Sprintf("❌ 인자 파싱 오류: %s", string(args))
	}

	resp, err := l.Toolbox.ExecuteTool(ctx, call)
	if err != nil {
		return fmt.Sprintf("❌ 도구 실행 오류 (%s): %v", name, err)
	}
	if resp.IsError {
		return fmt.Sprintf("❌ 도구 실행 오류 (%s): %s", name, string(resp.Content))
	}
	return string(resp.Content)
}
