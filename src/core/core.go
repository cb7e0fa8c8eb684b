// Package core wires the protocol adapter, tool-use loop, history, long-term
// memory, and summarization trigger into a single chat entry point.
package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/marubot/maru/src/agent"
	"github.com/marubot/maru/src/aisdk"
	"github.com/marubot/maru/src/engine"
	"github.com/marubot/maru/src/maruagent"
	"github.com/marubot/maru/src/memory"
)

// summaryBatchSize is how many recent durable rows feed a summarization.
const summaryBatchSize = 40

// GenericFailureReply is the short, non-technical notice shown to the end
// user when the backend fails; diagnostic detail stays in the logs.
const GenericFailureReply = "죄송해요, 지금은 응답을 만들 수 없어요. 잠시 후 다시 시도해주세요."

// Options configures an AgentCore.
type Options struct {
	Client     aisdk.ModelClient
	Toolbox    *agent.DefaultToolbox
	History    *memory.History
	Summarizer *memory.Summarizer
	Prompt     *maruagent.PromptBuilder
	Modes      *maruagent.ModeManager
	MaxRounds  int
	MaxTokens  int
	Logger     *slog.Logger
}

// AgentCore mediates between the messaging front end and the model backend.
type AgentCore struct {
	loop       *engine.Loop
	history    *memory.History
	summarizer *memory.Summarizer
	prompt     *maruagent.PromptBuilder
	modes      *maruagent.ModeManager
	logger     *slog.Logger
}

// New creates an AgentCore from opts.
func New(opts Options) *AgentCore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	modes := opts.Modes
	if modes == nil {
		modes = maruagent.NewModeManager()
	}
	return &AgentCore{
		loop: &engine.Loop{
			Client:    opts.Client,
			Toolbox:   opts.Toolbox,
			MaxRounds: opts.MaxRounds,
			MaxTokens: opts.MaxTokens,
			Logger:    logger,
		},
		history:    opts.History,
		summarizer: opts.Summarizer,
		prompt:     opts.Prompt,
		modes:      modes,
		logger:     logger.With("component", "core"),
	}
}

// Chat processes one exchange for a user and returns the final reply text.
//
// A backend failure is terminal for the exchange: the error propagates out,
// nothing is persisted for the turn, and the working window is left unchanged
// so a later retry replays a consistent transcript.
func (a *AgentCore) Chat(ctx context.Context, userID, message string) (string, error) {
	logger := a.logger.With("user_id", userID)
	ctx = memory.WithUserID(ctx, userID)

	if detected := maruagent.DetectMode(message); detected != maruagent.ModeNone && detected != a.modes.Get(userID) {
		a.modes.Set(userID, detected)
		logger.Info("mode switched", "mode", string(detected))
	}
	mode := a.modes.Get(userID)

	systemPrompt := a.prompt.Build(mode)
	memoryContext, err := a.summarizer.ContextPrompt(ctx, userID)
	if err != nil {
		logger.Warn("failed to build memory context", "error", err)
	} else if memoryContext != "" {
		systemPrompt += "\n\n" + memoryContext
	}

	working := a.history.Working(userID)
	messages := make([]*aisdk.Message, 0, len(working)+2)
	messages = append(messages, &aisdk.Message{Role: aisdk.RoleSystem, Content: systemPrompt})
	messages = append(messages, working...)
	messages = append(messages, &aisdk.Message{Role: aisdk.RoleUser, Content: message, CreatedAt: time.Now()})

	result, err := a.loop.Run(ctx, messages)
	if err != nil {
		logger.Error("exchange failed", "error", err)
		return "", err
	}
	logger.Debug("exchange finished", "state", result.State.String(), "rounds", result.Rounds)

	// The exchange succeeded; persistence failures lose at most this turn's
	// rows and must not eat the reply.
	if err := a.history.Append(ctx, userID, aisdk.RoleUser, message); err != nil {
		logger.Warn("failed to persist user message", "error", err)
	}
	if err := a.history.Append(ctx, userID, aisdk.RoleAssistant, result.Text); err != nil {
		logger.Warn("failed to persist assistant message", "error", err)
	}

	a.summarizer.IncrementTurn(userID)
	if a.summarizer.ShouldSummarize(userID) {
		recent, err := a.history.Recent(ctx, userID, summaryBatchSize)
		if err != nil {
			logger.Warn("failed to load messages for summarization", "error", err)
		} else if _, err := a.summarizer.SummarizeAndStore(ctx, userID, recent); err != nil {
			logger.Warn("summarization failed", "error", err)
		}
	}

	return result.Text, nil
}
