package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marubot/maru/src/agent"
	"github.com/marubot/maru/src/aisdk"
	"github.com/marubot/maru/src/maruagent"
	"github.com/marubot/maru/src/maruagent/tools/tool_memory"
	"github.com/marubot/maru/src/memory"
	"github.com/marubot/maru/src/storage"
)

// scriptedClient replays completions in order across calls.
type scriptedClient struct {
	completions []*aisdk.Completion
	err         error
	requests    []*aisdk.CompletionRequest
}

func (c *scriptedClient) Complete(ctx context.Context, req *aisdk.CompletionRequest) (*aisdk.Completion, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return nil, c.err
	}
	idx := len(c.requests) - 1
	if idx >= len(c.completions) {
		idx = len(c.completions) - 1
	}
	return c.completions[idx], nil
}

type fixture struct {
	core    *AgentCore
	client  *scriptedClient
	db      *storage.DB
	history *memory.History
	ltm     *memory.LongTermMemory
	summ    *memory.Summarizer
}

func newFixture(t *testing.T, client *scriptedClient) *fixture {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	history := memory.NewHistory(db.DB(), 0, nil)
	ltm := memory.NewLongTermMemory(db.DB(), nil)
	summ := memory.NewSummarizer(ltm, client, nil)

	toolbox := agent.NewToolbox[agent.Tool]()
	memTools, err := tool_memory.Tools(ltm)
	require.NoError(t, err)
	for _, tool := range memTools {
		require.NoError(t, toolbox.RegisterTool(tool))
	}

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/persona.md", []byte("나는 마루야."), 0644))

	agentCore := New(Options{
		Client:     client,
		Toolbox:    toolbox,
		History:    history,
		Summarizer: summ,
		Prompt:     maruagent.NewPromptBuilder(fs, "/cfg"),
	})

	return &fixture{core: agentCore, client: client, db: db, history: history, ltm: ltm, summ: summ}
}

func toolCallCompletion(id, name, args string) *aisdk.Completion {
	return &aisdk.Completion{
		ToolCalls: []aisdk.ToolCall{
			{
				ID:       id,
				Type:     "function",
				Function: aisdk.FunctionCall{Name: name, Arguments: json.RawMessage(args)},
			},
		},
		NeedsToolExecution: true,
	}
}

func TestChatPlainExchange(t *testing.T) {
	f := newFixture(t, &scriptedClient{completions: []*aisdk.Completion{{Text: "안녕하세요!"}}})
	ctx := context.Background()

	reply, err := f.core.Chat(ctx, "u1", "안녕")
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요!", reply)

	// System prompt leads and the user message trails.
	require.Len(t, f.client.requests, 1)
	msgs := f.client.requests[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, aisdk.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "나는 마루야.")
	assert.Equal(t, "안녕", msgs[1].Content)

	// Both sides of the exchange are persisted.
	rows, err := f.history.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, aisdk.RoleUser, rows[0].Role)
	assert.Equal(t, aisdk.RoleAssistant, rows[1].Role)
	assert.Equal(t, "안녕하세요!", rows[1].Content)

	// Tool messages never enter the durable log or the window.
	assert.Len(t, f.history.Working("u1"), 2)
}

func TestChatToolRoundPersistsFact(t *testing.T) {
	f := newFixture(t, &scriptedClient{completions: []*aisdk.Completion{
		toolCallCompletion("call_1", "save_fact", `{"key":"이름","value":"철수"}`),
		{Text: "기억했어요!"},
	}})
	ctx := context.Background()

	reply, err := f.core.Chat(ctx, "u1", "내 이름은 철수야")
	require.NoError(t, err)
	assert.Equal(t, "기억했어요!", reply)
	assert.Len(t, f.client.requests, 2)

	// The tool actually wrote through to long-term memory.
	value, err := f.ltm.GetFact(ctx, "u1", "이름")
	require.NoError(t, err)
	assert.Equal(t, "철수", value)

	// Only the user and final assistant text are persisted, not the tool
	// round trip.
	rows, err := f.history.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestChatBackendFailure(t *testing.T) {
	backendErr := errors.New("gateway unavailable")
	f := newFixture(t, &scriptedClient{err: backendErr})
	ctx := context.Background()

	reply, err := f.core.Chat(ctx, "u1", "안녕")
	assert.ErrorIs(t, err, backendErr)
	assert.Empty(t, reply)

	// Nothing persisted and the window unchanged, so a retry replays a
	// consistent transcript.
	rows, err := f.history.Recent(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, f.history.Working("u1"))
}

func TestChatModeSwitchSticks(t *testing.T) {
	f := newFixture(t, &scriptedClient{completions: []*aisdk.Completion{{Text: "네!"}}})
	ctx := context.Background()

	_, err := f.core.Chat(ctx, "u1", "소설 쓰는 것 좀 도와줘")
	require.NoError(t, err)
	assert.Contains(t, f.client.requests[0].Messages[0].Content, "창작 모드")

	// A message with no mode keywords keeps the current mode.
	_, err = f.core.Chat(ctx, "u1", "고마워")
	require.NoError(t, err)
	assert.Contains(t, f.client.requests[1].Messages[0].Content, "창작 모드")

	// An explicit switch phrase returns to assistant.
	_, err = f.core.Chat(ctx, "u1", "비서 모드로 돌아가")
	require.NoError(t, err)
	assert.Contains(t, f.client.requests[2].Messages[0].Content, "비서 모드")
}

func TestChatMemoryContextInjected(t *testing.T) {
	f := newFixture(t, &scriptedClient{completions: []*aisdk.Completion{{Text: "네"}}})
	ctx := context.Background()

	require.NoError(t, f.ltm.SaveFact(ctx, "u1", "이름", "철수"))

	_, err := f.core.Chat(ctx, "u1", "안녕")
	require.NoError(t, err)

	system := f.client.requests[0].Messages[0].Content
	assert.Contains(t, system, "## 사용자 정보")
	assert.Contains(t, system, "- 이름: 철수")
}

func TestChatSummarizationAtThreshold(t *testing.T) {
	f := newFixture(t, &scriptedClient{completions: []*aisdk.Completion{{Text: "네"}}})
	ctx := context.Background()

	for i := 0; i < memory.SummaryTrigger-1; i++ {
		_, err := f.core.Chat(ctx, "u1", fmt.Sprintf("메시지 %d", i))
		require.NoError(t, err)
	}

	stored, err := f.ltm.RecentSummaries(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// The 20th exchange triggers one extra backend call for the summary.
	before := len(f.client.requests)
	_, err = f.core.Chat(ctx, "u1", "스무 번째 메시지")
	require.NoError(t, err)
	assert.Equal(t, before+2, len(f.client.requests))

	stored, err = f.ltm.RecentSummaries(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "네", stored[0].Summary)

	// The counter reset; the next exchange does not summarize again.
	before = len(f.client.requests)
	_, err = f.core.Chat(ctx, "u1", "그 다음 메시지")
	require.NoError(t, err)
	assert.Equal(t, before+1, len(f.client.requests))
}

func TestChatWindowBoundsLoopInput(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := &scriptedClient{completions: []*aisdk.Completion{{Text: "네"}}}
	history := memory.NewHistory(db.DB(), 4, nil)
	ltm := memory.NewLongTermMemory(db.DB(), nil)

	agentCore := New(Options{
		Client:     client,
		History:    history,
		Summarizer: memory.NewSummarizer(ltm, client, nil),
		Prompt:     maruagent.NewPromptBuilder(afero.NewMemMapFs(), "/cfg"),
	})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := agentCore.Chat(ctx, "u1", fmt.Sprintf("메시지 %d", i))
		require.NoError(t, err)
	}

	// system + 4-message window + new user message.
	last := client.requests[len(client.requests)-1].Messages
	assert.Len(t, last, 6)
	assert.Equal(t, aisdk.RoleSystem, last[0].Role)
	assert.True(t, strings.HasPrefix(last[len(last)-1].Content, "메시지 4"))
}
