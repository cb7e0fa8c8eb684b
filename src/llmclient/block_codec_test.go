package llmclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marubot/maru/src/aisdk"
)

func TestEncodeBlockMessages(t *testing.T) {
	tests := []struct {
		name       string
		messages   []*aisdk.Message
		wantSystem string
		check      func(t *testing.T, out []BlockMessage)
	}{
		{
			name: "system extracted and joined",
			messages: []*aisdk.Message{
				{Role: aisdk.RoleSystem, Content: "first"},
				{Role: aisdk.RoleSystem, Content: "second"},
				{Role: aisdk.RoleUser, Content: "hi"},
			},
			wantSystem: "first\nsecond",
			check: func(t *testing.T, out []BlockMessage) {
				require.Len(t, out, 1)
				assert.Equal(t, aisdk.RoleUser, out[0].Role)
				require.Len(t, out[0].Content, 1)
				assert.Equal(t, "text", out[0].Content[0].Type)
				assert.Equal(t, "hi", out[0].Content[0].Text)
			},
		},
		{
			name: "tool message becomes user tool_result",
			messages: []*aisdk.Message{
				{Role: aisdk.RoleTool, ToolCallID: "call_1", Content: "42"},
			},
			check: func(t *testing.T, out []BlockMessage) {
				require.Len(t, out, 1)
				assert.Equal(t, aisdk.RoleUser, out[0].Role)
				require.Len(t, out[0].Content, 1)
				block := out[0].Content[0]
				assert.Equal(t, "tool_result", block.Type)
				assert.Equal(t, "call_1", block.ToolUseID)
				assert.Equal(t, "42", block.Content)
			},
		},
		{
			name: "assistant with tool calls emits text then tool_use blocks",
			messages: []*aisdk.Message{
				{
					Role:    aisdk.RoleAssistant,
					Content: "let me check",
					ToolCalls: []aisdk.ToolCall{
						{
							ID:   "call_9",
							Type: "function",
							Function: aisdk.FunctionCall{
								Name:      "get_datetime",
								Arguments: json.RawMessage(`{"timezone":"Asia/Seoul"}`),
							},
						},
					},
				},
			},
			check: func(t *testing.T, out []BlockMessage) {
				require.Len(t, out, 1)
				require.Len(t, out[0].Content, 2)
				assert.Equal(t, "text", out[0].Content[0].Type)
				assert.Equal(t, "let me check", out[0].Content[0].Text)
				use := out[0].Content[1]
				assert.Equal(t, "tool_use", use.Type)
				assert.Equal(t, "call_9", use.ID)
				assert.Equal(t, "get_datetime", use.Name)
				assert.JSONEq(t, `{"timezone":"Asia/Seoul"}`, string(use.Input))
			},
		},
		{
			name: "assistant with invalid arguments degrades to empty object",
			messages: []*aisdk.Message{
				{
					Role: aisdk.RoleAssistant,
					ToolCalls: []aisdk.ToolCall{
						{
							ID:       "call_2",
							Type:     "function",
							Function: aisdk.FunctionCall{Name: "save_fact", Arguments: json.RawMessage(`{`)},
						},
					},
				},
			},
			check: func(t *testing.T, out []BlockMessage) {
				require.Len(t, out, 1)
				require.Len(t, out[0].Content, 1)
				assert.Equal(t, "{}", string(out[0].Content[0].Input))
			},
		},
		{
			name: "plain assistant message stays text",
			messages: []*aisdk.Message{
				{Role: aisdk.RoleAssistant, Content: "done"},
			},
			check: func(t *testing.T, out []BlockMessage) {
				require.Len(t, out, 1)
				assert.Equal(t, aisdk.RoleAssistant, out[0].Role)
				assert.Equal(t, "done", out[0].Content[0].Text)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, out := EncodeBlockMessages(tt.messages)
			assert.Equal(t, tt.wantSystem, system)
			if tt.check != nil {
				tt.check(t, out)
			}
		})
	}
}

func TestDecodeBlockResponse(t *testing.T) {
	t.Run("text blocks concatenated", func(t *testing.T) {
		resp := &BlockResponse{
			Content: []ContentBlock{
				{Type: "text", Text: "hello "},
				{Type: "text", Text: "world"},
			},
			StopReason: "end_turn",
		}
		got := DecodeBlockResponse(resp)
		assert.Equal(t, "hello world", got.Text)
		assert.Empty(t, got.ToolCalls)
		assert.False(t, got.NeedsToolExecution)
	})

	t.Run("tool_use mapped to tool calls", func(t *testing.T) {
		resp := &BlockResponse{
			Content: []ContentBlock{
				{Type: "text", Text: "checking"},
				{Type: "tool_use", ID: "tu_1", Name: "search_notes", Input: json.RawMessage(`{"query":"여행"}`)},
			},
			StopReason: "tool_use",
		}
		got := DecodeBlockResponse(resp)
		assert.Equal(t, "checking", got.Text)
		require.Len(t, got.ToolCalls, 1)
		call := got.ToolCalls[0]
		assert.Equal(t, "tu_1", call.ID)
		assert.Equal(t, "function", call.Type)
		assert.Equal(t, "search_notes", call.Function.Name)
		assert.JSONEq(t, `{"query":"여행"}`, string(call.Function.Arguments))
		assert.True(t, got.NeedsToolExecution)
	})

	t.Run("tool_use with empty input gets empty object", func(t *testing.T) {
		resp := &BlockResponse{
			Content:    []ContentBlock{{Type: "tool_use", ID: "tu_2", Name: "get_facts"}},
			StopReason: "tool_use",
		}
		got := DecodeBlockResponse(resp)
		require.Len(t, got.ToolCalls, 1)
		assert.Equal(t, "{}", string(got.ToolCalls[0].Function.Arguments))
	})
}

func TestBlockRoundTrip(t *testing.T) {
	// A decoded tool_use response re-encoded as an assistant message must
	// reproduce the original block, so the next request replays a transcript
	// the backend recognizes.
	resp := &BlockResponse{
		Content: []ContentBlock{
			{Type: "tool_use", ID: "tu_7", Name: "save_note", Input: json.RawMessage(`{"content":"장보기"}`)},
		},
		StopReason: "tool_use",
	}
	completion := DecodeBlockResponse(resp)

	_, out := EncodeBlockMessages([]*aisdk.Message{
		{Role: aisdk.RoleAssistant, Content: completion.Text, ToolCalls: completion.ToolCalls},
	})
	require.Len(t, out, 1)
	require.Len(t, out[0].Content, 1)
	block := out[0].Content[0]
	assert.Equal(t, "tool_use", block.Type)
	assert.Equal(t, "tu_7", block.ID)
	assert.Equal(t, "save_note", block.Name)
	assert.JSONEq(t, `{"content":"장보기"}`, string(block.Input))
}

func TestEncodeBlockTools(t *testing.T) {
	assert.Nil(t, EncodeBlockTools(nil))

	tools := []*aisdk.ChatTool{
		{
			Type: "function",
			Function: aisdk.ChatToolFunction{
				Name:        "get_facts",
				Description: "List saved user facts",
			},
		},
	}
	out := EncodeBlockTools(tools)
	require.Len(t, out, 1)
	assert.Equal(t, "get_facts", out[0].Name)
	assert.Equal(t, "List saved user facts", out[0].Description)
}
