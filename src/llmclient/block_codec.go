package llmclient

import (
	"encoding/json"
	"strings"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/marubot/maru/src/aisdk"
)

// Content block types used by the content-block wire contract.
const (
	blockTypeText       = "text"
	blockTypeToolUse    = "tool_use"
	blockTypeToolResult = "tool_result"
)

// stopReasonToolUse is the terminal-state value signalling that the backend
// stopped to wait for tool results.
const stopReasonToolUse = "tool_use"

// BlockMessage is one message on the content-block wire.
type BlockMessage struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is a single typed block within a BlockMessage or response.
type ContentBlock struct {
	Type string `json:"type"`

	// text blocks
	Text string `json:"text,omitempty"`

	// tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// BlockTool is the backend's tool declaration format.
type BlockTool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// BlockRequest is the request body for the content-block backend.
type BlockRequest struct {
	Model     string         `json:"model"`
	System    string         `json:"system,omitempty"`
	Messages  []BlockMessage `json:"messages"`
	MaxTokens int            `json:"max_tokens"`
	Tools     []BlockTool    `json:"tools,omitempty"`
}

// BlockResponse is the response body from the content-block backend.
type BlockResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// EncodeBlockMessages translates uniform messages into the content-block wire
// shape. System messages are extracted from the list and newline-joined into
// the returned system string; a tool-role message becomes a user message
// wrapping one tool_result block keyed by its tool call id; an assistant
// message carrying tool calls becomes an optional text block followed by one
// tool_use block per call.
func EncodeBlockMessages(messages []*aisdk.Message) (string, []BlockMessage) {
	var systemParts []string
	out := make([]BlockMessage, 0, len(messages))

	for _, msg := range messages {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case aisdk.RoleSystem:
			systemParts = append(systemParts, msg.Content)

		case aisdk.RoleTool:
			out = append(out, BlockMessage{
				Role: aisdk.RoleUser,
				Content: []ContentBlock{{
					Type:      blockTypeToolResult,
					ToolUseID: msg.ToolCallID,
					Content:   msg.Content,
				}},
			})

		case aisdk.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, textMessage(msg.Role, msg.Content))
				continue
			}
			var blocks []ContentBlock
			if msg.Content != "" {
				blocks = append(blocks, ContentBlock{Type: blockTypeText, Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				blocks = append(blocks, ContentBlock{
					Type:  blockTypeToolUse,
					ID:    tc.ID,
					Name:  tc.Function.Name,
					Input: parseArguments(tc.Function.Arguments),
				})
			}
			out = append(out, BlockMessage{Role: aisdk.RoleAssistant, Content: blocks})

		default:
			out = append(out, textMessage(msg.Role, msg.Content))
		}
	}

	return strings.TrimSpace(strings.Join(systemParts, "\n")), out
}

// EncodeBlockTools reshapes uniform tool declarations into the backend's
// {name, description, input_schema} format.
func EncodeBlockTools(tools []*aisdk.ChatTool) []BlockTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]BlockTool, 0, len(tools))
	for _, t := range tools {
		if t == nil {
			continue
		}
		out = append(out, BlockTool{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			InputSchema: t.Function.Parameters,
		})
	}
	return out
}

// DecodeBlockResponse maps a content-block response onto the uniform
// completion: text blocks are concatenated in order, each tool_use block
// becomes a ToolCall with its input re-serialized as the call arguments, and
// the stop reason drives NeedsToolExecution.
func DecodeBlockResponse(resp *BlockResponse) *aisdk.Completion {
	var textParts []string
	var toolCalls []aisdk.ToolCall

	for _, block := range resp.Content {
		switch block.Type {
		case blockTypeText:
			textParts = append(textParts, block.Text)
		case blockTypeToolUse:
			args := block.Input
			if len(args) == 0 {
				args = json.RawMessage("{}")
			}
			toolCalls = append(toolCalls, aisdk.ToolCall{
				ID:   block.ID,
				Type: "function",
				Function: aisdk.FunctionCall{
					Name:      block.Name,
					Arguments: args,
				},
			})
		}
	}

	return &aisdk.Completion{
		Text:               strings.Join(textParts, ""),
		ToolCalls:          toolCalls,
		NeedsToolExecution: resp.StopReason == stopReasonToolUse,
	}
}

func textMessage(role, content string) BlockMessage {
	return BlockMessage{
		Role:    role,
		Content: []ContentBlock{{Type: blockTypeText, Text: content}},
	}
}

// parseArguments re-parses serialized tool arguments into a structured object
// for the wire. Unparsable arguments degrade to an empty object rather than
// failing the encode.
func parseArguments(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || !json.Valid(raw) {
		return json.RawMessage("{}")
	}
	return raw
}
