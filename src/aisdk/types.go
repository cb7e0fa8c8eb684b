// Package aisdk defines the uniform message and tool-call representation shared
// by the tool-use loop and the backend protocol adapters.
package aisdk

import (
	"context"
	"encoding/json"
	"time"

	jsonschema "github.com/swaggest/jsonschema-go"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// ToolCallID is required for tool-role messages to reference the call
	// issued by the immediately preceding assistant message.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolCalls contains function calls requested by the assistant.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

// ToolCall represents a function call request from the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"` // always "function" for now
	Function FunctionCall `json:"function"`
}

// FunctionCall contains the function name and serialized arguments.
type FunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResponse is the result of executing a single tool call.
type ToolResponse struct {
	Type    string `json:"type"`
	Content []byte `json:"content"`
	IsError bool   `json:"is_error"`
}

// ChatTool represents a tool declaration in the format expected by chat
// completion APIs.
type ChatTool struct {
	Type     string           `json:"type"` // always "function" for function tools
	Function ChatToolFunction `json:"function"`
}

// ChatToolFunction represents the function definition for chat APIs.
type ChatToolFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// CompletionRequest is the backend-agnostic request built by the tool-use loop.
type CompletionRequest struct {
	Messages  []*Message
	Tools     []*ChatTool
	MaxTokens int
}

// Completion is the decoded, backend-agnostic model response. Text is empty
// when the response carried no text. NeedsToolExecution reports whether the
// backend stopped to wait for tool results.
type Completion struct {
	Text               string
	ToolCalls          []ToolCall
	NeedsToolExecution bool
}

// ModelClient is implemented by each backend protocol adapter. Complete makes
// exactly one attempt against the backend; a non-success response is returned
// as an error, never retried here.
type ModelClient interface {
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}
