package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/marubot/maru/src/aisdk"
)

var _ aisdk.ModelClient = (*ChatClient)(nil)

// ChatClient speaks the chat-completions wire contract: request
// {model, messages[], max_tokens, tools?}, response choices[0].message.
// The uniform message types serialize onto this contract directly, so encode
// and decode are passthrough.
type ChatClient struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewChatClient creates a client for a chat-completions style backend.
func NewChatClient(config Config) *ChatClient {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatClient{
		config:     config,
		httpClient: newHTTPClient(config.Timeout),
		logger:     logger.With("component", "chat_client"),
	}
}

// Complete sends one chat completion request and decodes the first choice.
func (c *ChatClient) Complete(ctx context.Context, req *aisdk.CompletionRequest) (*aisdk.Completion, error) {
	logger := c.logger.With("model", c.config.Model)
	logger.Debug("sending chat completion request", "messages", len(req.Messages), "tools", len(req.Tools))

	wireReq := &aisdk.ChatCompletionRequest{
		Model:     c.config.Model,
		Messages:  req.Messages,
		MaxTokens: req.MaxTokens,
		Tools:     req.Tools,
	}

	body, err := marshalBody(wireReq)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/chat/completions", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("received error response", "status_code", resp.StatusCode)
		return nil, handleError(resp)
	}

	var result aisdk.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	msg := result.Choices[0].Message
	logger.Info("chat completion successful",
		"usage_total", result.Usage.TotalTokens,
		"tool_calls", len(msg.ToolCalls))

	return &aisdk.Completion{
		Text:               msg.Content,
		ToolCalls:          msg.ToolCalls,
		NeedsToolExecution: len(msg.ToolCalls) > 0,
	}, nil
}
