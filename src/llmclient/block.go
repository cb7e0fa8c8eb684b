package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/marubot/maru/src/aisdk"
)

const anthropicVersion = "2023-06-01"

var _ aisdk.ModelClient = (*BlockClient)(nil)

// BlockClient speaks the content-block wire contract: request
// {model, system?, messages[], max_tokens, tools?}, response
// {content: block[], stop_reason}.
type BlockClient struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewBlockClient creates a client for a content-block style backend.
func NewBlockClient(config Config) *BlockClient {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BlockClient{
		config:     config,
		httpClient: newHTTPClient(config.Timeout),
		logger:     logger.With("component", "block_client"),
	}
}

// Complete encodes the uniform request onto the content-block wire, makes a
// single attempt, and decodes the response.
func (c *BlockClient) Complete(ctx context.Context, req *aisdk.CompletionRequest) (*aisdk.Completion, error) {
	logger := c.logger.With("model", c.config.Model)
	logger.Debug("sending messages request", "messages", len(req.Messages), "tools", len(req.Tools))

	system, wireMessages := EncodeBlockMessages(req.Messages)
	wireReq := &BlockRequest{
		Model:     c.config.Model,
		System:    system,
		Messages:  wireMessages,
		MaxTokens: req.MaxTokens,
		Tools:     EncodeBlockTools(req.Tools),
	}

	body, err := marshalBody(wireReq)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/messages", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
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

	var result BlockResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	completion := DecodeBlockResponse(&result)
	logger.Info("messages request successful",
		"stop_reason", result.StopReason,
		"tool_calls", len(completion.ToolCalls))
	return completion, nil
}
