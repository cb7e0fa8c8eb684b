// Package config loads and validates maru's configuration from the XDG
// config file and environment overrides.
package config

// Backend selects which wire protocol the model client speaks.
const (
	BackendChat  = "chat"  // chat-completions style (gateway)
	BackendBlock = "block" // content-block style (direct)
)

// Config represents the complete configuration for maru.
type Config struct {
	// Backend selects the protocol adapter: "chat" or "block".
	Backend string `json:"backend" validate:"required,oneof=chat block"`

	// API configuration for the model backend.
	API APIConfig `json:"api"`

	// Agent configuration for the tool-use loop and history window.
	Agent AgentConfig `json:"agent"`

	// Data directory configuration.
	Data DataConfig `json:"data"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model" validate:"required"`
	// TimeoutSeconds bounds each backend call.
	TimeoutSeconds int `json:"timeout_seconds" validate:"omitempty,min=1"`
}

// AgentConfig holds loop and context-window settings.
type AgentConfig struct {
	MaxRounds   int    `json:"max_rounds" validate:"omitempty,min=1"`
	MaxTokens   int    `json:"max_tokens" validate:"omitempty,min=1"`
	WindowLimit int    `json:"window_limit" validate:"omitempty,min=1"`
	PromptDir   string `json:"prompt_dir"`
}

// DataConfig holds storage paths.
type DataConfig struct {
	DatabasePath string `json:"database_path"`
}
