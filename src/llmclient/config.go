package llmclient

import (
	"log/slog"
	"time"
)

// Config holds configuration shared by the backend clients.
type Config struct {
	APIKey  string        // API key or gateway bearer token
	BaseURL string        // Base URL for the backend API
	Model   string        // Model identifier sent with every request
	Timeout time.Duration // HTTP deadline per call
	Logger  *slog.Logger
}
