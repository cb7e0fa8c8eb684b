package config

// DefaultConfig returns the baseline configuration before file and
// environment overrides.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendChat,
		API: APIConfig{
			BaseURL:        "http://127.0.0.1:18789",
			Model:          "claude-sonnet-4-20250514",
			TimeoutSeconds: 120,
		},
		Agent: AgentConfig{
			MaxRounds:   5,
			MaxTokens:   4096,
			WindowLimit: 50,
			PromptDir:   DefaultPromptDir(),
		},
		Data: DataConfig{
			DatabasePath: DefaultDatabasePath(),
		},
		LogLevel: "warn",
	}
}
