package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/marubot/maru/src/agent"
	"github.com/marubot/maru/src/aisdk"
	"github.com/marubot/maru/src/config"
	"github.com/marubot/maru/src/core"
	"github.com/marubot/maru/src/llmclient"
	"github.com/marubot/maru/src/maruagent"
	"github.com/marubot/maru/src/maruagent/tools/tool_datetime"
	"github.com/marubot/maru/src/maruagent/tools/tool_memory"
	"github.com/marubot/maru/src/memory"
	"github.com/marubot/maru/src/storage"
	"github.com/spf13/afero"
)

// loadConfig resolves the config path and applies CLI overrides.
func loadConfig(cli *CLI) (*config.Config, error) {
	path := cli.Config
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	return cfg, nil
}

// openDatabase creates the parent directory and opens the SQLite store,
// running migrations in the process.
func openDatabase(cfg *config.Config) (*storage.DB, error) {
	dbPath := cfg.Data.DatabasePath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// newModelClient builds the protocol adapter selected by cfg.Backend.
func newModelClient(cfg *config.Config, logger *slog.Logger) aisdk.ModelClient {
	clientCfg := llmclient.Config{
		APIKey:  cfg.API.APIKey,
		BaseURL: cfg.API.BaseURL,
		Model:   cfg.API.Model,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
		Logger:  logger,
	}

	if cfg.Backend == config.BackendBlock {
		return llmclient.NewBlockClient(clientCfg)
	}
	return llmclient.NewChatClient(clientCfg)
}

// buildToolbox registers the memory and datetime tools.
func buildToolbox(ltm *memory.LongTermMemory, logger *slog.Logger) (*agent.DefaultToolbox, error) {
	toolbox := agent.NewToolbox[agent.Tool]()
	toolbox.RegisterMiddleware(agent.LoggingMiddleware(logger))

	memTools, err := tool_memory.Tools(ltm)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory tools: %w", err)
	}
	for _, t := range memTools {
		if err := toolbox.RegisterTool(t); err != nil {
			return nil, err
		}
	}

	dtTool, err := tool_datetime.Tool()
	if err != nil {
		return nil, fmt.Errorf("failed to create datetime tool: %w", err)
	}
	if err := toolbox.RegisterTool(dtTool); err != nil {
		return nil, err
	}

	return toolbox, nil
}

// buildCore wires storage, memory, the model client, and the toolbox into a
// ready AgentCore. The caller must Close the returned DB.
func buildCore(cli *CLI) (*core.AgentCore, *storage.DB, error) {
	cfg, err := loadConfig(cli)
	if err != nil {
		return nil, nil, err
	}

	logger := createCLILogger(cfg.LogLevel)

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	history := memory.NewHistory(db.DB(), cfg.Agent.WindowLimit, logger)
	ltm := memory.NewLongTermMemory(db.DB(), logger)

	client := newModelClient(cfg, logger)
	summarizer := memory.NewSummarizer(ltm, client, logger)

	toolbox, err := buildToolbox(ltm, logger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	prompt := maruagent.NewPromptBuilder(afero.NewOsFs(), cfg.Agent.PromptDir)

	agentCore := core.New(core.Options{
		Client:     client,
		Toolbox:    toolbox,
		History:    history,
		Summarizer: summarizer,
		Prompt:     prompt,
		Modes:      maruagent.NewModeManager(),
		MaxRounds:  cfg.Agent.MaxRounds,
		MaxTokens:  cfg.Agent.MaxTokens,
		Logger:     logger,
	})

	return agentCore, db, nil
}
