package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marubot/maru/src/storage"
)

// MigrateCmd opens the database, which runs any pending migrations.
type MigrateCmd struct {
	DBPath string `help:"Database path (defaults to config)"`
}

func (c *MigrateCmd) Run(cli *CLI) error {
	dbPath := c.DBPath
	if dbPath == "" {
		cfg, err := loadConfig(cli)
		if err != nil {
			return err
		}
		dbPath = cfg.Data.DatabasePath
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Database ready: %s (migrations applied)\n", dbPath)
	return nil
}
