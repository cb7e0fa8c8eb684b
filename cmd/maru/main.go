package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	Config   string `help:"Path to config file"`
	LogLevel string `help:"Log level override (debug, info, warn, error)"`

	Chat    ChatCmd    `cmd:"" help:"Send a single message and print the reply"`
	Repl    ReplCmd    `cmd:"" help:"Interactive chat session"`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("maru"),
		kong.Description("Conversational assistant with tools and long-term memory"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
