package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/marubot/maru/src/core"
)

// ChatCmd sends a single message and prints the reply.
type ChatCmd struct {
	User    string `help:"User identifier" default:"local"`
	Message string `arg:"" help:"Message to send"`
}

func (c *ChatCmd) Run(cli *CLI) error {
	agentCore, db, err := buildCore(cli)
	if err != nil {
		return err
	}
	defer db.Close()

	reply, err := agentCore.Chat(context.Background(), c.User, c.Message)
	if err != nil {
		// The user gets the generic notice; the logs carry the detail.
		fmt.Println(core.GenericFailureReply)
		return nil
	}

	fmt.Println(reply)
	return nil
}

// ReplCmd runs an interactive chat session on stdin/stdout.
type ReplCmd struct {
	User string `help:"User identifier" default:"local"`
}

func (c *ReplCmd) Run(cli *CLI) error {
	agentCore, db, err := buildCore(cli)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("maru interactive session. Type 'exit' or 'quit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply, err := agentCore.Chat(context.Background(), c.User, line)
		if err != nil {
			fmt.Println(core.GenericFailureReply)
			continue
		}
		fmt.Println(reply)
	}

	return scanner.Err()
}
