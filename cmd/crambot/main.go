// Command crambot is the entry point for the CramBot study assistant.
// It provides a CLI (via Cobra) for ingesting study material and generating
// notes, quizzes, and video suggestions, plus an HTTP server mode.
package main

import (
	"fmt"
	"os"

	"github.com/54b3r/crambot-go/cmd/crambot/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
