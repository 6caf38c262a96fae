// Package commands defines all Cobra CLI commands for the crambot binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/54b3r/crambot-go/internal/audit"
	"github.com/54b3r/crambot-go/internal/config"
	"github.com/54b3r/crambot-go/internal/logging"
)

// configPath holds the --config flag value for YAML config file override.
var configPath string

// loadedConfigPath stores the resolved config file path for audit logging.
var loadedConfigPath string

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "crambot",
		Short: "CramBot — a retrieval-grounded study assistant powered by LLMs",
		Long: `CramBot is a local-first study assistant. Upload your study material
once, then generate concise notes, multiple-choice quizzes, and video
suggestions grounded in what you uploaded.

Material is chunked and embedded into a Qdrant vector store; notes and
quizzes are generated against the best-matching sections so the output
stays faithful to your own material.

Model provider is selected via the MODEL_PROVIDER environment variable
or a YAML config file (~/.crambot/config.yaml).
See 'crambot --help' for available commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			path, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			loadedConfigPath = path

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.Name(), loadedConfigPath)

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.crambot/config.yaml)")

	root.AddCommand(
		NewServeCmd(),
		NewLearnCmd(),
		NewNotesCmd(),
		NewQuizCmd(),
		NewVideoCmd(),
		NewVersionCmd(),
	)

	return root
}
