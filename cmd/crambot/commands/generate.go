package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/54b3r/crambot-go/internal/logging"
	"github.com/54b3r/crambot-go/internal/study"
)

// NewNotesCmd constructs the `crambot notes` command.
func NewNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes <topic>",
		Short: "Generate bullet-point study notes for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], study.ModeNotes)
		},
	}
}

// NewQuizCmd constructs the `crambot quiz` command.
func NewQuizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quiz <topic>",
		Short: "Generate a multiple-choice quiz question for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], study.ModeQuiz)
		},
	}
}

// NewVideoCmd constructs the `crambot video` command.
func NewVideoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "video <topic>",
		Short: "Look up an embeddable video for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], study.ModeVideo)
		},
	}
}

// runGenerate wires the pipeline, runs one generation, and prints the result
// in a mode-appropriate format.
func runGenerate(cmd *cobra.Command, topic string, mode study.Mode) error {
	ctx := cmd.Context()
	log := logging.New()
	ctx = logging.WithLogger(ctx, log)

	a, err := buildApp(ctx, log)
	if err != nil {
		return fmt.Errorf("%s: %w", mode, err)
	}
	defer a.close()

	content, err := a.assistant.Generate(ctx, topic, mode)
	if err != nil {
		return fmt.Errorf("%s: %w", mode, err)
	}

	switch c := content.(type) {
	case study.NotesContent:
		fmt.Println(string(c))
	case study.QuizContent:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("%s: encode: %w", mode, err)
		}
	case study.VideoContent:
		fmt.Printf("%s\n%s\n", c.Title, c.URL)
	}
	return nil
}
