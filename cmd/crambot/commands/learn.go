package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/54b3r/crambot-go/internal/ingestion"
	"github.com/54b3r/crambot-go/internal/logging"
)

// NewLearnCmd constructs the `crambot learn` command, which replaces the
// study corpus with the given material.
func NewLearnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learn [file]",
		Short: "Replace the study corpus with new material",
		Long: `Chunk the given study material and store it in the vector store,
replacing whatever was learned before. Reads from the file argument, or
from stdin when no file is given.

Sections are split on blank lines, so paragraphs become retrieval units.

Examples:
  crambot learn chapter4.txt
  pbpaste | crambot learn`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			var data []byte
			var err error
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("learn: %w", err)
				}
			} else {
				data, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("learn: read stdin: %w", err)
				}
			}

			corpus, store, err := buildStore(ctx, log)
			if err != nil {
				return fmt.Errorf("learn: %w", err)
			}
			defer store.Close()

			pipeline, err := ingestion.NewPipeline(corpus)
			if err != nil {
				return fmt.Errorf("learn: %w", err)
			}

			chunks, err := pipeline.Ingest(ctx, string(data))
			if err != nil {
				return fmt.Errorf("learn: %w", err)
			}

			log.Info("corpus replaced", slog.Int("chunks", chunks))
			fmt.Printf("Stored %d section(s) of study material.\n", chunks)
			return nil
		},
	}
}
