package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/54b3r/crambot-go/internal/embedder"
	"github.com/54b3r/crambot-go/internal/logging"
	"github.com/54b3r/crambot-go/internal/server"
	"github.com/54b3r/crambot-go/internal/tracing"
)

// NewServeCmd constructs the `crambot serve` command, which starts the HTTP
// API server.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CramBot HTTP API server",
		Long: `Start the CramBot HTTP server on localhost.

The server exposes POST /api/learn for corpus uploads, POST /api/generate
for notes/quiz/video generation, plus health, readiness, and Prometheus
metrics endpoints.

Examples:
  crambot serve
  crambot serve --port 9090
  MODEL_PROVIDER=azure crambot serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Langfuse tracing is opt-in; no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			a, err := buildApp(ctx, log)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer a.close()

			pingers := []server.Pinger{
				server.NewQdrantPinger(a.store.Client()),
			}
			// Probe Ollama when it serves either chat or embeddings.
			if getEnvOrDefault("MODEL_PROVIDER", "ollama") == "ollama" || embedder.ResolveBackend() == "ollama" {
				ollamaHost := getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434")
				pingers = append(pingers, server.NewHTTPPinger("ollama", ollamaHost))
			}

			if host == "" {
				host = getEnvOrDefault("SERVER_HOST", "127.0.0.1")
			}
			if port == 0 {
				port = getEnvInt("SERVER_PORT", 8080)
			}

			srv, err := server.New(a.pipeline, a.assistant, &server.Config{
				Host:    host,
				Port:    port,
				Logger:  log,
				Pingers: pingers,
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host address to bind to (default: SERVER_HOST or 127.0.0.1)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "TCP port to listen on (default: SERVER_PORT or 8080)")

	return cmd
}
