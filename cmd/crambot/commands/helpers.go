package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/54b3r/crambot-go/internal/embedder"
	"github.com/54b3r/crambot-go/internal/ingestion"
	"github.com/54b3r/crambot-go/internal/provider"
	"github.com/54b3r/crambot-go/internal/rag"
	"github.com/54b3r/crambot-go/internal/study"
	"github.com/54b3r/crambot-go/internal/telemetry"
	"github.com/54b3r/crambot-go/internal/video"
)

// defaultCollection is the Qdrant collection holding the study corpus.
const defaultCollection = "crambot"

// app bundles the wired pipeline shared by the serve and generate commands.
type app struct {
	// assistant is the generation orchestrator.
	assistant *study.Assistant
	// pipeline replaces the study corpus from raw text.
	pipeline *ingestion.Pipeline
	// store is the Qdrant-backed vector store (exposed for readiness probes).
	store *rag.QdrantStore
	// close releases the store connection and flushes telemetry.
	close func()
}

// buildStore wires the embedder and Qdrant vector store from the environment.
// It is the ingest-only subset of buildApp — `crambot learn` uses it without
// paying for chat model construction.
func buildStore(ctx context.Context, log *slog.Logger) (*rag.CorpusStore, *rag.QdrantStore, error) {
	if err := embedder.ValidateEnv(log); err != nil {
		return nil, nil, err
	}
	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, nil, err
	}

	store, err := rag.NewQdrantStore(ctx, &rag.QdrantConfig{
		Host:       os.Getenv("QDRANT_HOST"),
		Port:       getEnvInt("QDRANT_PORT", 0),
		Collection: getEnvOrDefault("QDRANT_COLLECTION", defaultCollection),
		VectorSize: uint64(embedder.DefaultDimensions(embedder.ResolveBackend())),
		APIKey:     os.Getenv("QDRANT_API_KEY"),
		UseTLS:     os.Getenv("QDRANT_TLS") == "true",
	})
	if err != nil {
		return nil, nil, err
	}

	corpus, err := rag.NewCorpusStore(emb, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return corpus, store, nil
}

// buildApp wires the full generation pipeline: embedder, vector store,
// retriever, chat model, dispatcher, telemetry, and video lookup.
func buildApp(ctx context.Context, log *slog.Logger) (*app, error) {
	corpus, store, err := buildStore(ctx, log)
	if err != nil {
		return nil, err
	}

	retriever, err := rag.NewContextRetriever(corpus, rag.DefaultTopK)
	if err != nil {
		store.Close()
		return nil, err
	}
	pipeline, err := ingestion.NewPipeline(corpus)
	if err != nil {
		store.Close()
		return nil, err
	}

	chatModel, err := provider.NewFromEnv(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialise model provider: %w", err)
	}
	gen, err := study.NewChatGenerator(chatModel)
	if err != nil {
		store.Close()
		return nil, err
	}
	dispatcher, err := study.NewDispatcher(gen)
	if err != nil {
		store.Close()
		return nil, err
	}

	// Telemetry is on by default; TELEMETRY_PATH=disabled turns it off.
	var recorder telemetry.Recorder
	telemetryPath := getEnvOrDefault("TELEMETRY_PATH", telemetry.DefaultPath)
	if telemetryPath != "disabled" {
		recorder = telemetry.NewFileRecorder(telemetryPath)
		log.Info("telemetry enabled", slog.String("path", telemetryPath))
	} else {
		log.Info("telemetry disabled via TELEMETRY_PATH=disabled")
	}

	videos := video.NewYouTubeClient(&video.Config{
		BaseURL:    os.Getenv("YOUTUBE_BASE_URL"),
		MaxResults: getEnvInt("YOUTUBE_MAX_RESULTS", 0),
	})

	assistant, err := study.New(&study.Config{
		Retriever:  retriever,
		Dispatcher: dispatcher,
		Recorder:   recorder,
		Videos:     videos,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		assistant: assistant,
		pipeline:  pipeline,
		store:     store,
		close:     func() { store.Close() },
	}, nil
}

// getEnvOrDefault returns the value of the named environment variable, or
// fallback if the variable is unset or empty.
func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt returns the integer value of the named environment variable, or
// fallback if the variable is unset, empty, or not parseable.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
