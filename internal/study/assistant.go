package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/54b3r/crambot-go/internal/logging"
	"github.com/54b3r/crambot-go/internal/telemetry"
	"github.com/54b3r/crambot-go/internal/video"
)

// videoTopicSuffix is appended to every video-mode lookup query. It biases
// all video results toward astronomy regardless of the input topic — a
// product assumption inherited from the original assistant, kept as a named
// constant so it is visible rather than buried in a call site.
const videoTopicSuffix = " astronomy"

// Retriever is the context-retrieval capability consumed by the assistant.
// *rag.ContextRetriever satisfies it; tests inject a fake.
type Retriever interface {
	// Retrieve returns the prompt context for the given topic.
	Retrieve(ctx context.Context, topic string) (string, error)
}

// Config holds the dependencies required to construct an Assistant.
type Config struct {
	// Retriever supplies grounded context for notes and quiz prompts.
	Retriever Retriever

	// Dispatcher invokes the text generator and validates its output.
	Dispatcher *Dispatcher

	// Recorder receives one telemetry event per successful non-video
	// generation. May be nil to disable telemetry.
	Recorder telemetry.Recorder

	// Videos performs video-mode lookups. May be nil when video mode is not
	// configured; video requests then fail with ErrNotFound.
	Videos video.Searcher
}

// Assistant composes the pipeline stages into the public generate operation:
// safety filter → (video lookup | retrieve → prompt → dispatch) → telemetry.
type Assistant struct {
	// retriever supplies grounded context for prompts.
	retriever Retriever

	// dispatcher invokes the text generator.
	dispatcher *Dispatcher

	// recorder is the best-effort telemetry sink. May be nil.
	recorder telemetry.Recorder

	// videos is the video lookup client. May be nil.
	videos video.Searcher
}

// New constructs an Assistant from the provided Config.
func New(cfg *Config) (*Assistant, error) {
	if cfg.Retriever == nil {
		return nil, fmt.Errorf("study: Retriever must not be nil")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("study: Dispatcher must not be nil")
	}
	return &Assistant{
		retriever:  cfg.Retriever,
		dispatcher: cfg.Dispatcher,
		recorder:   cfg.Recorder,
		videos:     cfg.Videos,
	}, nil
}

// Generate produces content for the topic in the requested mode.
//
// The safety filter runs first, so rejected topics incur no store or model
// cost and leave no telemetry. Video mode branches to the external lookup
// and never touches the vector store, prompt builder, or recorder. Notes and
// quiz retrieve context, build the mode prompt, dispatch to the generator,
// then record one telemetry event — best-effort, after the content is already
// secured.
func (a *Assistant) Generate(ctx context.Context, topic string, mode Mode) (Content, error) {
	start := time.Now()

	if IsUnsafe(topic) {
		return nil, fmt.Errorf("study: topic rejected: %w", ErrUnsafeInput)
	}

	if mode == ModeVideo {
		return a.lookupVideo(ctx, topic)
	}

	promptContext, err := a.retriever.Retrieve(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("study: %w: %v", ErrGenerator, err)
	}

	prompt, err := BuildPrompt(mode, promptContext, topic)
	if err != nil {
		return nil, err
	}

	content, err := a.dispatcher.Dispatch(ctx, mode, prompt)
	if err != nil {
		return nil, err
	}

	a.record(ctx, topic, mode, time.Since(start))

	return content, nil
}

// lookupVideo performs the video-mode branch: one external lookup with the
// fixed topical suffix, returning the first result.
func (a *Assistant) lookupVideo(ctx context.Context, topic string) (Content, error) {
	if a.videos == nil {
		return nil, fmt.Errorf("study: video lookup not configured: %w", ErrNotFound)
	}

	results, err := a.videos.Search(ctx, topic+videoTopicSuffix)
	if err != nil {
		return nil, fmt.Errorf("study: %w: video lookup: %v", ErrGenerator, err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("study: no video found: %w", ErrNotFound)
	}

	first := results[0]
	return VideoContent{
		Title: first.Title,
		ID:    first.ID,
		URL:   video.EmbedURL(first.ID),
	}, nil
}

// record emits one telemetry event. Failures are logged and swallowed — the
// content is already on its way back to the caller.
func (a *Assistant) record(ctx context.Context, topic string, mode Mode, elapsed time.Duration) {
	if a.recorder == nil {
		return
	}

	event := telemetry.Event{
		Time:    telemetry.EpochSeconds(time.Now()),
		Latency: telemetry.RoundLatency(elapsed),
		Mode:    string(mode),
		Topic:   topic,
	}
	if err := a.recorder.Record(event); err != nil {
		logging.FromContext(ctx).Warn("telemetry record failed", slog.Any("error", err))
	}
}
