package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/54b3r/crambot-go/internal/study"
)

// Request body bounds for POST /api/learn. Uploads below the minimum carry
// too little signal to chunk; uploads above the maximum are rejected before
// any embedding work happens.
const (
	MinLearnChars = 50
	MaxLearnChars = 50000
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	// Generation requests wait on the LLM, so this defaults generously.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, slog.Default is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// MetricsRegistry receives all server metric registrations. If nil, a
	// fresh registry is created (also served by GET /metrics).
	MetricsRegistry *prometheus.Registry
}

// ingester is the interface handleLearn calls to replace the study corpus.
// *ingestion.Pipeline satisfies it; tests inject a fake.
type ingester interface {
	// Ingest chunks the text and replaces the corpus, returning the number
	// of stored chunks.
	Ingest(ctx context.Context, text string) (int, error)
}

// generator is the interface handleGenerate calls to produce study content.
// *study.Assistant satisfies it; tests inject a fake.
type generator interface {
	Generate(ctx context.Context, topic string, mode study.Mode) (study.Content, error)
}

// Server is the HTTP server exposing the study assistant API.
type Server struct {
	ingester  ingester
	generator generator
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds the Prometheus instruments owned by this server.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// learnRequest is the JSON body for POST /api/learn.
type learnRequest struct {
	// Text is the raw study material to ingest.
	Text string `json:"text"`
}

// learnResponse is the JSON response for POST /api/learn.
type learnResponse struct {
	// Chunks is the number of sections stored in the corpus.
	Chunks int `json:"chunks"`
}

// generateRequest is the JSON body for POST /api/generate.
type generateRequest struct {
	// Topic is the subject to generate content about.
	Topic string `json:"topic"`
	// Mode selects the output kind: notes, quiz, or video.
	Mode string `json:"mode"`
}

// generateResponse is the JSON response for POST /api/generate. Exactly one
// of Notes, Quiz, or Video is populated, matching Mode.
type generateResponse struct {
	Mode  string              `json:"mode"`
	Topic string              `json:"topic"`
	Notes string              `json:"notes,omitempty"`
	Quiz  *study.QuizContent  `json:"quiz,omitempty"`
	Video *study.VideoContent `json:"video,omitempty"`
}

// errorResponse is the JSON body for all non-2xx API responses.
type errorResponse struct {
	Error string `json:"error"`
}
