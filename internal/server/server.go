// Package server implements the HTTP server that exposes corpus ingestion
// and study content generation as a REST API, plus health, readiness, and
// Prometheus metrics endpoints. The server is started by the
// `crambot serve` CLI command.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/54b3r/crambot-go/internal/logging"
	"github.com/54b3r/crambot-go/internal/study"
)

// New constructs a Server from the ingestion pipeline, the study assistant,
// and the config.
func New(ing ingester, gen generator, cfg *Config) (*Server, error) {
	if ing == nil {
		return nil, fmt.Errorf("server: ingester must not be nil")
	}
	if gen == nil {
		return nil, fmt.Errorf("server: generator must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// WriteTimeout must cover a full LLM generation round trip.
		cfg.WriteTimeout = 2 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = defaultRateBurst
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	reg := cfg.MetricsRegistry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Server{
		ingester:  ing,
		generator: gen,
		cfg:       cfg,
		log:       log,
		pingers:   cfg.Pingers,
		metrics:   newServerMetrics(reg),
	}

	rl, stopRL := newRateLimiter(cfg.RateLimit, cfg.RateBurst, log)
	s.stopRL = stopRL

	mux := http.NewServeMux()
	mux.Handle("POST /api/learn", rl.middleware(s.instrument("learn", s.handleLearn)))
	mux.Handle("POST /api/generate", rl.middleware(s.instrument("generate", s.handleGenerate)))
	mux.Handle("GET /api/health", s.instrument("health", s.handleHealth))
	mux.Handle("GET /api/ready", s.instrument("ready", s.handleReady))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      requestLogger(log, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// Start begins listening and serving HTTP requests. It blocks until the
// context is cancelled, then performs a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server: listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.stopRL()
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		s.stopRL()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// handleLearn handles POST /api/learn. It validates the upload size, then
// replaces the study corpus with the chunked text.
func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		s.metrics.learnRequestsTotal.WithLabelValues(outcomeBadRequest).Inc()
		return
	}
	if n := len(req.Text); n < MinLearnChars || n > MaxLearnChars {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("text must be between %d and %d characters, got %d", MinLearnChars, MaxLearnChars, n))
		s.metrics.learnRequestsTotal.WithLabelValues(outcomeBadRequest).Inc()
		return
	}

	chunks, err := s.ingester.Ingest(r.Context(), req.Text)
	if err != nil {
		log := logging.FromContext(r.Context())
		log.Error("learn failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to store study material")
		s.metrics.learnRequestsTotal.WithLabelValues(outcomeError).Inc()
		return
	}

	s.metrics.learnRequestsTotal.WithLabelValues(outcomeOK).Inc()
	writeJSON(w, http.StatusOK, learnResponse{Chunks: chunks})
}

// handleGenerate handles POST /api/generate. Failures from the assistant
// are mapped onto HTTP status codes: rejected or malformed input is 400,
// a missing video is 404, everything else is 500.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		s.metrics.generateRequestsTotal.WithLabelValues("unknown", outcomeBadRequest).Inc()
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		s.metrics.generateRequestsTotal.WithLabelValues("unknown", outcomeBadRequest).Inc()
		return
	}
	mode, err := study.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		s.metrics.generateRequestsTotal.WithLabelValues("unknown", outcomeBadRequest).Inc()
		return
	}

	start := time.Now()
	content, err := s.generator.Generate(r.Context(), req.Topic, mode)
	s.metrics.generateDurationSeconds.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())

	if err != nil {
		log := logging.FromContext(r.Context())
		switch {
		case errors.Is(err, study.ErrUnsafeInput):
			writeError(w, http.StatusBadRequest, "topic rejected")
			s.metrics.generateRequestsTotal.WithLabelValues(string(mode), outcomeBadRequest).Inc()
		case errors.Is(err, study.ErrNotFound):
			writeError(w, http.StatusNotFound, "no video found for topic")
			s.metrics.generateRequestsTotal.WithLabelValues(string(mode), outcomeNotFound).Inc()
		default:
			log.Error("generate failed",
				slog.String("mode", string(mode)),
				slog.Any("error", err),
			)
			writeError(w, http.StatusInternalServerError, "generation failed")
			s.metrics.generateRequestsTotal.WithLabelValues(string(mode), outcomeError).Inc()
		}
		return
	}

	resp := generateResponse{Mode: string(mode), Topic: req.Topic}
	switch c := content.(type) {
	case study.NotesContent:
		resp.Notes = string(c)
	case study.QuizContent:
		resp.Quiz = &c
	case study.VideoContent:
		resp.Video = &c
	default:
		writeError(w, http.StatusInternalServerError, "generation failed")
		s.metrics.generateRequestsTotal.WithLabelValues(string(mode), outcomeError).Inc()
		return
	}

	s.metrics.generateRequestsTotal.WithLabelValues(string(mode), outcomeOK).Inc()
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
