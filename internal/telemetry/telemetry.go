// Package telemetry records one structured event per successful generation to
// an append-only JSONL sink. Recording is best-effort by contract: the
// pipeline logs failures and moves on — a telemetry error must never fail the
// surrounding request. Events are write-only; nothing in the pipeline reads
// them back.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultPath is the default telemetry sink file.
const DefaultPath = "telemetry.jsonl"

// Event is one generation record.
type Event struct {
	// Time is the completion timestamp in epoch seconds.
	Time float64 `json:"time"`
	// Latency is the request duration in seconds, rounded to 2 decimals.
	Latency float64 `json:"latency"`
	// Mode is the generation mode ("notes" or "quiz").
	Mode string `json:"mode"`
	// Topic is the raw topic text of the request.
	Topic string `json:"topic"`
}

// Recorder is the sink capability consumed by the pipeline.
// Implementations must be safe to call from multiple goroutines.
type Recorder interface {
	// Record appends one event to the sink.
	Record(event Event) error
}

// JSONLRecorder appends events as one JSON object per line.
type JSONLRecorder struct {
	// mu serializes writes so concurrent events never interleave mid-line.
	mu sync.Mutex
	// w is the underlying line sink.
	w io.Writer
}

// NewFileRecorder constructs a JSONLRecorder over a size-rotated file at the
// given path (50 MB per file, 3 backups).
func NewFileRecorder(path string) *JSONLRecorder {
	if path == "" {
		path = DefaultPath
	}
	return NewRecorder(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 3,
	})
}

// NewRecorder constructs a JSONLRecorder over an arbitrary writer.
func NewRecorder(w io.Writer) *JSONLRecorder {
	return &JSONLRecorder{w: w}
}

// Record marshals the event and appends it as a single line.
func (r *JSONLRecorder) Record(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("telemetry: marshal event: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.Write(line); err != nil {
		return fmt.Errorf("telemetry: write event: %w", err)
	}
	return nil
}

// EpochSeconds converts a time to fractional epoch seconds.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// RoundLatency converts a duration to seconds rounded to 2 decimals.
func RoundLatency(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
