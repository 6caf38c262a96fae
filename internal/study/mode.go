// Package study implements the core generation pipeline of the assistant:
// safety filtering, context retrieval, prompt construction, model dispatch,
// output validation, and telemetry. The two public operations — ingest and
// generate — are exposed as plain function calls; HTTP routing lives in
// internal/server.
package study

import (
	"fmt"
)

// Mode selects what the assistant produces for a topic. The set is closed:
// notes, quiz, and video are the only modes, fixed at compile time.
type Mode string

const (
	// ModeNotes produces free-form bullet-point study notes.
	ModeNotes Mode = "notes"
	// ModeQuiz produces one validated multiple-choice question.
	ModeQuiz Mode = "quiz"
	// ModeVideo looks up a related video instead of generating text.
	ModeVideo Mode = "video"
)

// ParseMode converts a wire-level mode string into a Mode.
// Unknown values are a client error.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNotes, ModeQuiz, ModeVideo:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("study: unknown mode %q — valid values: notes, quiz, video", s)
	}
}
