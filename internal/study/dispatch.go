package study

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// TextGenerator is the opaque language-model capability: prompt in, raw text
// out. Implementations must be safe to call from multiple goroutines.
type TextGenerator interface {
	// Generate produces text for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Dispatcher invokes the TextGenerator and parses/validates the result
// according to mode.
type Dispatcher struct {
	// generator is the underlying language-model capability.
	generator TextGenerator
}

// NewDispatcher constructs a Dispatcher over the given generator.
func NewDispatcher(generator TextGenerator) (*Dispatcher, error) {
	if generator == nil {
		return nil, fmt.Errorf("study: generator must not be nil")
	}
	return &Dispatcher{generator: generator}, nil
}

// Dispatch sends the prompt to the generator and shapes the raw text into the
// mode's content type.
//
// Notes mode returns the raw text as-is. Quiz mode strips markdown code-fence
// markers, parses the remainder as JSON, and validates the quiz schema;
// parse or validation failure is ErrInvalidFormat and discards the raw text.
// A failure of the generator itself is ErrGenerator — callers can tell "the
// model never answered" from "the model answered badly".
func (d *Dispatcher) Dispatch(ctx context.Context, mode Mode, prompt string) (Content, error) {
	raw, err := d.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("study: %w: %v", ErrGenerator, err)
	}

	switch mode {
	case ModeNotes:
		return NotesContent(raw), nil

	case ModeQuiz:
		return parseQuiz(raw)

	default:
		return nil, fmt.Errorf("study: mode %q cannot be dispatched", mode)
	}
}

// parseQuiz strips code fences from raw model output and parses it into a
// validated QuizContent.
func parseQuiz(raw string) (Content, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var quiz QuizContent
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, fmt.Errorf("study: %w: %v", ErrInvalidFormat, err)
	}
	if err := quiz.Validate(); err != nil {
		return nil, fmt.Errorf("study: %w: %v", ErrInvalidFormat, err)
	}

	return quiz, nil
}
