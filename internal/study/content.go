package study

import (
	"fmt"
)

// Content is the closed union of generate results. Exactly one of
// NotesContent, QuizContent, or VideoContent is returned per call,
// matching the requested mode.
type Content interface {
	content()
}

// NotesContent is free-form study-notes text. Non-empty whenever generation
// succeeded. It marshals as a plain JSON string.
type NotesContent string

func (NotesContent) content() {}

// QuizContent is one multiple-choice question produced in quiz mode.
// Instances returned by the pipeline have passed Validate.
type QuizContent struct {
	// Question is the question text.
	Question string `json:"question"`
	// Options holds exactly four candidate answers.
	Options []string `json:"options"`
	// Answer is the correct option; always equal to one of Options.
	Answer string `json:"answer"`
	// Explanation states why the answer is correct.
	Explanation string `json:"explanation"`
}

func (QuizContent) content() {}

// Validate checks the quiz schema the model was instructed to produce.
// Model output is untrusted input: a well-formed JSON document can still
// violate the contract.
func (q *QuizContent) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("question is empty")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(q.Options))
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return fmt.Errorf("answer %q is not one of the options", q.Answer)
}

// VideoContent is the result of a video-mode lookup.
type VideoContent struct {
	// Title is the video title as returned by the lookup.
	Title string `json:"title"`
	// ID is the video identifier.
	ID string `json:"id"`
	// URL is the embeddable player URL derived from ID.
	URL string `json:"url"`
}

func (VideoContent) content() {}
