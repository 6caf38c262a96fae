package study

import (
	"errors"
)

// Sentinel errors classifying every generate failure. Callers discriminate
// with errors.Is; anything not matching one of these is an uncategorized
// internal error.
var (
	// ErrUnsafeInput marks a topic rejected by the safety filter before any
	// retrieval or generation work. Client-correctable.
	ErrUnsafeInput = errors.New("unsafe input")

	// ErrNotFound marks a video lookup that produced no results.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat marks model output that failed structured parsing or
	// schema validation. The raw model text is discarded entirely — no
	// partial result is ever returned. Retryable by re-invoking generate.
	ErrInvalidFormat = errors.New("malformed generation output")

	// ErrGenerator marks a failure of an external capability (model or
	// vector store) during generation — the model never answered, as opposed
	// to answering badly. Retryable with backoff by the caller.
	ErrGenerator = errors.New("generator invocation failed")
)
