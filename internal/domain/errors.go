package domain

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when a query arrives before the vector index
// has been built, for example when the corpus directory was empty or failed
// to load. Callers are expected to check for it with errors.Is.
var ErrNotInitialized = errors.New("vector index not initialized")

// GenerationError wraps a failure anywhere on the question-answering path.
// Stage names the step that failed ("embed", "retrieve", "prompt",
// "generate") so callers can log or display it without string matching on
// the underlying error.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("answer generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
