package pipeline

import "errors"

var (
	// ErrEmptyContent is returned when the page content is empty or blank.
	ErrEmptyContent = errors.New("empty page content")

	// ErrStepPanic wraps a panic recovered from a step.
	ErrStepPanic = errors.New("step panicked")
)
