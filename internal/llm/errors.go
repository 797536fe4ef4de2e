package llm

import (
	"errors"
	"fmt"
)

// GenerationError is returned when the upstream model could not produce text.
// It never carries model output; callers should offer a retry instead of showing content.
type GenerationError struct {
	Op      string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed (%s): %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Op, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether repeating the same call may succeed.
func (e *GenerationError) Retryable() bool {
	return true
}

// IsGenerationError reports whether err is or wraps a *GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// WrapGenerationError wraps err in a *GenerationError for op unless it already is one.
func WrapGenerationError(op, message string, err error) error {
	if err == nil {
		return nil
	}
	var ge *GenerationError
	if errors.As(err, &ge) {
		return err
	}
	return &GenerationError{Op: op, Message: message, Cause: err}
}
