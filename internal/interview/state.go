// Package interview runs one mock-interview session as an explicit state machine:
// setup, then up to MaxQuestions generate/answer cycles, then a summary.
package interview

import (
	"errors"
	"fmt"
)

// MaxQuestions is the number of questions in one session.
const MaxQuestions = 5

// State is the position of a session in its lifecycle.
type State int

const (
	NotStarted State = iota
	AwaitingQuestion
	AwaitingAnswer
	Complete
	SummaryShown
)

var stateNames = [...]string{
	NotStarted:       "not_started",
	AwaitingQuestion: "awaiting_question",
	AwaitingAnswer:   "awaiting_answer",
	Complete:         "complete",
	SummaryShown:     "summary_shown",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown interview state %q", string(b))
}

// Active reports whether the session is between setup and completion.
func (s State) Active() bool {
	return s == AwaitingQuestion || s == AwaitingAnswer
}

var (
	// ErrInvalidTransition is matched by every *TransitionError.
	ErrInvalidTransition = errors.New("invalid interview transition")
	// ErrSessionComplete is returned when a question, answer or skip arrives after the last question.
	ErrSessionComplete = errors.New("interview session is complete")
)

// TransitionError reports an operation attempted in a state that does not allow it.
type TransitionError struct {
	Op   string
	From State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Op, e.From)
}

// Is makes errors.Is(err, ErrInvalidTransition) true.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
