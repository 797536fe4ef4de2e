package interview

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-assistant/internal/validation"
)

const (
	skippedAnswer   = "[Skipped]"
	skippedFeedback = "Question was skipped."
)

// Entry is one asked question and how it was handled.
type Entry struct {
	Number   int    `json:"number"`
	Type     string `json:"type"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
	Skipped  bool   `json:"skipped"`
}

// Session is a single mock interview. A Session is not safe for concurrent use;
// Manager serializes access when sessions are shared.
type Session struct {
	ID              uuid.UUID `json:"id"`
	State           State     `json:"state"`
	Role            string    `json:"role"`
	QuestionTypes   []string  `json:"question_types"`
	Entries         []Entry   `json:"entries"`
	CurrentQuestion string    `json:"current_question,omitempty"`
	CurrentType     string    `json:"current_type,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	eval Evaluator
	now  func() time.Time
}

// NewSession returns a session in NotStarted that uses eval for all generation.
func NewSession(eval Evaluator) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		State:     NotStarted,
		CreatedAt: now,
		UpdatedAt: now,
		eval:      eval,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Setup configures role and question types and moves to AwaitingQuestion.
// At least one question type is required; on any validation error the session stays in NotStarted.
func (s *Session) Setup(role string, types []string) error {
	if s.State != NotStarted {
		return &TransitionError{Op: "setup", From: s.State}
	}
	role = strings.TrimSpace(role)
	if err := validation.Required("role", role); err != nil {
		return err
	}
	if len(types) == 0 {
		return validation.New("question_types", "select at least one question type")
	}
	for _, t := range types {
		if !IsQuestionType(t) {
			return validation.New("question_types", "unknown question type "+t)
		}
	}

	s.Role = role
	s.QuestionTypes = append([]string(nil), types...)
	s.State = AwaitingQuestion
	s.touch()
	return nil
}

// Number is the 1-based number of the question currently asked or about to be asked.
func (s *Session) Number() int {
	return len(s.Entries) + 1
}

// NextQuestion asks the evaluator for the next question. Types rotate in the configured order.
// On a generation failure the session stays in AwaitingQuestion.
func (s *Session) NextQuestion(ctx context.Context) (string, error) {
	switch s.State {
	case AwaitingQuestion:
	case Complete, SummaryShown:
		return "", ErrSessionComplete
	default:
		return "", &TransitionError{Op: "generate a question", From: s.State}
	}

	n := s.Number()
	qtype := s.QuestionTypes[(n-1)%len(s.QuestionTypes)]
	q, err := s.eval.Question(ctx, s.Role, qtype, n)
	if err != nil {
		return "", err
	}

	s.CurrentQuestion = q
	s.CurrentType = qtype
	s.State = AwaitingAnswer
	s.touch()
	return q, nil
}

// Submit evaluates answer against the current question and records the entry.
// A blank answer is rejected without changing state.
func (s *Session) Submit(ctx context.Context, answer string) (*Entry, error) {
	if err := s.expectAnswer("submit an answer"); err != nil {
		return nil, err
	}
	answer = strings.TrimSpace(answer)
	if err := validation.Required("answer", answer); err != nil {
		return nil, err
	}

	feedback, err := s.eval.Evaluate(ctx, s.Role, s.CurrentQuestion, answer)
	if err != nil {
		return nil, err
	}
	return s.record(Entry{
		Answer:   answer,
		Feedback: feedback,
		Score:    ExtractScore(feedback),
	}), nil
}

// Skip records the current question as skipped with a score of zero.
func (s *Session) Skip() (*Entry, error) {
	if err := s.expectAnswer("skip"); err != nil {
		return nil, err
	}
	return s.record(Entry{
		Answer:   skippedAnswer,
		Feedback: skippedFeedback,
		Skipped:  true,
	}), nil
}

func (s *Session) expectAnswer(op string) error {
	switch s.State {
	case AwaitingAnswer:
		return nil
	case Complete, SummaryShown:
		return ErrSessionComplete
	default:
		return &TransitionError{Op: op, From: s.State}
	}
}

func (s *Session) record(e Entry) *Entry {
	e.Number = s.Number()
	e.Type = s.CurrentType
	e.Question = s.CurrentQuestion
	s.Entries = append(s.Entries, e)

	s.CurrentQuestion = ""
	s.CurrentType = ""
	if len(s.Entries) >= MaxQuestions {
		s.State = Complete
	} else {
		s.State = AwaitingQuestion
	}
	s.touch()
	return &s.Entries[len(s.Entries)-1]
}

// ViewSummary generates the closing summary once and returns the cached text afterwards.
func (s *Session) ViewSummary(ctx context.Context) (string, error) {
	switch s.State {
	case SummaryShown:
		return s.Summary, nil
	case Complete:
	default:
		return "", &TransitionError{Op: "view the summary", From: s.State}
	}

	summary, err := s.eval.Summarize(ctx, s.Role, s.Entries)
	if err != nil {
		return "", err
	}
	s.Summary = summary
	s.State = SummaryShown
	s.touch()
	return summary, nil
}

// Reset discards all progress and returns to NotStarted. The ID is kept.
func (s *Session) Reset() {
	s.State = NotStarted
	s.Role = ""
	s.QuestionTypes = nil
	s.Entries = nil
	s.CurrentQuestion = ""
	s.CurrentType = ""
	s.Summary = ""
	s.touch()
}

// Stats summarizes the recorded entries.
func (s *Session) Stats() Stats {
	return ComputeStats(s.Entries)
}

func (s *Session) touch() {
	s.UpdatedAt = s.now()
}
