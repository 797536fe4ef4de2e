package interview

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
)

// Evaluator produces questions, feedback and the closing summary for a session.
type Evaluator interface {
	Question(ctx context.Context, role, questionType string, number int) (string, error)
	Evaluate(ctx context.Context, role, question, answer string) (string, error)
	Summarize(ctx context.Context, role string, entries []Entry) (string, error)
}

// LLMEvaluator implements Evaluator on top of an llm.Client.
type LLMEvaluator struct {
	Client llm.Client
}

// NewLLMEvaluator returns an evaluator backed by client.
func NewLLMEvaluator(client llm.Client) *LLMEvaluator {
	return &LLMEvaluator{Client: client}
}

func (e *LLMEvaluator) Question(ctx context.Context, role, questionType string, number int) (string, error) {
	user, err := prompts.Render(prompts.InterviewFile, "question-user", map[string]string{
		"Number": strconv.Itoa(number),
		"Role":   role,
		"Type":   questionType,
	})
	if err != nil {
		return "", err
	}
	out, err := e.generate(ctx, "question", "question-system", user, llm.TierLite)
	if err != nil {
		return "", err
	}
	q := llm.StripQuotes(out)
	if q == "" {
		return "", &llm.GenerationError{Op: "question", Message: "model returned an empty question"}
	}
	return q, nil
}

func (e *LLMEvaluator) Evaluate(ctx context.Context, role, question, answer string) (string, error) {
	user, err := prompts.Render(prompts.InterviewFile, "eval-user", map[string]string{
		"Role":     role,
		"Question": question,
		"Answer":   answer,
	})
	if err != nil {
		return "", err
	}
	return e.generate(ctx, "evaluate", "eval-system", user, llm.TierStandard)
}

func (e *LLMEvaluator) Summarize(ctx context.Context, role string, entries []Entry) (string, error) {
	user, err := prompts.Render(prompts.InterviewFile, "summary-user", map[string]string{
		"Transcript": Transcript(entries),
	})
	if err != nil {
		return "", err
	}
	return e.generate(ctx, "summary", "summary-system", user, llm.TierAdvanced)
}

func (e *LLMEvaluator) generate(ctx context.Context, op, systemKey, user string, tier llm.ModelTier) (string, error) {
	system, err := prompts.Get(prompts.InterviewFile, systemKey)
	if err != nil {
		return "", err
	}
	out, err := e.Client.Generate(ctx, system, user, tier)
	if err != nil {
		return "", llm.WrapGenerationError(op, "interview generation failed", err)
	}
	return strings.TrimSpace(out), nil
}

// Transcript formats entries as the plain-text session record fed to the summary prompt.
func Transcript(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "Q%d: %s\n", e.Number, e.Question)
		fmt.Fprintf(&sb, "A%d: %s\n", e.Number, e.Answer)
		fmt.Fprintf(&sb, "Score%d: %d/10\n\n", e.Number, e.Score)
	}
	return sb.String()
}
