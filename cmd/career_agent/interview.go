package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/observability"
	"github.com/jonathan/career-assistant/internal/profile"
)

type interviewOptions struct {
	role        string
	types       []string
	reportPath  string
	profileName string
}

func newInterviewCmd(opts *rootOptions) *cobra.Command {
	var o interviewOptions
	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run a mock interview in the terminal",
		Long: fmt.Sprintf(`Ask %d generated questions for a role, score each answer and finish with a performance summary.
Type "skip" to skip a question or "quit" to stop early. A failed model call can be retried.`, interview.MaxQuestions),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			return runInterview(cmd.Context(), a, newConsole(cmd.InOrStdin(), cmd.OutOrStdout()), o)
		},
	}
	cmd.Flags().StringVarP(&o.role, "role", "r", "", "Target role (required)")
	cmd.Flags().StringSliceVarP(&o.types, "type", "t", interview.DefaultQuestionTypes, "Question types to rotate through")
	cmd.Flags().StringVarP(&o.reportPath, "report", "o", "", "Write the Markdown report to this path")
	cmd.Flags().StringVar(&o.profileName, "profile", "", "Record the session on this profile's activity")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func runInterview(ctx context.Context, a *app, c *console, o interviewOptions) error {
	client, err := a.generator(ctx)
	if err != nil {
		return err
	}
	s := interview.NewSession(interview.NewLLMEvaluator(client))
	if err := s.Setup(o.role, o.types); err != nil {
		return err
	}

	c.printf("Mock interview: %s (%d questions)\n", s.Role, interview.MaxQuestions)
	c.printf("Question types: %s\n\n", strings.Join(s.QuestionTypes, ", "))

	for s.State == interview.AwaitingQuestion {
		q, err := s.NextQuestion(ctx)
		if err != nil {
			next, err := onGenerationError(c, err, false)
			if err != nil {
				return err
			}
			if next == quitInterview {
				return stopped(c, s)
			}
			continue
		}
		c.printf("Q%d [%s]\n%s\n", s.Number(), s.CurrentType, q)

		entry, err := answerQuestion(ctx, c, s)
		if errors.Is(err, io.EOF) {
			return stopped(c, s)
		}
		if err != nil {
			return err
		}
		if entry.Skipped {
			c.printf("Skipped.\n\n")
		} else {
			c.printf("\n%s\nScore: %d/10\n\n", entry.Feedback, entry.Score)
		}
	}

	var summary string
	for {
		summary, err = s.ViewSummary(ctx)
		if err == nil {
			break
		}
		next, err := onGenerationError(c, err, false)
		if err != nil {
			return err
		}
		if next == quitInterview {
			c.printf("\nInterview ended without a summary.\n")
			return nil
		}
	}
	c.printf("Performance summary\n\n%s\n\n", summary)
	observability.NewPrinter(c.out).PrintInterview(s)

	if o.reportPath != "" {
		if err := os.WriteFile(o.reportPath, []byte(interview.Report(s)), 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		c.printf("Report: %s\n", o.reportPath)
	}
	return recordInterview(ctx, a, s, o.profileName)
}

func stopped(c *console, s *interview.Session) error {
	c.printf("\nInterview stopped after %d of %d questions.\n", len(s.Entries), interview.MaxQuestions)
	return nil
}

// answerQuestion reads until the user answers, skips or quits. Quitting is io.EOF.
// A failed evaluation keeps the answer so it can be sent again.
func answerQuestion(ctx context.Context, c *console, s *interview.Session) (*interview.Entry, error) {
	for {
		line, err := c.ask("> ")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil, io.EOF
		case "skip":
			return s.Skip()
		}
		for {
			entry, err := s.Submit(ctx, line)
			if err == nil {
				return entry, nil
			}
			next, err := onGenerationError(c, err, true)
			if err != nil {
				return nil, err
			}
			switch next {
			case skipStep:
				return s.Skip()
			case quitInterview:
				return nil, io.EOF
			}
		}
	}
}

type recovery int

const (
	retryStep recovery = iota
	skipStep
	quitInterview
)

// onGenerationError reports a failed model call and asks how to go on. Errors that
// did not come from generation are returned unchanged. End of input quits.
func onGenerationError(c *console, err error, canSkip bool) (recovery, error) {
	if !llm.IsGenerationError(err) {
		return retryStep, err
	}
	c.printf("\n%v\n", err)
	label := "retry or quit? [retry] "
	if canSkip {
		label = "retry, skip or quit? [retry] "
	}
	for {
		line, err := c.ask(label)
		if errors.Is(err, io.EOF) {
			return quitInterview, nil
		}
		if err != nil {
			return retryStep, err
		}
		switch strings.ToLower(line) {
		case "", "r", "retry":
			return retryStep, nil
		case "q", "quit", "exit":
			return quitInterview, nil
		case "s", "skip":
			if canSkip {
				return skipStep, nil
			}
		}
	}
}

// recordInterview stores the finished session in the database when one is configured and
// logs it on the named profile.
func recordInterview(ctx context.Context, a *app, s *interview.Session, profileName string) error {
	if a.cfg.DatabaseURL == "" && profileName == "" {
		return nil
	}
	store, err := a.profiles(ctx)
	if err != nil {
		return err
	}
	if a.db != nil {
		if err := a.db.SaveInterview(ctx, s); err != nil {
			a.log.WithError(err).Warn("failed to save interview")
		}
	}
	if profileName == "" {
		return nil
	}

	now := time.Now().UTC()
	_, err = profile.Update(ctx, store, profileName, func(p *profile.Profile) error {
		profile.LogActivity(p, "interview", 0, now)
		interviews := 0
		for _, act := range p.ActivityHistory {
			if act.Feature == "interview" {
				interviews++
			}
		}
		profile.CheckAchievements(p, profile.Counters{Interviews: interviews}, profile.Streaks(p.ActivityHistory, now))
		return nil
	})
	return err
}
