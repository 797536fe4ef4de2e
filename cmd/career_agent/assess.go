package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-assistant/internal/assessment"
	"github.com/jonathan/career-assistant/internal/observability"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/validation"
)

type assessOptions struct {
	topic       string
	count       int
	profileName string
	list        bool
}

func newAssessCmd(opts *rootOptions) *cobra.Command {
	var o assessOptions
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Take a multiple-choice skill assessment",
		Long:  "Draw questions for a topic, read an option for each and print the score and level. With --profile the result is stored on the 0-10 scale.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newConsole(cmd.InOrStdin(), cmd.OutOrStdout())
			if o.list {
				for _, t := range assessment.Topics() {
					c.printf("%s\n", t)
				}
				return nil
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.close()
			return runAssess(cmd.Context(), a, c, o)
		},
	}
	cmd.Flags().StringVar(&o.topic, "topic", "", "Assessment topic")
	cmd.Flags().IntVarP(&o.count, "count", "n", assessment.DefaultQuestionCount, "Number of questions")
	cmd.Flags().StringVar(&o.profileName, "profile", "", "Store the result on this profile")
	cmd.Flags().BoolVar(&o.list, "list", false, "List the available topics")
	return cmd
}

func runAssess(ctx context.Context, a *app, c *console, o assessOptions) error {
	if !assessment.HasTopic(o.topic) {
		return validation.New("topic", fmt.Sprintf("unknown topic %q (want one of %s)", o.topic, strings.Join(assessment.Topics(), ", ")))
	}
	questions, key := assessment.GetAssessment(o.topic, o.count, nil)
	if len(questions) == 0 {
		return validation.New("count", "must be positive")
	}

	answers := make([]int, len(questions))
	for i, q := range questions {
		c.printf("\n%d/%d. %s\n", i+1, len(questions), q.Text)
		for j, opt := range q.Options {
			c.printf("  %d) %s\n", j+1, opt)
		}
		choice, err := readChoice(c, len(q.Options))
		if err != nil {
			return err
		}
		answers[i] = choice
		review, err := assessment.ReviewAnswers(o.topic, []string{q.Text}, []int{choice})
		if err != nil {
			return err
		}
		if r := review[0]; r.IsCorrect {
			c.printf("Correct. %s\n", r.Explanation)
		} else {
			c.printf("Incorrect. The answer was %d) %s. %s\n", r.Correct+1, q.Options[r.Correct], r.Explanation)
		}
	}

	result, err := assessment.CalculateScore(answers, key)
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(c.out)
	c.printf("\n")
	printer.PrintAssessment(o.topic, result)

	if o.profileName == "" {
		return nil
	}
	store, err := a.profiles(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	var earned []profile.Achievement
	_, err = profile.Update(ctx, store, o.profileName, func(p *profile.Profile) error {
		if p.SkillAssessment == nil {
			p.SkillAssessment = map[string]int{}
		}
		p.SkillAssessment[o.topic] = int(result.Percentage+5) / 10
		profile.LogActivity(p, "assessment", 0, now)
		earned = profile.CheckAchievements(p, profile.Counters{}, profile.Streaks(p.ActivityHistory, now))
		return nil
	})
	if err != nil {
		return err
	}
	printer.PrintAchievements(earned)
	return nil
}

// readChoice returns the zero-based index of the option the user picked, by number or letter.
func readChoice(c *console, options int) (int, error) {
	for {
		line, err := c.ask("Answer: ")
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("assessment abandoned")
		}
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= options {
			return n - 1, nil
		}
		if len(line) == 1 {
			if idx := int(strings.ToLower(line)[0] - 'a'); idx >= 0 && idx < options {
				return idx, nil
			}
		}
		c.printf("Enter a number from 1 to %d.\n", options)
	}
}
