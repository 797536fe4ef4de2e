// Package observability provides formatted result boxes for the terminal commands.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-assistant/internal/assessment"
	"github.com/jonathan/career-assistant/internal/gaps"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/resume"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the terminal commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// wrap breaks prose into lines that fit the box.
func wrap(text string) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(word)) > boxWidth-4 {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func more(sb *strings.Builder, total int, noun string) {
	if total > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more %s\n", total-maxItemsToShow, noun))
	}
}

// PrintGaps outputs the gap summary and the top of the learning plan.
func (p *Printer) PrintGaps(role string, summary gaps.Summary, plan []gaps.PlanItem, projection gaps.Timeline) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Readiness:    %.0f%% (%d of %d skills met)\n", summary.Readiness, summary.Mastered, summary.TotalSkills))
	sb.WriteString(fmt.Sprintf("Average gap:  %.1f levels\n", summary.AverageGap))
	if projection.WeeksToGoal > 0 {
		sb.WriteString(fmt.Sprintf("Time to goal: ~%.0f weeks at an hour a day\n", projection.WeeksToGoal))
	}

	if len(plan) > 0 {
		sb.WriteString("\nLearning plan:\n")
		for _, item := range plan[:min(len(plan), maxItemsToShow)] {
			sb.WriteString(fmt.Sprintf("  #%d %s: %d -> %d (%s, ~%dh)\n",
				item.Rank, item.Skill, item.Current, item.Target, gaps.Classify(item.Gap), item.Hours))
		}
		more(&sb, len(plan), "skills")
		sb.WriteString(fmt.Sprintf("\nStart with: %s\n", strings.Join(plan[0].Resources, ", ")))
	} else {
		sb.WriteString("\nAll requirements met.\n")
	}

	p.printBox("SKILL GAPS: "+role, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReadiness outputs a resume keyword analysis.
func (p *Printer) PrintReadiness(a *resume.Analysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:   %s\n", a.Role))
	sb.WriteString(fmt.Sprintf("Score:  %.1f%% (%s)\n", a.Readiness.Score, a.Level.Label))
	sb.WriteString(wrap(a.Level.Description) + "\n")

	if len(a.Readiness.Matched) > 0 {
		sb.WriteString(fmt.Sprintf("\nFound: %s\n", strings.Join(a.Readiness.Matched, ", ")))
	}
	if len(a.CriticalGaps) > 0 {
		sb.WriteString("\nCritical gaps:\n")
		for _, g := range a.CriticalGaps {
			sb.WriteString(fmt.Sprintf("  ⚠ %s: %d/%d (~%dh)\n", g.Skill, g.Current, g.Required, g.Hours))
		}
	}
	if len(a.LearningPath) > 0 {
		sb.WriteString("\nLearning path:\n")
		for _, step := range a.LearningPath {
			sb.WriteString(fmt.Sprintf("  %d. %s (now %d/10, ~%dh)\n", step.Rank, step.Skill, step.Score, step.Hours))
		}
	}

	p.printBox("RESUME READINESS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAssessment outputs a scored quiz.
func (p *Printer) PrintAssessment(topic string, r *assessment.Result) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:  %s\n", topic))
	sb.WriteString(fmt.Sprintf("Score:  %d/%d (%.2f%%)\n", r.Correct, r.Total, r.Percentage))
	sb.WriteString(fmt.Sprintf("Level:  %s\n", assessment.SkillLevel(r.Percentage)))
	sb.WriteString("\n" + wrap(r.Feedback))

	p.printBox("ASSESSMENT RESULT", sb.String())
}

// PrintInterview outputs the per-question scores and totals of a session.
func (p *Printer) PrintInterview(s *interview.Session) {
	if s == nil || len(s.Entries) == 0 {
		return
	}

	var sb strings.Builder
	for _, e := range s.Entries {
		if e.Skipped {
			sb.WriteString(fmt.Sprintf("Q%d  skipped     %s\n", e.Number, e.Type))
		} else {
			sb.WriteString(fmt.Sprintf("Q%d  %2d/10       %s\n", e.Number, e.Score, e.Type))
		}
	}
	stats := s.Stats()
	sb.WriteString(fmt.Sprintf("\nAnswered %d, skipped %d\n", stats.Answered, stats.Skipped))
	sb.WriteString(fmt.Sprintf("Average %.1f/10 (%s)", stats.Average, stats.Grade))

	p.printBox("MOCK INTERVIEW: "+s.Role, sb.String())
}

// PrintAchievements outputs newly earned badges. Nothing is printed when the list is empty.
func (p *Printer) PrintAchievements(earned []profile.Achievement) {
	if len(earned) == 0 {
		return
	}

	var sb strings.Builder
	for i, a := range earned {
		sb.WriteString(fmt.Sprintf("★ %s (+%d XP)\n", a.Name, a.Points))
		sb.WriteString(fmt.Sprintf("  %s", a.Description))
		if i < len(earned)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("ACHIEVEMENTS UNLOCKED", sb.String())
}
