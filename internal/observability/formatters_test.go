package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/career-assistant/internal/assessment"
	"github.com/jonathan/career-assistant/internal/gaps"
	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/resume"
)

func TestPrintGaps(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	summary := gaps.Summary{TotalSkills: 3, Mastered: 1, Readiness: 33.3, AverageGap: 2.5}
	plan := []gaps.PlanItem{
		{Rank: 1, Skill: "Statistics", Current: 4, Target: 9, Gap: 5, Hours: 100, Resources: []string{"Khan Academy"}},
		{Rank: 2, Skill: "Python", Current: 7, Target: 9, Gap: 2, Hours: 40},
	}

	p.PrintGaps("Data Science", summary, plan, gaps.Timeline{WeeksToGoal: 20})
	output := buf.String()

	assert.Contains(t, output, "SKILL GAPS: Data Science")
	assert.Contains(t, output, "33% (1 of 3 skills met)")
	assert.Contains(t, output, "~20 weeks")
	assert.Contains(t, output, "#1 Statistics: 4 -> 9 (critical, ~100h)")
	assert.Contains(t, output, "#2 Python: 7 -> 9 (medium, ~40h)")
	assert.Contains(t, output, "Start with: Khan Academy")
}

func TestPrintGaps_NothingMissing(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintGaps("DevOps", gaps.Summary{TotalSkills: 2, Mastered: 2, Readiness: 100}, nil, gaps.Timeline{})
	output := buf.String()

	assert.Contains(t, output, "All requirements met.")
	assert.NotContains(t, output, "Time to goal")
}

func TestPrintGaps_LimitsPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	var plan []gaps.PlanItem
	for i := 1; i <= 8; i++ {
		plan = append(plan, gaps.PlanItem{Rank: i, Skill: "Skill", Gap: 1})
	}
	p.PrintGaps("Data Scientist", gaps.Summary{}, plan, gaps.Timeline{})

	assert.Contains(t, buf.String(), "... and 3 more skills")
	assert.NotContains(t, buf.String(), "#6")
}

func TestPrintReadiness(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	a := &resume.Analysis{
		Role:      "Data Scientist",
		Readiness: resume.Readiness{Score: 50, Matched: []string{"Python", "SQL"}},
		Level: resume.Level{
			Label:       "Early Stage",
			Description: "You have a foundation to build on, but several core requirements are not yet visible in your resume.",
		},
		CriticalGaps: []resume.SkillGap{{Skill: "Deep Learning", Current: 0, Required: 7, Gap: 7, Hours: 140}},
		LearningPath: []resume.PathStep{{Rank: 1, Skill: "Deep Learning", Score: 0, Hours: 140}},
	}

	p.PrintReadiness(a)
	output := buf.String()

	assert.Contains(t, output, "RESUME READINESS")
	assert.Contains(t, output, "Score:  50.0% (Early Stage)")
	assert.Contains(t, output, "Found: Python, SQL")
	assert.Contains(t, output, "Deep Learning: 0/7 (~140h)")
	assert.Contains(t, output, "1. Deep Learning (now 0/10, ~140h)")
	// the description is wrapped, not cut
	assert.Contains(t, output, "not yet visible")
	assert.NotContains(t, output, "...")
}

func TestPrintReadiness_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReadiness(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAssessment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssessment("SQL Basics", &assessment.Result{Correct: 4, Total: 5, Percentage: 80, Feedback: "Good grasp of joins."})
	output := buf.String()

	assert.Contains(t, output, "ASSESSMENT RESULT")
	assert.Contains(t, output, "Topic:  SQL Basics")
	assert.Contains(t, output, "Score:  4/5 (80.00%)")
	assert.Contains(t, output, assessment.SkillLevel(80))
	assert.Contains(t, output, "Good grasp of joins.")
}

func TestPrintInterview(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	s := &interview.Session{
		Role: "Backend Engineer",
		Entries: []interview.Entry{
			{Number: 1, Type: "Technical", Score: 9},
			{Number: 2, Type: "Behavioral", Skipped: true},
			{Number: 3, Type: "Technical", Score: 7},
		},
	}

	p.PrintInterview(s)
	output := buf.String()

	assert.Contains(t, output, "MOCK INTERVIEW: Backend Engineer")
	assert.Contains(t, output, "Q2  skipped")
	assert.Contains(t, output, "Answered 2, skipped 1")
	assert.Contains(t, output, "Average 8.0/10 (Excellent)")
}

func TestPrintInterview_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintInterview(&interview.Session{Role: "Backend Engineer"})
	p.PrintInterview(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAchievements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAchievements(nil)
	assert.Empty(t, buf.String())

	p.PrintAchievements([]profile.Achievement{
		{ID: "first_assessment", Name: "Self Aware", Description: "Complete a skill assessment", Points: 50},
	})
	output := buf.String()
	assert.Contains(t, output, "ACHIEVEMENTS UNLOCKED")
	assert.Contains(t, output, "Self Aware (+50 XP)")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 80)+"\nshort")
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	// every line is the same width
	for _, line := range lines {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestWrap(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(wrap(text), "\n") {
		assert.LessOrEqual(t, len(line), boxWidth-4)
	}
	assert.Empty(t, wrap(""))
}
