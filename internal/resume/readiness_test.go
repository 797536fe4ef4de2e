package resume

import (
	"strings"
	"testing"
	"time"

	"github.com/jonathan/career-assistant/internal/requirements"
	"github.com/jonathan/career-assistant/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSkills(t *testing.T) {
	skills := ExtractSkills("Built ETL in PYTHON and PostgreSQL; led a team as Team Lead. Statistical modeling.")

	assert.Equal(t, 2, skills["Python"]) // "python" and "py"
	assert.Equal(t, 2, skills["SQL"])    // "sql" and "postgres"
	assert.Equal(t, 1, skills["Leadership"])
	assert.Equal(t, 1, skills["Statistics"])
	assert.NotContains(t, skills, "Terraform")
}

func TestExtractSkills_Empty(t *testing.T) {
	assert.Empty(t, ExtractSkills(""))
}

func TestCalculateReadiness(t *testing.T) {
	required := map[string]int{"Python": 9, "SQL": 5, "Statistics": 9, "Big Data": 7}
	extracted := map[string]int{"Python": 2, "SQL": 1}

	r := CalculateReadiness(extracted, required)
	assert.Equal(t, 50.0, r.Score)
	assert.Equal(t, 6, r.SkillScores["Python"])
	assert.Equal(t, 5, r.SkillScores["SQL"], "capped at the requirement")
	assert.Equal(t, 0, r.SkillScores["Statistics"])
	assert.Equal(t, []string{"Python", "SQL"}, r.Matched)
	assert.Equal(t, []string{"Big Data", "Statistics"}, r.Missing)
}

func TestCalculateReadiness_NoRequirements(t *testing.T) {
	r := CalculateReadiness(map[string]int{"Python": 1}, nil)
	assert.Equal(t, 0.0, r.Score)
	assert.Empty(t, r.SkillScores)
}

func TestReadinessLevel(t *testing.T) {
	tests := []struct {
		score float64
		label string
	}{
		{100, "Expert Ready"},
		{95, "Expert Ready"},
		{94.9, "Well Prepared"},
		{80, "Well Prepared"},
		{60, "Intermediate"},
		{30, "Early Stage"},
		{29.9, "Not Ready"},
		{0, "Not Ready"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, ReadinessLevel(tt.score).Label, "score %.1f", tt.score)
	}
}

func TestCriticalGaps(t *testing.T) {
	required := map[string]int{"A": 9, "B": 8, "C": 9, "D": 9, "E": 9, "F": 9, "G": 5}
	r := CalculateReadiness(map[string]int{"A": 1}, required)

	gaps := CriticalGaps(r, required)
	require.Len(t, gaps, 5)
	assert.Equal(t, 9, gaps[0].Gap)
	assert.Equal(t, 360, gaps[0].Hours)
	for _, g := range gaps {
		assert.GreaterOrEqual(t, g.Gap, 3)
		assert.NotEqual(t, "A", g.Skill)
	}
}

func TestLearningPath(t *testing.T) {
	r := Readiness{SkillScores: map[string]int{"A": 6, "B": 0, "C": 9, "D": 6, "E": 0, "F": 0, "G": 0}}
	path := LearningPath(r)

	require.Len(t, path, 5)
	assert.Equal(t, "B", path[0].Skill)
	assert.Equal(t, 320, path[0].Hours)
	assert.Equal(t, "A", path[4].Skill)
	assert.Equal(t, 80, path[4].Hours)
}

func TestAnalyze(t *testing.T) {
	text := "Python developer with SQL, statistics and machine learning experience. Strong communication."
	a, err := Analyze(text, "Data Scientist", nil)
	require.NoError(t, err)

	assert.Equal(t, "Data Scientist", a.Role)
	assert.InDelta(t, 50.0, a.Readiness.Score, 1e-9)
	assert.Equal(t, "Early Stage", a.Level.Label)
	assert.NotEmpty(t, a.CriticalGaps)
	assert.NotEmpty(t, a.LearningPath)
}

func TestAnalyze_Validation(t *testing.T) {
	_, err := Analyze("   ", "Data Scientist", nil)
	assert.True(t, validation.IsValidation(err))

	_, err = Analyze("python", "Astronaut", requirements.Default())
	assert.True(t, validation.IsValidation(err))
}

func TestReport(t *testing.T) {
	a, err := Analyze("python sql", "Data Scientist", nil)
	require.NoError(t, err)

	report := Report(a, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(report, "# Resume Skill Gap Analysis Report"))
	assert.Contains(t, report, "**Target Role:** Data Scientist")
	assert.Contains(t, report, "**Readiness Score:** 20.0%")
	assert.Contains(t, report, "**Analysis Date:** 2026-03-01")
	assert.Contains(t, report, "- Python: 6/10")
}
