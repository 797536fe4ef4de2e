package gaps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		gap  int
		want Severity
	}{
		{9, SeverityCritical},
		{4, SeverityCritical},
		{3, SeverityMedium},
		{2, SeverityMedium},
		{1, SeveritySmall},
		{0, SeverityNone},
		{-2, SeverityNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.gap), "gap %d", tt.gap)
	}
}

func TestBucket(t *testing.T) {
	gaps := map[string]Gap{
		"A": {Current: 1, Required: 9, Gap: 8},
		"B": {Current: 4, Required: 9, Gap: 5},
		"C": {Current: 6, Required: 8, Gap: 2},
		"D": {Current: 9, Required: 9, Gap: 0},
	}
	b := Bucket(gaps)

	require.Len(t, b[SeverityCritical], 2)
	assert.Equal(t, "A", b[SeverityCritical][0].Skill)
	assert.Equal(t, "B", b[SeverityCritical][1].Skill)
	assert.Len(t, b[SeverityMedium], 1)
	assert.Empty(t, b[SeveritySmall])
	assert.Len(t, b[SeverityNone], 1)
}

func TestLearningPlan(t *testing.T) {
	gaps := map[string]Gap{
		"Communication":    {Current: 4, Required: 7, Gap: 3, PercentageComplete: 57.1},
		"Machine Learning": {Current: 2, Required: 8, Gap: 6, PercentageComplete: 25},
		"SQL":              {Current: 9, Required: 8, Gap: -1, PercentageComplete: 112.5},
	}
	plan := LearningPlan(gaps)
	require.Len(t, plan, 2)

	first := plan[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "Machine Learning", first.Skill)
	assert.Equal(t, 120, first.Hours)
	assert.Equal(t, []string{"Andrew Ng's ML Course", "Fast.ai", "Kaggle Competitions"}, first.Resources)
	require.Len(t, first.Milestones, 3)
	assert.InDelta(t, 4.0, first.Milestones[0].Level, 1e-9)
	assert.InDelta(t, 6.0, first.Milestones[1].Level, 1e-9)
	assert.Equal(t, 8.0, first.Milestones[2].Level)

	assert.Equal(t, "Communication", plan[1].Skill)
	assert.Equal(t, 60, plan[1].Hours)
}

func TestLearningResources(t *testing.T) {
	assert.Len(t, LearningResources("Programming Languages"), 4)
	assert.Equal(t, []string{"Udemy", "Coursera", "LinkedIn Learning"}, LearningResources("Knitting"))

	r := LearningResources("Knitting")
	r[0] = "changed"
	assert.Equal(t, "Udemy", LearningResources("Knitting")[0])
}

func TestProjection(t *testing.T) {
	gaps := map[string]Gap{
		"Python": {Current: 7, Required: 9, Gap: 2},
		"SQL":    {Current: 5, Required: 8, Gap: 3},
	}
	p := Projection(gaps)

	assert.InDelta(t, 6.0, p.AverageCurrent, 1e-9)
	assert.InDelta(t, 8.5, p.AverageRequired, 1e-9)
	assert.InDelta(t, 2.5, p.AverageGap, 1e-9)
	assert.InDelta(t, 50.0/7, p.WeeksToGoal, 1e-9)
	assert.InDelta(t, 50.0/28, p.MonthsToGoal, 1e-9)
	assert.InDelta(t, 6.625, p.ThreeMonthLevel, 1e-9)
	assert.InDelta(t, 7.25, p.SixMonthLevel, 1e-9)
}

func TestProjection_NoGap(t *testing.T) {
	p := Projection(map[string]Gap{"Python": {Current: 9, Required: 8, Gap: -1}})
	assert.Equal(t, 0.0, p.WeeksToGoal)
	assert.Equal(t, 9.0, p.SixMonthLevel)

	assert.Equal(t, Timeline{}, Projection(nil))
}
