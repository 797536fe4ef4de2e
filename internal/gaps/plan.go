package gaps

import (
	"math"
	"sort"
)

// Severity buckets a gap by size.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMedium   Severity = "medium"
	SeveritySmall    Severity = "small"
	SeverityNone     Severity = "none"
)

// HoursPerLevel is the rough study time needed to raise a skill by one level.
const HoursPerLevel = 20

// Classify returns the severity of a single gap value.
func Classify(gap int) Severity {
	switch {
	case gap > 3:
		return SeverityCritical
	case gap > 1:
		return SeverityMedium
	case gap > 0:
		return SeveritySmall
	default:
		return SeverityNone
	}
}

// RankedGap is a gap with its skill name attached.
type RankedGap struct {
	Skill string `json:"skill"`
	Gap
}

// Bucket groups gaps by severity, each bucket sorted by gap descending.
func Bucket(gaps map[string]Gap) map[Severity][]RankedGap {
	out := map[Severity][]RankedGap{
		SeverityCritical: {},
		SeverityMedium:   {},
		SeveritySmall:    {},
		SeverityNone:     {},
	}
	for _, rg := range ranked(gaps) {
		sev := Classify(rg.Gap.Gap)
		out[sev] = append(out[sev], rg)
	}
	return out
}

// Milestone is an intermediate target level on the way to mastery.
type Milestone struct {
	Label string  `json:"label"`
	Level float64 `json:"level"`
}

// PlanItem is one step of a learning plan.
type PlanItem struct {
	Rank       int         `json:"rank"`
	Skill      string      `json:"skill"`
	Current    int         `json:"current"`
	Target     int         `json:"target"`
	Gap        int         `json:"gap"`
	Hours      int         `json:"estimated_hours"`
	Completion float64     `json:"completion"`
	Resources  []string    `json:"resources"`
	Milestones []Milestone `json:"milestones"`
}

// LearningPlan orders the deficient skills by gap, largest first.
// Skills already at or above the requirement are left out.
func LearningPlan(gaps map[string]Gap) []PlanItem {
	var plan []PlanItem
	for _, rg := range ranked(gaps) {
		if rg.Gap.Gap <= 0 {
			continue
		}
		g := float64(rg.Gap.Gap)
		cur := float64(rg.Current)
		res := LearningResources(rg.Skill)
		if len(res) > 3 {
			res = res[:3]
		}
		plan = append(plan, PlanItem{
			Rank:       len(plan) + 1,
			Skill:      rg.Skill,
			Current:    rg.Current,
			Target:     rg.Required,
			Gap:        rg.Gap.Gap,
			Hours:      rg.Gap.Gap * HoursPerLevel,
			Completion: rg.PercentageComplete,
			Resources:  res,
			Milestones: []Milestone{
				{Label: "Level 1", Level: cur + g/3},
				{Label: "Level 2", Level: cur + 2*g/3},
				{Label: "Mastery", Level: float64(rg.Required)},
			},
		})
	}
	return plan
}

var resources = map[string][]string{
	"Programming Languages": {"LeetCode", "HackerRank", "Codecademy", "Free Code Camp"},
	"System Design":         {"System Design Interview Course", "Grokking System Design", "YouTube Tutorials"},
	"Machine Learning":      {"Andrew Ng's ML Course", "Fast.ai", "Kaggle Competitions"},
	"Data Analysis":         {"Excel/Google Sheets Tutorials", "SQL Tutorial", "Tableau/Power BI"},
	"Communication":         {"Toastmasters", "Public Speaking Courses", "Writing Workshops"},
}

var defaultResources = []string{"Udemy", "Coursera", "LinkedIn Learning"}

// LearningResources suggests where to study skill.
func LearningResources(skill string) []string {
	r, ok := resources[skill]
	if !ok {
		r = defaultResources
	}
	return append([]string(nil), r...)
}

// Timeline projects how long closing the average gap will take.
type Timeline struct {
	AverageCurrent  float64 `json:"average_current"`
	AverageRequired float64 `json:"average_required"`
	AverageGap      float64 `json:"average_gap"`
	WeeksToGoal     float64 `json:"weeks_to_goal"`
	MonthsToGoal    float64 `json:"months_to_goal"`
	ThreeMonthLevel float64 `json:"three_month_level"`
	SixMonthLevel   float64 `json:"six_month_level"`
}

// Projection assumes HoursPerLevel hours per level at roughly an hour a day.
// When there is no positive average gap the time fields stay zero and the
// projected levels equal the current average.
func Projection(gaps map[string]Gap) Timeline {
	var t Timeline
	if len(gaps) == 0 {
		return t
	}

	var cur, req float64
	for _, skill := range sortedSkills(gaps) {
		cur += float64(gaps[skill].Current)
		req += float64(gaps[skill].Required)
	}
	n := float64(len(gaps))
	t.AverageCurrent = cur / n
	t.AverageRequired = req / n
	t.AverageGap = t.AverageRequired - t.AverageCurrent
	t.ThreeMonthLevel = t.AverageCurrent
	t.SixMonthLevel = t.AverageCurrent

	if t.AverageGap > 0 {
		t.WeeksToGoal = t.AverageGap * HoursPerLevel / 7
		t.MonthsToGoal = t.WeeksToGoal / 4
		t.ThreeMonthLevel = math.Min(t.AverageCurrent+t.AverageGap/4, t.AverageRequired)
		t.SixMonthLevel = math.Min(t.AverageCurrent+t.AverageGap/2, t.AverageRequired)
	}
	return t
}

// ranked returns gaps sorted by gap descending, then skill name.
func ranked(gaps map[string]Gap) []RankedGap {
	out := make([]RankedGap, 0, len(gaps))
	for skill, g := range gaps {
		out = append(out, RankedGap{Skill: skill, Gap: g})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gap.Gap != out[j].Gap.Gap {
			return out[i].Gap.Gap > out[j].Gap.Gap
		}
		return out[i].Skill < out[j].Skill
	})
	return out
}
