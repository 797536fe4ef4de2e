// Package gaps compares self-rated skill levels against a role's requirement table.
package gaps

import (
	"sort"

	"github.com/jonathan/career-assistant/internal/requirements"
)

// MinLevel and MaxLevel bound every skill rating.
const (
	MinLevel = 0
	MaxLevel = 10
)

// Gap is the comparison for one required skill.
// Gap is negative when the current level exceeds the requirement.
type Gap struct {
	Current            int     `json:"current"`
	Required           int     `json:"required"`
	Gap                int     `json:"gap"`
	PercentageComplete float64 `json:"percentage_complete"`
}

// ClampLevel forces a rating into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	return max(MinLevel, min(MaxLevel, level))
}

// ClampAll returns a copy of ratings with every value clamped.
func ClampAll(ratings map[string]int) map[string]int {
	out := make(map[string]int, len(ratings))
	for k, v := range ratings {
		out[k] = ClampLevel(v)
	}
	return out
}

// Calculate compares current ratings against role's requirements in catalog.
// An unknown role yields an empty map. Skills missing from current count as 0.
// A nil catalog uses requirements.Default().
func Calculate(current map[string]int, role string, catalog *requirements.Catalog) map[string]Gap {
	if catalog == nil {
		catalog = requirements.Default()
	}
	required := catalog.Skills(role)

	gaps := make(map[string]Gap, len(required))
	for skill, req := range required {
		cur := ClampLevel(current[skill])
		completion := 0.0
		if req > 0 {
			completion = float64(cur) / float64(req) * 100
		}
		gaps[skill] = Gap{
			Current:            cur,
			Required:           req,
			Gap:                req - cur,
			PercentageComplete: completion,
		}
	}
	return gaps
}

// Summary aggregates a gap map for display.
type Summary struct {
	TotalSkills       int     `json:"total_skills"`
	Mastered          int     `json:"mastered"`
	Readiness         float64 `json:"readiness"`
	AverageGap        float64 `json:"average_gap"`
	AverageCompletion float64 `json:"average_completion"`
}

// Summarize computes readiness (share of skills with no remaining gap, as a
// percentage), average gap and average completion. Empty input yields zeros.
func Summarize(gaps map[string]Gap) Summary {
	s := Summary{TotalSkills: len(gaps)}
	if s.TotalSkills == 0 {
		return s
	}

	var gapSum, completionSum float64
	for _, skill := range sortedSkills(gaps) {
		g := gaps[skill]
		if g.Gap <= 0 {
			s.Mastered++
		}
		gapSum += float64(g.Gap)
		completionSum += g.PercentageComplete
	}

	n := float64(s.TotalSkills)
	s.Readiness = float64(s.Mastered) / n * 100
	s.AverageGap = gapSum / n
	s.AverageCompletion = completionSum / n
	return s
}

// sortedSkills returns the skill names in alphabetical order so float sums are stable.
func sortedSkills(gaps map[string]Gap) []string {
	skills := make([]string, 0, len(gaps))
	for k := range gaps {
		skills = append(skills, k)
	}
	sort.Strings(skills)
	return skills
}
