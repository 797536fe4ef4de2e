// Package resume estimates role readiness from the skills a resume mentions.
//
// This is the keyword-presence model: a skill either appears in the document or it
// does not. It is intentionally kept apart from the self-rated model in package gaps.
package resume

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/career-assistant/internal/requirements"
	"github.com/jonathan/career-assistant/internal/validation"
)

// AssumedLevel is the level credited to a skill that the resume mentions.
const AssumedLevel = 6

// HoursPerLevel is the study estimate used for resume-derived gaps.
const HoursPerLevel = 40

var skillKeywords = map[string][]string{
	"Python":           {"python", "py"},
	"JavaScript":       {"javascript", "js", "react", "node"},
	"AWS":              {"aws", "amazon web services", "ec2", "s3", "lambda"},
	"Kubernetes":       {"kubernetes", "k8s", "docker", "container"},
	"SQL":              {"sql", "database", "postgres", "mysql"},
	"Machine Learning": {"machine learning", "ml", "scikit", "sklearn"},
	"DevOps":           {"devops", "ci/cd", "jenkins", "gitlab"},
	"React":            {"react", "jsx"},
	"Docker":           {"docker", "container"},
	"Git":              {"git", "github", "gitlab"},
	"Leadership":       {"leadership", "team lead", "manager"},
	"Communication":    {"communication", "presentation", "documentation"},
	"Statistics":       {"statistics", "statistical"},
	"Deep Learning":    {"deep learning", "neural network", "cnn", "rnn"},
	"Terraform":        {"terraform", "iac"},
	"Linux":            {"linux", "unix", "bash"},
}

// Keywords returns the keyword list used to detect skill, or nil if the skill is not tracked.
func Keywords(skill string) []string {
	return append([]string(nil), skillKeywords[skill]...)
}

// ExtractSkills counts, per skill, how many of its keywords occur in text.
// Matching is case-insensitive substring matching, so short keywords can over-match.
func ExtractSkills(text string) map[string]int {
	lower := strings.ToLower(text)
	found := make(map[string]int)
	for skill, keywords := range skillKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				found[skill]++
			}
		}
	}
	return found
}

// Readiness is the keyword-model result for one role.
type Readiness struct {
	Score       float64        `json:"score"`
	SkillScores map[string]int `json:"skill_scores"`
	Matched     []string       `json:"matched"`
	Missing     []string       `json:"missing"`
}

// CalculateReadiness scores a role's requirements against extracted skills.
// Matched skills are credited min(AssumedLevel, required); the score is matched/total*100.
func CalculateReadiness(extracted map[string]int, required map[string]int) Readiness {
	r := Readiness{SkillScores: make(map[string]int, len(required))}
	if len(required) == 0 {
		return r
	}

	for _, skill := range sortedKeys(required) {
		if _, ok := extracted[skill]; ok {
			r.SkillScores[skill] = min(AssumedLevel, required[skill])
			r.Matched = append(r.Matched, skill)
		} else {
			r.SkillScores[skill] = 0
			r.Missing = append(r.Missing, skill)
		}
	}
	r.Score = float64(len(r.Matched)) / float64(len(required)) * 100
	return r
}

// Level is a readiness band.
type Level struct {
	Threshold   float64 `json:"threshold"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

var readinessLevels = []Level{
	{95, "Expert Ready", "Highly qualified for this role"},
	{80, "Well Prepared", "Ready with minor polishing"},
	{60, "Intermediate", "Solid skills, few gaps"},
	{30, "Early Stage", "Good foundation, significant gaps"},
	{0, "Not Ready", "Start learning fundamentals"},
}

// ReadinessLevel returns the band for score.
func ReadinessLevel(score float64) Level {
	for _, l := range readinessLevels {
		if score >= l.Threshold {
			return l
		}
	}
	return readinessLevels[len(readinessLevels)-1]
}

// SkillGap is a resume-derived gap with a study estimate.
type SkillGap struct {
	Skill    string `json:"skill"`
	Current  int    `json:"current"`
	Required int    `json:"required"`
	Gap      int    `json:"gap"`
	Hours    int    `json:"estimated_hours"`
}

// CriticalGaps returns up to five skills whose gap is at least 3, largest first.
func CriticalGaps(r Readiness, required map[string]int) []SkillGap {
	var out []SkillGap
	for _, skill := range sortedKeys(required) {
		gap := required[skill] - r.SkillScores[skill]
		if gap >= 3 {
			out = append(out, SkillGap{
				Skill:    skill,
				Current:  r.SkillScores[skill],
				Required: required[skill],
				Gap:      gap,
				Hours:    gap * HoursPerLevel,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Gap > out[j].Gap })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// PathStep is one entry in the recommended learning path.
type PathStep struct {
	Rank  int    `json:"rank"`
	Skill string `json:"skill"`
	Score int    `json:"current"`
	Hours int    `json:"estimated_hours"`
}

// LearningPath lists up to five skills scoring below 8, weakest first.
func LearningPath(r Readiness) []PathStep {
	skills := sortedKeys(r.SkillScores)
	sort.SliceStable(skills, func(i, j int) bool {
		return r.SkillScores[skills[i]] < r.SkillScores[skills[j]]
	})

	var path []PathStep
	for _, skill := range skills {
		score := r.SkillScores[skill]
		if score >= 8 {
			continue
		}
		path = append(path, PathStep{
			Rank:  len(path) + 1,
			Skill: skill,
			Score: score,
			Hours: (8 - score) * HoursPerLevel,
		})
		if len(path) == 5 {
			break
		}
	}
	return path
}

// Analysis bundles everything derived from one resume for one role.
type Analysis struct {
	Role         string         `json:"role"`
	Extracted    map[string]int `json:"extracted"`
	Readiness    Readiness      `json:"readiness"`
	Level        Level          `json:"level"`
	CriticalGaps []SkillGap     `json:"critical_gaps"`
	LearningPath []PathStep     `json:"learning_path"`
}

// Analyze runs the full keyword model over text for role.
// Blank text or an unknown role is a validation error.
func Analyze(text, role string, catalog *requirements.Catalog) (*Analysis, error) {
	if err := validation.Required("resume_text", text); err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = requirements.Default()
	}
	r, ok := catalog.Lookup(role)
	if !ok {
		return nil, validation.New("role", fmt.Sprintf("unknown role %q", role))
	}

	extracted := ExtractSkills(text)
	readiness := CalculateReadiness(extracted, r.Skills)
	return &Analysis{
		Role:         r.Name,
		Extracted:    extracted,
		Readiness:    readiness,
		Level:        ReadinessLevel(readiness.Score),
		CriticalGaps: CriticalGaps(readiness, r.Skills),
		LearningPath: LearningPath(readiness),
	}, nil
}

// Report renders a downloadable plain-text summary of an analysis.
func Report(a *Analysis, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("# Resume Skill Gap Analysis Report\n\n")
	fmt.Fprintf(&sb, "**Target Role:** %s\n", a.Role)
	fmt.Fprintf(&sb, "**Readiness Score:** %.1f%%\n", a.Readiness.Score)
	fmt.Fprintf(&sb, "**Analysis Date:** %s\n\n", now.Format("2006-01-02"))
	sb.WriteString("## Summary\n")
	fmt.Fprintf(&sb, "%s - %s\n\n", a.Level.Label, a.Level.Description)
	sb.WriteString("## Skill Breakdown\n")

	skills := sortedKeys(a.Readiness.SkillScores)
	sort.SliceStable(skills, func(i, j int) bool {
		return a.Readiness.SkillScores[skills[i]] < a.Readiness.SkillScores[skills[j]]
	})
	for _, s := range skills {
		fmt.Fprintf(&sb, "\n- %s: %d/10", s, a.Readiness.SkillScores[s])
	}
	sb.WriteString("\n")
	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
