package assessment

import "sort"

// Readiness summarizes quiz results across topics.
type Readiness struct {
	OverallScore float64            `json:"overall_score"`
	Status       string             `json:"status"`
	Breakdown    map[string]float64 `json:"breakdown,omitempty"`
}

// RoleReadiness averages per-topic percentages into an overall status.
func RoleReadiness(scores map[string]float64) Readiness {
	if len(scores) == 0 {
		return Readiness{Status: "No assessments taken"}
	}

	// Sum in key order so the float result does not depend on map iteration.
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sum := 0.0
	for _, k := range keys {
		sum += scores[k]
	}
	overall := sum / float64(len(scores))

	var status string
	switch {
	case overall >= 85:
		status = "Role Ready - Interview Preparation Recommended"
	case overall >= 70:
		status = "Preparation Needed - Focus on weak areas"
	case overall >= 50:
		status = "More Learning Required - Substantial gaps identified"
	default:
		status = "Beginner Level - Start with fundamentals"
	}

	return Readiness{
		OverallScore: Round(overall, 2),
		Status:       status,
		Breakdown:    scores,
	}
}

// RubricItem is one component of the heuristic interview rubric.
type RubricItem struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// AnswerRubric is the heuristic score for a free-text interview answer.
type AnswerRubric struct {
	TotalScore int                   `json:"total_score"`
	MaxScore   int                   `json:"max_score"`
	Percentage float64               `json:"percentage"`
	Breakdown  map[string]RubricItem `json:"breakdown"`
}

var toneScores = map[string]RubricItem{
	"poor":      {Score: 5, Feedback: "Unclear or rambling"},
	"average":   {Score: 15, Feedback: "Adequate but could be clearer"},
	"good":      {Score: 22, Feedback: "Clear and well-structured"},
	"excellent": {Score: 25, Feedback: "Excellent clarity and delivery"},
}

// ScoreInterviewAnswer scores an answer by length and delivery tone out of 100.
// Structure is fixed at 30 until answers are analysed for STAR content.
func ScoreInterviewAnswer(answerLength int, tone string) AnswerRubric {
	var length RubricItem
	switch {
	case answerLength < 100:
		length = RubricItem{Score: 5, Feedback: "Too brief - expand with more details"}
	case answerLength < 300:
		length = RubricItem{Score: 15, Feedback: "Good length for most questions"}
	case answerLength < 600:
		length = RubricItem{Score: 25, Feedback: "Excellent comprehensive answer"}
	default:
		length = RubricItem{Score: 20, Feedback: "A bit long - conciseness is important"}
	}

	toneItem, ok := toneScores[tone]
	if !ok {
		toneItem = RubricItem{Score: 15, Feedback: "Neutral"}
	}

	structure := RubricItem{Score: 30, Feedback: "Consider using STAR method"}
	total := length.Score + toneItem.Score + structure.Score

	return AnswerRubric{
		TotalScore: total,
		MaxScore:   100,
		Percentage: float64(total),
		Breakdown: map[string]RubricItem{
			"length":    length,
			"tone":      toneItem,
			"structure": structure,
		},
	}
}
