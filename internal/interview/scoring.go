package interview

import (
	"math"
	"regexp"
	"strconv"
)

// QuestionTypes lists the selectable question categories.
var QuestionTypes = []string{
	"Technical / Conceptual",
	"Coding / Problem Solving",
	"Behavioral (STAR format)",
	"System Design",
	"Situational",
	"Role-Specific / Domain Knowledge",
}

// DefaultQuestionTypes is the selection offered when the user has not picked any.
var DefaultQuestionTypes = []string{"Technical / Conceptual", "Behavioral (STAR format)"}

// IsQuestionType reports whether t is one of QuestionTypes.
func IsQuestionType(t string) bool {
	for _, q := range QuestionTypes {
		if q == t {
			return true
		}
	}
	return false
}

var scorePattern = regexp.MustCompile(`(?i)Score[:\s]*\[?\s*(\d+)\s*/\s*10`)

// ExtractScore pulls the first "Score: X/10" out of free-text feedback.
// Missing or malformed scores yield 0; values above 10 are capped.
func ExtractScore(feedback string) int {
	m := scorePattern.FindStringSubmatch(feedback)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return min(n, 10)
}

// AverageScore is the mean of the entries scoring above zero, rounded to one decimal.
// Skipped questions and genuine zero scores are both left out; no scored entries yields 0.
func AverageScore(entries []Entry) float64 {
	sum, n := 0, 0
	for _, e := range entries {
		if e.Score > 0 {
			sum += e.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// Grade labels an average score.
func Grade(avg float64) string {
	switch {
	case avg >= 8:
		return "Excellent"
	case avg >= 6:
		return "Good"
	case avg >= 4:
		return "Needs Work"
	default:
		return "Keep Practicing"
	}
}

// Stats counts how a session's questions were handled.
type Stats struct {
	Total    int     `json:"total"`
	Answered int     `json:"answered"`
	Skipped  int     `json:"skipped"`
	Average  float64 `json:"average"`
	Grade    string  `json:"grade"`
}

// ComputeStats summarizes entries.
func ComputeStats(entries []Entry) Stats {
	s := Stats{Total: len(entries)}
	for _, e := range entries {
		if e.Skipped {
			s.Skipped++
		} else {
			s.Answered++
		}
	}
	s.Average = AverageScore(entries)
	s.Grade = Grade(s.Average)
	return s
}
