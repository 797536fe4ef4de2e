// Package assessment provides skill quiz scoring, level bucketing and the static question bank.
package assessment

import (
	"errors"
	"math"
)

// ErrAnswerCountMismatch is returned when the selected answers and the answer key differ in length.
var ErrAnswerCountMismatch = errors.New("answer count mismatch")

// Level is one bucket of the performance threshold table.
type Level struct {
	Name      string  `json:"name"`
	Display   string  `json:"display"`
	Threshold float64 `json:"threshold"`
	Feedback  string  `json:"feedback"`
}

// levels is ordered from highest threshold to lowest; the last entry catches everything.
// CalculateScore and SkillLevel both bucket against this table.
var levels = []Level{
	{Name: "Expert", Display: "Expert (90+%)", Threshold: 90, Feedback: "Excellent! You demonstrate strong mastery of this topic."},
	{Name: "Advanced", Display: "Advanced (80-89%)", Threshold: 80, Feedback: "Great job! You have solid understanding with minor gaps."},
	{Name: "Proficient", Display: "Proficient (70-79%)", Threshold: 70, Feedback: "Good foundation! Continue practicing to improve further."},
	{Name: "Intermediate", Display: "Intermediate (60-69%)", Threshold: 60, Feedback: "You have basic knowledge. Focus on weak areas."},
	{Name: "Beginner", Display: "Beginner (<60%)", Threshold: 0, Feedback: "Keep practicing! This topic needs more attention."},
}

// Levels returns a copy of the threshold table, highest first.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// LevelFor returns the bucket a percentage falls into.
func LevelFor(percentage float64) Level {
	for _, l := range levels {
		if percentage >= l.Threshold {
			return l
		}
	}
	return levels[len(levels)-1]
}

// SkillLevel returns the display label for a percentage, e.g. "Advanced (80-89%)".
func SkillLevel(percentage float64) string {
	return LevelFor(percentage).Display
}

// Result is the outcome of scoring one assessment run.
type Result struct {
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Level      string  `json:"level"`
	Feedback   string  `json:"feedback"`
}

// CalculateScore compares selected option indices against the answer key.
// The percentage is rounded to two decimals before bucketing.
func CalculateScore(answers, correctAnswers []int) (*Result, error) {
	if len(answers) != len(correctAnswers) {
		return nil, ErrAnswerCountMismatch
	}

	correct := 0
	for i, a := range answers {
		if a == correctAnswers[i] {
			correct++
		}
	}

	total := len(answers)
	percentage := 0.0
	if total > 0 {
		percentage = Round(float64(correct)/float64(total)*100, 2)
	}

	level := LevelFor(percentage)
	return &Result{
		Correct:    correct,
		Total:      total,
		Percentage: percentage,
		Level:      level.Name,
		Feedback:   level.Feedback,
	}, nil
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
