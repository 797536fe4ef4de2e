package profile

import (
	"strings"
	"time"

	"github.com/jonathan/career-assistant/internal/validation"
)

// Progress is the milestone, skill and project log kept on a profile.
type Progress struct {
	CompletedMilestones []Milestone        `json:"completed_milestones"`
	InProgress          []Learning         `json:"in_progress"`
	ProjectsCompleted   []Project          `json:"projects_completed"`
	SkillsImproved      []SkillImprovement `json:"skills_improved"`
	CompletionHistory   []Completion       `json:"completion_history,omitempty"`
}

// Milestone is a completed roadmap milestone.
type Milestone struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Learning is a skill the user has started learning.
type Learning struct {
	Skill     string `json:"skill"`
	StartDate string `json:"start_date"`
}

// Project is a finished portfolio project.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
}

// SkillImprovement records a self-reported improvement of 1-10.
type SkillImprovement struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
	Date  string `json:"date"`
}

// Completion is one planned day and whether its tasks were done.
type Completion struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Tasks     int    `json:"tasks"`
}

func (p *Profile) progress() *Progress {
	if p.ProgressData == nil {
		p.ProgressData = &Progress{}
	}
	return p.ProgressData
}

// AddMilestone logs a completed milestone.
func AddMilestone(p *Profile, title string, on time.Time) error {
	if err := validation.Required("title", title); err != nil {
		return err
	}
	pr := p.progress()
	pr.CompletedMilestones = append(pr.CompletedMilestones, Milestone{Title: strings.TrimSpace(title), Date: on.Format(dateLayout)})
	return nil
}

// AddInProgress logs that the user started learning skill.
func AddInProgress(p *Profile, skill string, on time.Time) error {
	if err := validation.Required("skill", skill); err != nil {
		return err
	}
	pr := p.progress()
	pr.InProgress = append(pr.InProgress, Learning{Skill: strings.TrimSpace(skill), StartDate: on.Format(dateLayout)})
	return nil
}

// AddProject logs a finished project.
func AddProject(p *Profile, name, description string, on time.Time) error {
	if err := validation.Required("name", name); err != nil {
		return err
	}
	pr := p.progress()
	pr.ProjectsCompleted = append(pr.ProjectsCompleted, Project{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Date:        on.Format(dateLayout),
	})
	return nil
}

// AddSkillImprovement logs an improvement of level 1-10 in skill.
func AddSkillImprovement(p *Profile, skill string, level int, on time.Time) error {
	if err := validation.Required("skill", skill); err != nil {
		return err
	}
	if level < 1 || level > 10 {
		return validation.New("level", "must be between 1 and 10")
	}
	pr := p.progress()
	pr.SkillsImproved = append(pr.SkillsImproved, SkillImprovement{Skill: strings.TrimSpace(skill), Level: level, Date: on.Format(dateLayout)})
	return nil
}

// RecordCompletion logs whether the planned tasks for a day were done.
func RecordCompletion(p *Profile, completed bool, tasks int, on time.Time) {
	pr := p.progress()
	pr.CompletionHistory = append(pr.CompletionHistory, Completion{Date: on.Format(dateLayout), Completed: completed, Tasks: tasks})
}

// VelocityWindow is the number of most recent days considered by Velocity.
const VelocityWindow = 7

// Velocity is the completed share of the last VelocityWindow planned days.
// Fewer than two entries count as full velocity.
func Velocity(history []Completion) float64 {
	if len(history) < 2 {
		return 1
	}
	recent := history[max(0, len(history)-VelocityWindow):]
	done := 0
	for _, c := range recent {
		if c.Completed {
			done++
		}
	}
	return float64(done) / float64(len(recent))
}

// Plan adjustments.
const (
	PaceSlower  = "slower"
	PaceFaster  = "faster"
	PaceOnTrack = "on_track"
)

// Plan is a roadmap timeline adapted to the user's pace.
type Plan struct {
	Adjustment string  `json:"adjustment"`
	Weeks      float64 `json:"weeks"`
	DailyTasks int     `json:"daily_tasks"`
	Velocity   float64 `json:"velocity"`
}

// AdaptivePlan stretches the timeline by half when the user keeps falling behind
// and compresses it by 30% when nearly everything gets done.
func AdaptivePlan(weeks, baseTasks int, history []Completion) Plan {
	v := Velocity(history)
	switch {
	case v < 0.5 && len(history) > 5:
		return Plan{Adjustment: PaceSlower, Weeks: float64(weeks) * 1.5, DailyTasks: max(1, baseTasks-1), Velocity: v}
	case v > 0.9:
		return Plan{Adjustment: PaceFaster, Weeks: float64(weeks) * 0.7, DailyTasks: baseTasks + 1, Velocity: v}
	default:
		return Plan{Adjustment: PaceOnTrack, Weeks: float64(weeks), DailyTasks: baseTasks, Velocity: v}
	}
}
