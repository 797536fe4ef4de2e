package profile

import "slices"

// Gamification is the badge and XP state stored on a profile.
type Gamification struct {
	Badges  []string `json:"earned_badges"`
	TotalXP int      `json:"total_xp"`
}

// Counters carries usage facts that live outside the profile document.
type Counters struct {
	ChatMessages      int  `json:"chat_messages"`
	Interviews        int  `json:"interviews"`
	ResumeAnalyzed    bool `json:"resume_analyzed"`
	ProjectsCompleted int  `json:"projects_completed"`
}

// Achievement is a badge and the rule that earns it.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`

	earned func(p *Profile, c Counters, s Streak) bool
}

// Achievements is the badge catalog in award order.
var Achievements = []Achievement{
	{"first_step", "Getting Started", "Create your first career profile", 10,
		func(*Profile, Counters, Streak) bool { return true }},
	{"skill_assessor", "Skill Assessor", "Complete your first skill assessment", 25,
		func(p *Profile, _ Counters, _ Streak) bool { return len(p.SkillAssessment) > 0 }},
	{"roadmap_builder", "Roadmap Builder", "Create your first career roadmap", 30,
		func(p *Profile, _ Counters, _ Streak) bool { return len(p.RoadmapData) > 0 }},
	{"progress_tracker", "Progress Tracker", "Log your first milestone in progress tracking", 20,
		func(p *Profile, _ Counters, _ Streak) bool {
			return p.ProgressData != nil && len(p.ProgressData.CompletedMilestones) > 0
		}},
	{"mentor_seeker", "Mentor Seeker", "Have 10 conversations with the AI mentor", 50,
		func(_ *Profile, c Counters, _ Streak) bool { return c.ChatMessages >= 10 }},
	{"resume_optimizer", "Resume Optimizer", "Upload and analyze your resume", 15,
		func(_ *Profile, c Counters, _ Streak) bool { return c.ResumeAnalyzed }},
	{"interview_master", "Interview Master", "Complete 3 mock interviews", 40,
		func(_ *Profile, c Counters, _ Streak) bool { return c.Interviews >= 3 }},
	{"streak_champion", "Streak Champion", "Maintain a 7-day activity streak", 100,
		func(_ *Profile, _ Counters, s Streak) bool { return s.Current >= 7 }},
	{"skill_master", "Skill Master", "Assess 5 different skills", 75,
		func(p *Profile, _ Counters, _ Streak) bool { return len(p.SkillAssessment) >= 5 }},
	{"project_hero", "Project Hero", "Complete 5 project ideas", 60,
		func(p *Profile, c Counters, _ Streak) bool {
			n := c.ProjectsCompleted
			if p.ProgressData != nil {
				n = max(n, len(p.ProgressData.ProjectsCompleted))
			}
			return n >= 5
		}},
}

// CheckAchievements awards every badge p now qualifies for and has not yet earned,
// adding the points to its XP. It returns the newly earned badges.
func CheckAchievements(p *Profile, c Counters, streak Streak) []Achievement {
	if p.Gamification == nil {
		p.Gamification = &Gamification{}
	}
	var earned []Achievement
	for _, a := range Achievements {
		if slices.Contains(p.Gamification.Badges, a.ID) || !a.earned(p, c, streak) {
			continue
		}
		p.Gamification.Badges = append(p.Gamification.Badges, a.ID)
		p.Gamification.TotalXP += a.Points
		earned = append(earned, a)
	}
	return earned
}

// XPLevel converts total XP into a level, one level per 100 XP starting at 1.
func XPLevel(xp int) int {
	return xp/100 + 1
}
