package advisor

// Experience levels accepted by the advisor.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
	LevelExpert       = "Expert"
)

// RoadmapRequest asks for a learning roadmap toward a role.
type RoadmapRequest struct {
	Level    string  `json:"level" validate:"required,oneof=Beginner Intermediate Advanced Expert"`
	Role     string  `json:"role" validate:"required"`
	Hours    float64 `json:"hours_per_day" validate:"gt=0,lte=24"`
	Timeline string  `json:"timeline" validate:"required"`
}

// ResumeRequest asks for feedback on resume text.
type ResumeRequest struct {
	Role   string `json:"role" validate:"required"`
	Resume string `json:"resume" validate:"required"`
}

// ProjectsRequest asks for portfolio project ideas.
type ProjectsRequest struct {
	Level string `json:"level" validate:"required,oneof=Beginner Intermediate Advanced Expert"`
	Role  string `json:"role" validate:"required"`
}

// ProjectIdea is one generated portfolio project.
type ProjectIdea struct {
	Title      string   `json:"title"`
	Problem    string   `json:"problem"`
	Difficulty string   `json:"difficulty"`
	Tools      []string `json:"tools"`
	Resources  []string `json:"resources"`
	Outcome    string   `json:"outcome"`
	Bonus      string   `json:"bonus,omitempty"`
}

// SkillsRequest carries a self-assessment. Strongest and Weakest are derived from
// the ratings when left empty.
type SkillsRequest struct {
	Field     string         `json:"field" validate:"required"`
	Technical map[string]int `json:"technical" validate:"required,min=1,dive,gte=0,lte=10"`
	Soft      map[string]int `json:"soft" validate:"dive,gte=0,lte=10"`
	Years     int            `json:"years" validate:"gte=0,lte=60"`
	Strongest string         `json:"strongest,omitempty"`
	Weakest   string         `json:"weakest,omitempty"`
}

// Milestone statuses.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
	StatusUpcoming   = "upcoming"
)

// MilestoneStatus is a roadmap milestone and where the user is with it.
type MilestoneStatus struct {
	Title  string `json:"title" validate:"required"`
	Status string `json:"status" validate:"required,oneof=completed in_progress upcoming"`
}

// ProgressRequest asks for coaching on roadmap progress.
type ProgressRequest struct {
	Field      string            `json:"field" validate:"required"`
	Milestones []MilestoneStatus `json:"milestones" validate:"required,min=1,dive"`
}

// Message is one turn of a mentor conversation.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is a mentor conversation whose last message is from the user.
type ChatRequest struct {
	Domain   string    `json:"domain" validate:"required"`
	Messages []Message `json:"messages" validate:"required,min=1,dive"`
}

// ExtractedProfile is what the model reads out of a resume.
type ExtractedProfile struct {
	Name            string         `json:"name"`
	CareerField     string         `json:"career_field"`
	ExperienceLevel string         `json:"experience_level"`
	Goals           string         `json:"goals,omitempty"`
	Skills          map[string]int `json:"skills"`
}
