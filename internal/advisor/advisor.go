// Package advisor produces free-text career guidance: roadmaps, resume feedback,
// project ideas, skill reviews, progress coaching and mentor chat.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/career-assistant/internal/gaps"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/validation"
)

// Kinds of advice served over HTTP.
const (
	KindRoadmap         = "roadmap"
	KindResume          = "resume"
	KindProjects        = "projects"
	KindSkills          = "skills"
	KindRecommendations = "recommendations"
	KindProgress        = "progress"
	KindChat            = "chat"
)

// Kinds lists every advice kind.
var Kinds = []string{KindRoadmap, KindResume, KindProjects, KindSkills, KindRecommendations, KindProgress, KindChat}

// Advisor renders prompts and calls the generation client.
type Advisor struct {
	client llm.Client
	log    logrus.FieldLogger
}

// New returns an Advisor using client.
func New(client llm.Client, log logrus.FieldLogger) *Advisor {
	return &Advisor{client: client, log: log}
}

// Roadmap returns a Markdown learning roadmap.
func (a *Advisor) Roadmap(ctx context.Context, req RoadmapRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	return a.generate(ctx, KindRoadmap, "roadmap-system", "roadmap-user", map[string]string{
		"Level":    req.Level,
		"Role":     req.Role,
		"Hours":    strconv.FormatFloat(req.Hours, 'g', -1, 64),
		"Timeline": req.Timeline,
	}, llm.TierAdvanced)
}

// ResumeFeedback reviews resume text against a target role.
func (a *Advisor) ResumeFeedback(ctx context.Context, req ResumeRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	return a.generate(ctx, KindResume, "resume-system", "resume-user", map[string]string{
		"Role":   req.Role,
		"Resume": req.Resume,
	}, llm.TierStandard)
}

// ProjectIdeas returns generated portfolio projects. A reply that is not a JSON
// array of projects is a generation failure.
func (a *Advisor) ProjectIdeas(ctx context.Context, req ProjectsRequest) ([]ProjectIdea, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	out, err := a.generate(ctx, KindProjects, "projects-system", "projects-user", map[string]string{
		"Level": req.Level,
		"Role":  req.Role,
	}, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	var ideas []ProjectIdea
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(out)), &ideas); err != nil {
		return nil, &llm.GenerationError{Op: KindProjects, Message: "reply was not a JSON project list", Cause: err}
	}
	kept := ideas[:0]
	for _, idea := range ideas {
		if strings.TrimSpace(idea.Title) != "" {
			kept = append(kept, idea)
		}
	}
	if len(kept) == 0 {
		return nil, &llm.GenerationError{Op: KindProjects, Message: "reply contained no projects"}
	}
	return kept, nil
}

// SkillAssessment analyses a self-assessment.
func (a *Advisor) SkillAssessment(ctx context.Context, req SkillsRequest) (string, error) {
	data, err := skillsData(req)
	if err != nil {
		return "", err
	}
	return a.generate(ctx, KindSkills, "skills-system", "skills-assessment-user", data, llm.TierStandard)
}

// SkillRecommendations suggests what to learn next given a self-assessment.
func (a *Advisor) SkillRecommendations(ctx context.Context, req SkillsRequest) (string, error) {
	data, err := skillsData(req)
	if err != nil {
		return "", err
	}
	data["TechnicalAverage"] = fmt.Sprintf("%.1f", average(req.Technical))
	data["SoftAverage"] = fmt.Sprintf("%.1f", average(req.Soft))
	return a.generate(ctx, KindRecommendations, "skills-system", "skills-recommendations-user", data, llm.TierStandard)
}

// ProgressCoaching comments on roadmap progress.
func (a *Advisor) ProgressCoaching(ctx context.Context, req ProgressRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	groups := map[string][]string{}
	for _, m := range req.Milestones {
		groups[m.Status] = append(groups[m.Status], "- "+m.Title)
	}
	list := func(status string) string {
		if len(groups[status]) == 0 {
			return "- None"
		}
		return strings.Join(groups[status], "\n")
	}
	return a.generate(ctx, KindProgress, "skills-system", "progress-user", map[string]string{
		"Field":           req.Field,
		"Total":           strconv.Itoa(len(req.Milestones)),
		"CompletedCount":  strconv.Itoa(len(groups[StatusCompleted])),
		"InProgressCount": strconv.Itoa(len(groups[StatusInProgress])),
		"Completed":       list(StatusCompleted),
		"InProgress":      list(StatusInProgress),
		"Upcoming":        list(StatusUpcoming),
	}, llm.TierStandard)
}

// Chat answers the latest user message in a mentor conversation.
func (a *Advisor) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	if req.Messages[len(req.Messages)-1].Role != "user" {
		return "", validation.New("messages", "last message must come from the user")
	}

	system, err := prompts.Render(prompts.AdvisorFile, "chat-system", map[string]string{"Domain": req.Domain})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, m := range req.Messages {
		speaker := "User"
		if m.Role == "assistant" {
			speaker = "Mentor"
		}
		fmt.Fprintf(&sb, "%s: %s\n\n", speaker, strings.TrimSpace(m.Content))
	}
	sb.WriteString("Mentor:")
	return a.call(ctx, KindChat, system, sb.String(), llm.TierStandard)
}

// ExtractProfile reads profile fields out of resume text. Skill levels are clamped to 0-10.
func (a *Advisor) ExtractProfile(ctx context.Context, resumeText string) (*ExtractedProfile, error) {
	if err := validation.Required("resume_text", resumeText); err != nil {
		return nil, err
	}
	system, user := llm.BuildExtractionPrompt(llm.ResumeProfileSchema(), resumeText)
	out, err := a.call(ctx, "extract", system, user, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	var p ExtractedProfile
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(out)), &p); err != nil {
		return nil, &llm.GenerationError{Op: "extract", Message: "reply was not a JSON profile", Cause: err}
	}
	p.Skills = gaps.ClampAll(p.Skills)
	return &p, nil
}

func (a *Advisor) generate(ctx context.Context, op, systemKey, userKey string, data map[string]string, tier llm.ModelTier) (string, error) {
	system, err := prompts.Get(prompts.AdvisorFile, systemKey)
	if err != nil {
		return "", err
	}
	user, err := prompts.Render(prompts.AdvisorFile, userKey, data)
	if err != nil {
		return "", err
	}
	return a.call(ctx, op, system, user, tier)
}

func (a *Advisor) call(ctx context.Context, op, system, user string, tier llm.ModelTier) (string, error) {
	out, err := a.client.Generate(ctx, system, user, tier)
	if err != nil {
		a.log.WithError(err).WithField("op", op).Warn("advisor generation failed")
		return "", llm.WrapGenerationError(op, "advisor generation failed", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &llm.GenerationError{Op: op, Message: "model returned an empty reply"}
	}
	return out, nil
}

func skillsData(req SkillsRequest) (map[string]string, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	strongest, weakest := req.Strongest, req.Weakest
	if strongest == "" || weakest == "" {
		hi, lo := extremes(req.Technical, req.Soft)
		if strongest == "" {
			strongest = hi
		}
		if weakest == "" {
			weakest = lo
		}
	}
	return map[string]string{
		"Field":     req.Field,
		"Technical": ratingLines(req.Technical),
		"Soft":      ratingLines(req.Soft),
		"Years":     strconv.Itoa(req.Years),
		"Strongest": strongest,
		"Weakest":   weakest,
	}, nil
}

func ratingLines(ratings map[string]int) string {
	if len(ratings) == 0 {
		return "- None provided"
	}
	names := make([]string, 0, len(ratings))
	for n := range ratings {
		names = append(names, n)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = fmt.Sprintf("- %s: %d/10", n, ratings[n])
	}
	return strings.Join(lines, "\n")
}

func average(ratings map[string]int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, v := range ratings {
		sum += v
	}
	return float64(sum) / float64(len(ratings))
}

// extremes returns the highest and lowest rated skill across all maps, ties broken by name.
func extremes(maps ...map[string]int) (hi, lo string) {
	hiV, loV := -1, 11
	for _, m := range maps {
		for name, v := range m {
			if v > hiV || (v == hiV && name < hi) {
				hi, hiV = name, v
			}
			if v < loV || (v == loV && name < lo) {
				lo, loV = name, v
			}
		}
	}
	return hi, lo
}
