package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/jonathan/career-assistant/internal/advisor"
	"github.com/jonathan/career-assistant/internal/profile"
)

type roadmapDocument struct {
	Role        string `json:"role"`
	Level       string `json:"level"`
	Timeline    string `json:"timeline"`
	Content     string `json:"content"`
	GeneratedAt string `json:"generated_at"`
}

// handleAdvisor generates one kind of advice. With ?profile= a roadmap is also
// saved on the named profile.
func (s *Server) handleAdvisor(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "advisor is not configured")
		return
	}
	kind := r.PathValue("kind")
	if !slices.Contains(advisor.Kinds, kind) {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("unknown advice kind %q (want one of %s)", kind, strings.Join(advisor.Kinds, ", ")))
		return
	}

	ctx := r.Context()
	var (
		content string
		err     error
	)
	switch kind {
	case advisor.KindRoadmap:
		var req advisor.RoadmapRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		if content, err = s.advisor.Roadmap(ctx, req); err == nil {
			err = s.saveRoadmap(r, req, content)
		}
	case advisor.KindResume:
		var req advisor.ResumeRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		content, err = s.advisor.ResumeFeedback(ctx, req)
	case advisor.KindProjects:
		var req advisor.ProjectsRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		ideas, err := s.advisor.ProjectIdeas(ctx, req)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{"kind": kind, "projects": ideas})
		return
	case advisor.KindSkills, advisor.KindRecommendations:
		var req advisor.SkillsRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		if kind == advisor.KindSkills {
			content, err = s.advisor.SkillAssessment(ctx, req)
		} else {
			content, err = s.advisor.SkillRecommendations(ctx, req)
		}
	case advisor.KindProgress:
		var req advisor.ProgressRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		content, err = s.advisor.ProgressCoaching(ctx, req)
	case advisor.KindChat:
		var req advisor.ChatRequest
		if !s.decodeJSON(w, r, &req) {
			return
		}
		content, err = s.advisor.Chat(ctx, req)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"kind": kind, "content": content})
}

func (s *Server) saveRoadmap(r *http.Request, req advisor.RoadmapRequest, content string) error {
	name := r.URL.Query().Get("profile")
	if name == "" {
		return nil
	}
	now := s.now()
	doc, err := json.Marshal(roadmapDocument{
		Role:        req.Role,
		Level:       req.Level,
		Timeline:    req.Timeline,
		Content:     content,
		GeneratedAt: now.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = profile.Update(r.Context(), s.store, name, func(p *profile.Profile) error {
		p.RoadmapData = doc
		profile.LogActivity(p, advisor.KindRoadmap, 0, now)
		profile.CheckAchievements(p, profile.Counters{}, profile.Streaks(p.ActivityHistory, now))
		return nil
	})
	return err
}

// handleExtractProfile reads profile fields out of a resume. With ?save=true the
// result is stored as a new profile.
func (s *Server) handleExtractProfile(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "advisor is not configured")
		return
	}
	_, doc, err := s.readResume(w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	extracted, err := s.advisor.ExtractProfile(r.Context(), doc.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := map[string]any{"extracted": extracted, "document": doc.Metadata}
	if r.URL.Query().Get("save") == "true" {
		p := &profile.Profile{
			Name:            extracted.Name,
			CareerField:     extracted.CareerField,
			ExperienceLevel: extracted.ExperienceLevel,
			Goals:           extracted.Goals,
			SkillAssessment: extracted.Skills,
		}
		if p.ExperienceLevel == "" {
			p.ExperienceLevel = profile.Beginner
		}
		existing, err := s.store.Load(r.Context(), p.Name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if existing != nil {
			s.errorResponse(w, http.StatusConflict, fmt.Sprintf("profile %q already exists", p.Name))
			return
		}
		profile.CheckAchievements(p, profile.Counters{ResumeAnalyzed: true}, profile.Streak{})
		if err := profile.Create(r.Context(), s.store, p); err != nil {
			s.fail(w, r, err)
			return
		}
		resp["profile"] = p
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
