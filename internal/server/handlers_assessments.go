package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/career-assistant/internal/assessment"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/validation"
)

// handleListTopics lists the quiz topics and the level bands used for scoring.
func (s *Server) handleListTopics(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"topics": assessment.Topics(),
		"levels": assessment.Levels(),
	})
}

// handleGetAssessment draws a quiz for one topic. The answer key is never sent;
// scoring looks it up again from the question texts.
func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	topic := r.PathValue("topic")
	if !assessment.HasTopic(topic) {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("unknown topic %q", topic))
		return
	}
	n, err := queryInt(r, "count", assessment.DefaultQuestionCount)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	questions, _ := assessment.GetAssessment(topic, n, nil)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"topic":     topic,
		"questions": questions,
	})
}

type scoreRequest struct {
	Topic     string   `json:"topic" validate:"required"`
	Questions []string `json:"questions" validate:"required,min=1"`
	Answers   []int    `json:"answers" validate:"dive,min=0"`
	Profile   string   `json:"profile,omitempty"`
}

type scoreResponse struct {
	*assessment.Result
	Review []assessment.Review `json:"review"`
}

// handleScoreAssessment grades a submitted quiz and reveals the correct options
// and explanations. When a profile is named, the result is stored in its skill
// assessment on the 0-10 scale.
func (s *Server) handleScoreAssessment(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(w, r, err)
		return
	}
	if !assessment.HasTopic(req.Topic) {
		s.fail(w, r, validation.New("topic", fmt.Sprintf("unknown topic %q", req.Topic)))
		return
	}
	seen := make(map[string]bool, len(req.Questions))
	for _, q := range req.Questions {
		if seen[q] {
			s.fail(w, r, validation.New("questions", fmt.Sprintf("question %q is listed more than once", q)))
			return
		}
		seen[q] = true
	}

	result, err := assessment.CalculateScore(req.Answers, assessment.AnswerKey(req.Topic, req.Questions))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	review, err := assessment.ReviewAnswers(req.Topic, req.Questions, req.Answers)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if req.Profile != "" {
		now := s.now()
		_, err := profile.Update(r.Context(), s.store, req.Profile, func(p *profile.Profile) error {
			if p.SkillAssessment == nil {
				p.SkillAssessment = map[string]int{}
			}
			p.SkillAssessment[req.Topic] = int(result.Percentage+5) / 10
			profile.LogActivity(p, "assessment", 0, now)
			profile.CheckAchievements(p, profile.Counters{}, profile.Streaks(p.ActivityHistory, now))
			return nil
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, scoreResponse{Result: result, Review: review})
}
