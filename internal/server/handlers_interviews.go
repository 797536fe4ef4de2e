package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/validation"
)

type createInterviewRequest struct {
	Role          string   `json:"role" validate:"required"`
	QuestionTypes []string `json:"question_types" validate:"required,min=1"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type interviewView struct {
	Session      interview.Session `json:"session"`
	Stats        interview.Stats   `json:"stats"`
	MaxQuestions int               `json:"max_questions"`
}

func newInterviewView(s interview.Session) interviewView {
	return interviewView{Session: s, Stats: s.Stats(), MaxQuestions: interview.MaxQuestions}
}

// handleCreateInterview starts a mock interview session.
func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req createInterviewRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(w, r, err)
		return
	}

	session, err := s.interviews.Create(req.Role, req.QuestionTypes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	snap, err := s.interviews.Snapshot(r.Context(), session.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, newInterviewView(snap))
}

// handleGetInterview returns the session state.
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.interviewID(w, r)
	if !ok {
		return
	}
	snap, err := s.interviews.Snapshot(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newInterviewView(snap))
}

// handleDeleteInterview abandons a session.
func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.interviewID(w, r)
	if !ok {
		return
	}
	if !s.interviews.Delete(id) {
		s.fail(w, r, interview.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNextQuestion generates the next question.
func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	s.interviewStep(w, r, func(ctx context.Context, session *interview.Session) (any, error) {
		question, err := session.NextQuestion(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"number":   len(session.Entries) + 1,
			"type":     session.CurrentType,
			"question": question,
			"state":    session.State,
		}, nil
	})
}

// handleSubmitAnswer evaluates an answer to the current question.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.interviewStep(w, r, func(ctx context.Context, session *interview.Session) (any, error) {
		entry, err := session.Submit(ctx, req.Answer)
		if err != nil {
			return nil, err
		}
		return map[string]any{"entry": *entry, "state": session.State}, nil
	})
}

// handleSkipQuestion records the current question as skipped.
func (s *Server) handleSkipQuestion(w http.ResponseWriter, r *http.Request) {
	s.interviewStep(w, r, func(_ context.Context, session *interview.Session) (any, error) {
		entry, err := session.Skip()
		if err != nil {
			return nil, err
		}
		return map[string]any{"entry": *entry, "state": session.State}, nil
	})
}

// handleInterviewSummary generates (or returns the already generated) overall feedback.
func (s *Server) handleInterviewSummary(w http.ResponseWriter, r *http.Request) {
	s.interviewStep(w, r, func(ctx context.Context, session *interview.Session) (any, error) {
		summary, err := session.ViewSummary(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"summary": summary, "stats": session.Stats(), "state": session.State}, nil
	})
}

// handleResetInterview discards progress and restarts the session with the same role and question types.
func (s *Server) handleResetInterview(w http.ResponseWriter, r *http.Request) {
	s.interviewStep(w, r, func(_ context.Context, session *interview.Session) (any, error) {
		role, types := session.Role, session.QuestionTypes
		session.Reset()
		if err := session.Setup(role, types); err != nil {
			return nil, err
		}
		return map[string]any{"state": session.State, "role": session.Role}, nil
	})
}

// handleInterviewReport downloads the Markdown transcript of a session.
func (s *Server) handleInterviewReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.interviewID(w, r)
	if !ok {
		return
	}
	snap, err := s.interviews.Snapshot(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.attachment(w, "text/markdown; charset=utf-8", interview.ReportFilename(snap.Role), []byte(interview.Report(&snap)))
}

// handleListInterviews lists finished interviews from the database.
func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "interview history requires a database")
		return
	}
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	records, err := s.history.ListInterviews(r.Context(), r.URL.Query().Get("role"), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"interviews": records, "count": len(records)})
}

// interviewStep runs fn with exclusive access to the {id} session and writes its result.
func (s *Server) interviewStep(w http.ResponseWriter, r *http.Request, fn func(context.Context, *interview.Session) (any, error)) {
	id, ok := s.interviewID(w, r)
	if !ok {
		return
	}
	var out any
	err := s.interviews.Do(r.Context(), id, func(session *interview.Session) error {
		var err error
		out, err = fn(r.Context(), session)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) interviewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, validation.New("id", "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
