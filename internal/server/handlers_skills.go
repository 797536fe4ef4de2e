package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jonathan/career-assistant/internal/gaps"
	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/requirements"
	"github.com/jonathan/career-assistant/internal/resume"
	"github.com/jonathan/career-assistant/internal/validation"
)

// handleListRoles returns the requirement catalog.
func (s *Server) handleListRoles(w http.ResponseWriter, _ *http.Request) {
	names := s.catalog.Roles()
	roles := make([]requirements.Role, 0, len(names))
	for _, name := range names {
		if role, ok := s.catalog.Lookup(name); ok {
			roles = append(roles, role)
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"version": s.catalog.Version,
		"roles":   roles,
	})
}

type gapsRequest struct {
	Role    string         `json:"role" validate:"required"`
	Skills  map[string]int `json:"skills"`
	Profile string         `json:"profile,omitempty"`
}

// handleGaps compares self-rated skills, given inline or taken from a profile,
// against a role and returns the gaps with a learning plan.
func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	var req gapsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(w, r, err)
		return
	}
	role, ok := s.catalog.Lookup(req.Role)
	if !ok {
		s.fail(w, r, validation.New("role", fmt.Sprintf("unknown role %q", req.Role)))
		return
	}

	current := req.Skills
	if len(current) == 0 && req.Profile != "" {
		p, err := s.store.Load(r.Context(), req.Profile)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if p == nil {
			s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("profile %q not found", req.Profile))
			return
		}
		current = p.SkillAssessment
	}

	result := gaps.Calculate(gaps.ClampAll(current), role.Name, s.catalog)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"role":       role.Name,
		"gaps":       result,
		"summary":    gaps.Summarize(result),
		"severity":   gaps.Bucket(result),
		"plan":       gaps.LearningPlan(result),
		"projection": gaps.Projection(result),
	})
}

type readinessRequest struct {
	Role    string `json:"role"`
	Text    string `json:"text,omitempty"`
	URL     string `json:"url,omitempty" validate:"omitempty,url"`
	Profile string `json:"profile,omitempty"`
}

// handleReadiness scores a resume against a role with the keyword model.
// The resume arrives as JSON text, a URL to fetch, or a multipart "file" upload
// with a "role" form field. With ?format=report the plain-text report is downloaded.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	req, doc, err := s.readResume(w, r, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	analysis, err := resume.Analyze(doc.Text, req.Role, s.catalog)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	now := s.now()
	if req.Profile != "" {
		_, err := profile.Update(r.Context(), s.store, req.Profile, func(p *profile.Profile) error {
			profile.LogActivity(p, "resume", 0, now)
			profile.CheckAchievements(p, profile.Counters{ResumeAnalyzed: true}, profile.Streaks(p.ActivityHistory, now))
			return nil
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}

	if r.URL.Query().Get("format") == "report" {
		name := "resume_analysis_" + profile.Slug(analysis.Role) + "_" + now.Format("20060102") + ".md"
		s.attachment(w, "text/markdown; charset=utf-8", name, []byte(resume.Report(analysis, now)))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analysis": analysis,
		"document": doc.Metadata,
	})
}

// readResume resolves the request's resume source into a document.
// With requireRole a missing role is rejected before anything is fetched.
func (s *Server) readResume(w http.ResponseWriter, r *http.Request, requireRole bool) (*readinessRequest, *ingestion.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req readinessRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		data, filename, contentType, err := readUpload(r, "file")
		if err != nil {
			return nil, nil, err
		}
		req.Role = r.FormValue("role")
		req.Profile = r.FormValue("profile")
		if err := checkResumeRequest(&req, requireRole); err != nil {
			return nil, nil, err
		}
		doc, err := s.loader.FromUpload(contentType, filename, data)
		return &req, doc, err
	}

	if err := decodeStrict(r.Body, &req); err != nil {
		return nil, nil, err
	}
	if err := checkResumeRequest(&req, requireRole); err != nil {
		return nil, nil, err
	}
	switch {
	case strings.TrimSpace(req.Text) != "":
		doc, err := s.loader.FromUpload(resume.MIMEText, "", []byte(req.Text))
		return &req, doc, err
	case req.URL != "":
		doc, err := s.loader.FromURL(r.Context(), req.URL)
		return &req, doc, err
	default:
		return nil, nil, validation.New("text", "resume text, url or file upload is required")
	}
}

func checkResumeRequest(req *readinessRequest, requireRole bool) error {
	if requireRole {
		if err := validation.Required("role", req.Role); err != nil {
			return err
		}
	}
	return validation.Struct(req)
}

// readUpload returns the bytes, filename and declared content type of a multipart file field.
func readUpload(r *http.Request, field string) ([]byte, string, string, error) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, "", "", err
		}
		return nil, "", "", validation.New(field, "invalid multipart form: "+err.Error())
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", "", validation.New(field, "file upload is required")
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	return data, header.Filename, header.Header.Get("Content-Type"), nil
}
