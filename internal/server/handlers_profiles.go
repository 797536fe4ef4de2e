package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/career-assistant/internal/export"
	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/schemas"
	"github.com/jonathan/career-assistant/internal/validation"
)

// handleListProfiles lists profile summaries, most recently updated first.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []profile.Summary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profiles": list,
		"count":    len(list),
	})
}

// handleCreateProfile creates a new profile. An existing profile of the same name is a conflict.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if err := schemas.ValidateProfile(body); err != nil {
		s.fail(w, r, err)
		return
	}
	var p profile.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	p.Name = strings.TrimSpace(p.Name)

	existing, err := s.store.Load(r.Context(), p.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if existing != nil {
		s.errorResponse(w, http.StatusConflict, fmt.Sprintf("profile %q already exists", p.Name))
		return
	}

	earned := profile.CheckAchievements(&p, profile.Counters{}, profile.Streaks(p.ActivityHistory, s.now()))
	if err := profile.Create(r.Context(), s.store, &p); err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.WithField("profile", p.Name).Info("profile created")
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"profile":          &p,
		"new_achievements": achievementViews(earned),
	})
}

// handleGetProfile returns one profile document.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

// handleUpdateProfile overlays the fields present in the body onto the stored profile.
// name, created_at and updated_at cannot be changed this way.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var patch map[string]json.RawMessage
	if err := json.Unmarshal(body, &patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	p, err := profile.Update(r.Context(), s.store, name, func(p *profile.Profile) error {
		updated, err := applyPatch(p, patch)
		if err != nil {
			return err
		}
		*p = *updated
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func applyPatch(p *profile.Profile, patch map[string]json.RawMessage) (*profile.Profile, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	for k, v := range patch {
		switch k {
		case "name", "created_at", "updated_at":
			continue
		}
		if string(v) == "null" {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	if b, err = json.Marshal(doc); err != nil {
		return nil, err
	}
	if err := schemas.ValidateProfile(b); err != nil {
		return nil, err
	}

	var out profile.Profile
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, validation.New("", err.Error())
	}
	out.CreatedAt = p.CreatedAt
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// handleDeleteProfile removes a profile.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	deleted, err := s.store.Delete(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("profile %q not found", name))
		return
	}
	s.log.WithField("profile", name).Info("profile deleted")
	w.WriteHeader(http.StatusNoContent)
}

// handleExportProfile downloads one profile as json, csv, markdown or html.
func (s *Server) handleExportProfile(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}
	contentType, ext, ok := export.ContentType(format)
	if !ok {
		s.fail(w, r, &export.UnsupportedFormatError{Format: format})
		return
	}

	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	data, err := export.Render(p, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.attachment(w, contentType, profile.Slug(p.Name)+"_profile"+ext, data)
}

// handleBulkExport downloads every profile, as a bulk JSON document or, with format=zip, a bundle.
func (s *Server) handleBulkExport(w http.ResponseWriter, r *http.Request) {
	profiles, err := profile.LoadAll(r.Context(), s.store)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	now := s.now()
	stamp := now.Format("20060102_150405")
	switch format := r.URL.Query().Get("format"); format {
	case "", export.FormatJSON:
		data, err := export.BulkJSON(profiles, now)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.attachment(w, "application/json", "all_profiles_"+stamp+".json", data)
	case "zip":
		data, err := export.Bundle(profiles)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.attachment(w, "application/zip", "career_profiles_"+stamp+".zip", data)
	default:
		s.fail(w, r, &export.UnsupportedFormatError{Format: format})
	}
}

// handleImportProfiles imports profiles from a JSON or CSV body, or a multipart "file" field.
// Existing profiles are skipped unless overwrite=true.
func (s *Server) handleImportProfiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var (
		data     []byte
		filename string
		err      error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		data, filename, _, err = readUpload(r, "file")
	} else {
		data, err = io.ReadAll(r.Body)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
		if mediaType == "text/csv" || strings.HasSuffix(strings.ToLower(filename), ".csv") {
			format = export.FormatCSV
		}
	}

	var profiles []*profile.Profile
	switch format {
	case export.FormatJSON:
		profiles, err = export.ImportJSON(data)
	case export.FormatCSV:
		profiles, err = export.ImportCSV(data)
	default:
		err = &export.UnsupportedFormatError{Format: format}
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	overwrite, _ := strconv.ParseBool(r.URL.Query().Get("overwrite"))
	imported, skipped, err := profile.SaveAll(r.Context(), s.store, profiles, overwrite)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.WithFields(logrus.Fields{"imported": len(imported), "skipped": len(skipped), "format": format}).Info("profiles imported")
	s.jsonResponse(w, http.StatusOK, map[string]any{"imported": imported, "skipped": skipped})
}

type mergeRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required,nefield=Source"`
}

// handleMergeProfiles fills the target profile's missing fields from the source.
func (s *Server) handleMergeProfiles(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := profile.Merge(r.Context(), s.store, req.Source, req.Target)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

type activityRequest struct {
	Feature string `json:"feature" validate:"required"`
	Minutes int    `json:"duration_minutes" validate:"gte=0,lte=1440"`
}

// handleGetActivity returns today's summary, the last week and streaks.
func (s *Server) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	now := s.now()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"today":  profile.Daily(p.ActivityHistory, now),
		"weekly": profile.Weekly(p.ActivityHistory, now),
		"streak": profile.Streaks(p.ActivityHistory, now),
	})
}

// handleLogActivity records a feature use and awards any achievements it unlocks.
func (s *Server) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(w, r, err)
		return
	}

	now := s.now()
	var (
		earned []profile.Achievement
		streak profile.Streak
	)
	p, err := profile.Update(r.Context(), s.store, r.PathValue("name"), func(p *profile.Profile) error {
		profile.LogActivity(p, req.Feature, req.Minutes, now)
		streak = profile.Streaks(p.ActivityHistory, now)
		earned = profile.CheckAchievements(p, profile.Counters{}, streak)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"streak":           streak,
		"new_achievements": achievementViews(earned),
		"total_xp":         p.Gamification.TotalXP,
		"level":            profile.XPLevel(p.Gamification.TotalXP),
	})
}

// Progress entry kinds accepted by POST /profiles/{name}/progress.
const (
	progressMilestone  = "milestone"
	progressInProgress = "in_progress"
	progressProject    = "project"
	progressSkill      = "skill"
	progressCompletion = "completion"
)

type progressRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=milestone in_progress project skill completion"`
	Title       string `json:"title"`
	Skill       string `json:"skill"`
	Level       int    `json:"level"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Tasks       int    `json:"tasks" validate:"gte=0"`
}

// handleLogProgress appends one entry to the profile's progress log.
func (s *Server) handleLogProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		s.fail(w, r, err)
		return
	}

	now := s.now()
	var earned []profile.Achievement
	p, err := profile.Update(r.Context(), s.store, r.PathValue("name"), func(p *profile.Profile) error {
		var err error
		switch req.Kind {
		case progressMilestone:
			err = profile.AddMilestone(p, req.Title, now)
		case progressInProgress:
			err = profile.AddInProgress(p, req.Skill, now)
		case progressProject:
			err = profile.AddProject(p, req.Name, req.Description, now)
		case progressSkill:
			err = profile.AddSkillImprovement(p, req.Skill, req.Level, now)
		case progressCompletion:
			profile.RecordCompletion(p, req.Completed, req.Tasks, now)
		}
		if err != nil {
			return err
		}
		earned = profile.CheckAchievements(p, profile.Counters{}, profile.Streaks(p.ActivityHistory, now))
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"progress":         p.ProgressData,
		"new_achievements": achievementViews(earned),
	})
}

// handleAdaptivePlan adapts a roadmap timeline to the profile's completion history.
func (s *Server) handleAdaptivePlan(w http.ResponseWriter, r *http.Request) {
	weeks, err := queryInt(r, "weeks", 12)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tasks, err := queryInt(r, "tasks", 3)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, ok := s.loadProfile(w, r)
	if !ok {
		return
	}
	var history []profile.Completion
	if p.ProgressData != nil {
		history = p.ProgressData.CompletionHistory
	}
	s.jsonResponse(w, http.StatusOK, profile.AdaptivePlan(weeks, tasks, history))
}

// handleStats returns per-profile stats, or one profile's with ?name=.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	if name := r.URL.Query().Get("name"); name != "" {
		p, err := s.store.Load(r.Context(), name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if p == nil {
			s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("profile %q not found", name))
			return
		}
		s.jsonResponse(w, http.StatusOK, profile.StatsFor(p, now))
		return
	}

	profiles, err := profile.LoadAll(r.Context(), s.store)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	stats := make([]profile.Stats, 0, len(profiles))
	byField := map[string]int{}
	for _, p := range profiles {
		stats = append(stats, profile.StatsFor(p, now))
		byField[p.CareerField]++
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"total_profiles":     len(profiles),
		"by_career_field":    byField,
		"interview_sessions": s.interviews.Len(),
		"profiles":           stats,
	})
}

type achievementView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

func achievementViews(as []profile.Achievement) []achievementView {
	out := make([]achievementView, 0, len(as))
	for _, a := range as {
		out = append(out, achievementView{ID: a.ID, Name: a.Name, Description: a.Description, Points: a.Points})
	}
	return out
}

// loadProfile loads the {name} path profile, writing a 404 when it does not exist.
func (s *Server) loadProfile(w http.ResponseWriter, r *http.Request) (*profile.Profile, bool) {
	name := r.PathValue("name")
	p, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	if p == nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("profile %q not found", name))
		return nil, false
	}
	return p, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return body, true
}

func (s *Server) attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.WithError(err).Error("error writing download")
	}
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, validation.New(key, "must be a positive integer")
	}
	return n, nil
}
