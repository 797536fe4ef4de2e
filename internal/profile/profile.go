// Package profile holds the career profile model, its flat-file store and the
// derived views over a profile: activity history, progress and achievements.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/career-assistant/internal/validation"
)

// Experience levels.
const (
	Beginner     = "Beginner"
	Intermediate = "Intermediate"
	Advanced     = "Advanced"
	Expert       = "Expert"
)

// ExperienceLevels lists the accepted experience levels in ascending order.
var ExperienceLevels = []string{Beginner, Intermediate, Advanced, Expert}

// Profile is one user's career profile. Keys the model does not know about are
// kept in Extra and written back unchanged.
type Profile struct {
	Name            string          `json:"name" validate:"required"`
	CareerField     string          `json:"career_field" validate:"required"`
	ExperienceLevel string          `json:"experience_level" validate:"required,oneof=Beginner Intermediate Advanced Expert"`
	Goals           string          `json:"goals,omitempty"`
	SkillAssessment map[string]int  `json:"skill_assessment,omitempty" validate:"dive,gte=0,lte=10"`
	ProgressData    *Progress       `json:"progress_data,omitempty"`
	RoadmapData     json.RawMessage `json:"roadmap_data,omitempty"`
	ActivityHistory []Activity      `json:"activity_history,omitempty"`
	Gamification    *Gamification   `json:"gamification,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Summary is the listing view of a profile.
type Summary struct {
	Name            string    `json:"name"`
	CareerField     string    `json:"career_field"`
	ExperienceLevel string    `json:"experience_level"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Summary returns the listing view of p.
func (p *Profile) Summary() Summary {
	return Summary{
		Name:            p.Name,
		CareerField:     p.CareerField,
		ExperienceLevel: p.ExperienceLevel,
		UpdatedAt:       p.UpdatedAt,
	}
}

// Validate checks the fields every stored profile must carry.
func (p *Profile) Validate() error {
	return validation.Struct(p)
}

type profileAlias Profile

var knownKeys = map[string]struct{}{
	"name": {}, "career_field": {}, "experience_level": {}, "goals": {},
	"skill_assessment": {}, "progress_data": {}, "roadmap_data": {},
	"activity_history": {}, "gamification": {}, "created_at": {}, "updated_at": {},
}

// MarshalJSON writes the known fields followed by Extra.
func (p Profile) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(profileAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return b, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, known := knownKeys[k]; !known {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON accepts RFC 3339 timestamps as well as the zone-less
// ISO timestamps written by older exports.
func (p *Profile) UnmarshalJSON(b []byte) error {
	aux := struct {
		*profileAlias
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}{profileAlias: (*profileAlias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	var err error
	if p.CreatedAt, err = parseTime(aux.CreatedAt); err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(aux.UpdatedAt); err != nil {
		return fmt.Errorf("updated_at: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.RoadmapData = compact(p.RoadmapData)
	p.Extra = nil
	for k, v := range raw {
		if _, known := knownKeys[k]; known {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = compact(v)
	}
	return nil
}

// compact strips insignificant whitespace so raw values compare equal after a round trip.
func compact(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
