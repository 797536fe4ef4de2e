package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/validation"
)

func sampleProfile() *Profile {
	return &Profile{
		Name:            "Jane Doe",
		CareerField:     "Data Science",
		ExperienceLevel: Intermediate,
		Goals:           "Land an ML role",
		SkillAssessment: map[string]int{"Python": 7, "SQL": 5},
		RoadmapData:     json.RawMessage(`"## Month 1"`),
		CreatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func TestProfileJSON_PreservesUnknownKeys(t *testing.T) {
	in := `{"name":"Jane","career_field":"DevOps","experience_level":"Beginner",
		"interests":["cloud","linux"],"language":"en","created_at":"2025-05-01T10:00:00.123456"}`

	var p Profile
	require.NoError(t, json.Unmarshal([]byte(in), &p))
	assert.Equal(t, "Jane", p.Name)
	assert.Equal(t, time.Date(2025, 5, 1, 10, 0, 0, 123456000, time.UTC), p.CreatedAt)
	require.Contains(t, p.Extra, "interests")
	assert.JSONEq(t, `["cloud","linux"]`, string(p.Extra["interests"]))

	out, err := json.Marshal(p)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "en", m["language"])
	assert.Equal(t, "DevOps", m["career_field"])
}

func TestProfileJSON_RoundTrip(t *testing.T) {
	p := sampleProfile()
	p.Extra = map[string]json.RawMessage{"interests": json.RawMessage(`["ml"]`)}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	var back Profile
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, *p, back)
}

func TestProfileJSON_BadTimestamp(t *testing.T) {
	var p Profile
	err := json.Unmarshal([]byte(`{"name":"x","created_at":"yesterday"}`), &p)
	assert.ErrorContains(t, err, "created_at")
}

func TestValidate(t *testing.T) {
	p := sampleProfile()
	assert.NoError(t, p.Validate())

	p.ExperienceLevel = "Wizard"
	assert.True(t, validation.IsValidation(p.Validate()))

	p = sampleProfile()
	p.CareerField = ""
	assert.True(t, validation.IsValidation(p.Validate()))

	p = sampleProfile()
	p.SkillAssessment["Go"] = 11
	assert.True(t, validation.IsValidation(p.Validate()))
}

