package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/schemas"
)

func sample() *profile.Profile {
	p := &profile.Profile{
		Name:            "Jane Doe",
		CareerField:     "Data Science",
		ExperienceLevel: profile.Intermediate,
		Goals:           "Ship models, not notebooks",
		SkillAssessment: map[string]int{"Python": 7, "SQL": 5},
		RoadmapData:     json.RawMessage(`{"milestones":["SQL","Stats"]}`),
		CreatedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		Extra:           map[string]json.RawMessage{"interests": json.RawMessage(`["nlp"]`)},
	}
	profile.LogActivity(p, "Chat", 10, time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC))
	return p
}

func TestJSON_RoundTrip(t *testing.T) {
	p := sample()
	data, err := JSON(p)
	require.NoError(t, err)

	got, err := ImportJSON(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p, got[0])
}

func TestBulkJSON(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a, b := sample(), sample()
	b.Name = "John Roe"

	data, err := BulkJSON([]*profile.Profile{a, b}, now)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2026-03-01T00:00:00Z", doc["export_date"])
	assert.EqualValues(t, 2, doc["total_profiles"])

	got, err := ImportJSON(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "John Roe", got[1].Name)

	empty, err := BulkJSON(nil, now)
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"profiles": []`)
}

func TestImportJSON_Invalid(t *testing.T) {
	_, err := ImportJSON([]byte(`{"name":"x"}`))
	var ie *ImportError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 1, ie.Record)
	var ve *schemas.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = ImportJSON([]byte(`not json`))
	assert.ErrorAs(t, err, &ie)

	bulk := `{"profiles":[{"name":"a","career_field":"b","experience_level":"Expert"},{"name":"c"}]}`
	_, err = ImportJSON([]byte(bulk))
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 2, ie.Record)
}

func TestCSV_RoundTrip(t *testing.T) {
	p := sample()
	data, err := CSV(p)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "name,career_field,experience_level,goals,skill_assessment"))
	assert.True(t, strings.HasSuffix(lines[0], ",interests"))

	got, err := ImportCSV(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p, got[0])
}

func TestImportCSV_Errors(t *testing.T) {
	_, err := ImportCSV(nil)
	assert.Error(t, err)

	_, err = ImportCSV([]byte("name,career_field,experience_level\n"))
	assert.ErrorContains(t, err, "no data rows")

	_, err = ImportCSV([]byte("name,career_field,experience_level,skill_assessment\nA,B,Expert,{oops\n"))
	assert.ErrorContains(t, err, "skill_assessment")
}

func TestMarkdown(t *testing.T) {
	md, err := Markdown(sample())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Jane Doe\n"))
	assert.Contains(t, md, "- **Field**: Data Science")
	assert.Contains(t, md, "- **Goals**: Ship models, not notebooks")
	assert.Contains(t, md, "### Skill Assessment\n```json")
	assert.Contains(t, md, "### Activity History")
	assert.Contains(t, md, "### Interests")

	empty, err := Markdown(&profile.Profile{})
	require.NoError(t, err)
	assert.Contains(t, empty, "# Career Profile")
	assert.Contains(t, empty, "- **Created**: N/A")
}

func TestMarkdown_UnencodableProfile(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *profile.Profile)
	}{
		{name: "roadmap data", mutate: func(p *profile.Profile) { p.RoadmapData = json.RawMessage(`{"milestones":`) }},
		{name: "extra field", mutate: func(p *profile.Profile) { p.Extra["interests"] = json.RawMessage(`[nlp`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sample()
			tt.mutate(p)

			md, err := Markdown(p)
			assert.Error(t, err)
			assert.Empty(t, md)

			_, err = Render(p, FormatMarkdown)
			assert.Error(t, err)
		})
	}
}

func TestHTML_Escapes(t *testing.T) {
	p := sample()
	p.Name = "<script>alert(1)</script>"
	out, err := HTML(p)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>alert")
	assert.Contains(t, string(out), "&lt;script&gt;")
}

func TestRender(t *testing.T) {
	for _, f := range Formats {
		out, err := Render(sample(), f)
		require.NoError(t, err, f)
		assert.NotEmpty(t, out)
		_, _, ok := ContentType(f)
		assert.True(t, ok)
	}
	_, err := Render(sample(), "xml")
	var ufe *UnsupportedFormatError
	assert.ErrorAs(t, err, &ufe)
}

func TestBackupRecover(t *testing.T) {
	a, b := sample(), sample()
	b.Name = "John Roe"
	b.ActivityHistory = nil
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	meta, err := Backup(&buf, []*profile.Profile{a, b}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.TotalProfiles)
	assert.Equal(t, 1, meta.TotalProgressLogs)

	gotMeta, got, err := Recover(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, *meta, *gotMeta)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"Jane Doe", "John Roe"}, []string{got[0].Name, got[1].Name})
}

func TestRecover_NotBackup(t *testing.T) {
	data, err := Bundle([]*profile.Profile{sample()})
	require.NoError(t, err)
	_, _, err = Recover(bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrNotBackup)

	_, _, err = Recover(bytes.NewReader([]byte("nope")), 4)
	assert.Error(t, err)
}
