// Package export converts profiles to and from portable formats and builds
// zip bundles and backups.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/career-assistant/internal/profile"
)

// Supported formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Formats lists every supported single-profile format.
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatHTML}

// ContentType returns the MIME type and file extension for format.
func ContentType(format string) (mime, ext string, ok bool) {
	switch format {
	case FormatJSON:
		return "application/json", ".json", true
	case FormatCSV:
		return "text/csv", ".csv", true
	case FormatMarkdown:
		return "text/markdown; charset=utf-8", ".md", true
	case FormatHTML:
		return "text/html; charset=utf-8", ".html", true
	}
	return "", "", false
}

// UnsupportedFormatError is returned for an unknown format name.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q (want one of %s)", e.Format, strings.Join(Formats, ", "))
}

// Render encodes p in format.
func Render(p *profile.Profile, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(p)
	case FormatCSV:
		return CSV(p)
	case FormatMarkdown:
		md, err := Markdown(p)
		return []byte(md), err
	case FormatHTML:
		return HTML(p)
	}
	return nil, &UnsupportedFormatError{Format: format}
}

// JSON encodes one profile as indented JSON.
func JSON(p *profile.Profile) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Bulk is the multi-profile JSON export document.
type Bulk struct {
	ExportDate    time.Time          `json:"export_date"`
	TotalProfiles int                `json:"total_profiles"`
	Profiles      []*profile.Profile `json:"profiles"`
}

// BulkJSON wraps profiles in a Bulk document.
func BulkJSON(profiles []*profile.Profile, now time.Time) ([]byte, error) {
	if profiles == nil {
		profiles = []*profile.Profile{}
	}
	return json.MarshalIndent(Bulk{
		ExportDate:    now,
		TotalProfiles: len(profiles),
		Profiles:      profiles,
	}, "", "  ")
}

// columnOrder fixes the position of the known profile fields in CSV output.
var columnOrder = []string{
	"name", "career_field", "experience_level", "goals", "skill_assessment",
	"progress_data", "roadmap_data", "activity_history", "gamification",
	"created_at", "updated_at",
}

// CSV writes a header row and one data row. Strings are written as-is;
// every other value is written as compact JSON.
func CSV(p *profile.Profile) ([]byte, error) {
	fields, err := flatten(p)
	if err != nil {
		return nil, err
	}
	header := orderedKeys(fields)
	row := make([]string, len(header))
	for i, k := range header {
		row[i] = fields[k]
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func flatten(p *profile.Profile) (map[string]string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if (stringColumns[k] || !knownColumn(k)) && json.Unmarshal(v, &s) == nil {
			out[k] = s
		} else {
			out[k] = string(v)
		}
	}
	return out, nil
}

func orderedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	known := map[string]bool{}
	for _, k := range columnOrder {
		known[k] = true
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range fields {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

var titler = cases.Title(language.English)

func title(key string) string {
	return titler.String(strings.ReplaceAll(key, "_", " "))
}

var headerKeys = map[string]bool{
	"name": true, "career_field": true, "experience_level": true, "created_at": true, "updated_at": true,
}

// Markdown renders p as a readable document. Structured fields are shown as JSON blocks.
func Markdown(p *profile.Profile) (string, error) {
	var sb strings.Builder
	name := p.Name
	if name == "" {
		name = "Career Profile"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	sb.WriteString("## Career Information\n")
	fmt.Fprintf(&sb, "- **Field**: %s\n", orNA(p.CareerField))
	fmt.Fprintf(&sb, "- **Experience Level**: %s\n", orNA(p.ExperienceLevel))
	fmt.Fprintf(&sb, "- **Created**: %s\n", formatTime(p.CreatedAt))
	fmt.Fprintf(&sb, "- **Updated**: %s\n", formatTime(p.UpdatedAt))
	sb.WriteString("\n## Profile Data\n")

	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return "", fmt.Errorf("failed to decode profile fields: %w", err)
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		if !headerKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := raw[k]
		var s string
		switch {
		case json.Unmarshal(v, &s) == nil:
			fmt.Fprintf(&sb, "- **%s**: %s\n", title(k), s)
		case len(v) > 0 && (v[0] == '{' || v[0] == '['):
			var pretty bytes.Buffer
			_ = json.Indent(&pretty, v, "", "  ")
			fmt.Fprintf(&sb, "\n### %s\n```json\n%s\n```\n", title(k), pretty.String())
		default:
			fmt.Fprintf(&sb, "- **%s**: %s\n", title(k), string(v))
		}
	}
	return sb.String(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}
