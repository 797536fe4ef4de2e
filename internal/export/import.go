package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/schemas"
)

// ImportError reports which record of an import failed.
type ImportError struct {
	Record int
	Cause  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import record %d: %v", e.Record, e.Cause)
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// ImportJSON decodes a single profile document or a Bulk export.
// Every profile is checked against the profile schema before decoding.
func ImportJSON(data []byte) ([]*profile.Profile, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ImportError{Record: 1, Cause: fmt.Errorf("invalid JSON: %w", err)}
	}

	docs := []json.RawMessage{data}
	if raw, ok := probe["profiles"]; ok {
		if _, single := probe["name"]; !single {
			docs = nil
			if err := json.Unmarshal(raw, &docs); err != nil {
				return nil, &ImportError{Record: 1, Cause: fmt.Errorf("profiles must be an array: %w", err)}
			}
		}
	}

	out := make([]*profile.Profile, 0, len(docs))
	for i, doc := range docs {
		p, err := decodeProfile(doc)
		if err != nil {
			return nil, &ImportError{Record: i + 1, Cause: err}
		}
		out = append(out, p)
	}
	return out, nil
}

var stringColumns = map[string]bool{
	"name": true, "career_field": true, "experience_level": true,
	"goals": true, "created_at": true, "updated_at": true,
}

// ImportCSV decodes a header row followed by one profile per row, the inverse of CSV.
func ImportCSV(data []byte) ([]*profile.Profile, error) {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ImportError{Record: 1, Cause: errors.New("empty CSV")}
		}
		return nil, &ImportError{Record: 1, Cause: fmt.Errorf("invalid CSV: %w", err)}
	}

	var out []*profile.Profile
	for n := 1; ; n++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ImportError{Record: n, Cause: fmt.Errorf("invalid CSV: %w", err)}
		}

		doc := make(map[string]json.RawMessage, len(header))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if i >= len(row) || col == "" {
				continue
			}
			v, err := csvValue(col, row[i])
			if err != nil {
				return nil, &ImportError{Record: n, Cause: fmt.Errorf("column %s: %w", col, err)}
			}
			if v != nil {
				doc[col] = v
			}
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, &ImportError{Record: n, Cause: err}
		}
		p, err := decodeProfile(b)
		if err != nil {
			return nil, &ImportError{Record: n, Cause: err}
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, &ImportError{Record: 1, Cause: errors.New("CSV has no data rows")}
	}
	return out, nil
}

func csvValue(col, cell string) (json.RawMessage, error) {
	if stringColumns[col] {
		return json.Marshal(cell)
	}
	trimmed := strings.TrimSpace(cell)
	if knownColumn(col) {
		if trimmed == "" {
			return nil, nil
		}
		if !json.Valid([]byte(trimmed)) {
			return nil, errors.New("expected a JSON value")
		}
		return json.RawMessage(trimmed), nil
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(trimmed)) {
			return json.RawMessage(trimmed), nil
		}
	}
	return json.Marshal(cell)
}

func knownColumn(col string) bool {
	for _, c := range columnOrder {
		if c == col {
			return true
		}
	}
	return false
}

func decodeProfile(doc []byte) (*profile.Profile, error) {
	if err := schemas.ValidateProfile(doc); err != nil {
		return nil, err
	}
	var p profile.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
