package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-assistant/internal/interview"
)

// InterviewRecord is a finished mock interview as stored in the interviews table.
type InterviewRecord struct {
	ID          uuid.UUID         `json:"id"`
	Role        string            `json:"role"`
	Total       int               `json:"total"`
	Answered    int               `json:"answered"`
	Skipped     int               `json:"skipped"`
	Average     float64           `json:"average"`
	Grade       string            `json:"grade"`
	Entries     []interview.Entry `json:"entries,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt time.Time         `json:"completed_at"`
}

// NewInterviewRecord captures the outcome of s.
func NewInterviewRecord(s *interview.Session) InterviewRecord {
	stats := s.Stats()
	return InterviewRecord{
		ID:          s.ID,
		Role:        s.Role,
		Total:       stats.Total,
		Answered:    stats.Answered,
		Skipped:     stats.Skipped,
		Average:     stats.Average,
		Grade:       stats.Grade,
		Entries:     append([]interview.Entry(nil), s.Entries...),
		Summary:     s.Summary,
		StartedAt:   s.CreatedAt,
		CompletedAt: s.UpdatedAt,
	}
}

// SaveInterview records a finished session. Saving the same session twice overwrites it.
func (db *DB) SaveInterview(ctx context.Context, s *interview.Session) error {
	rec := NewInterviewRecord(s)
	entries, err := json.Marshal(rec.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal interview entries: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO interviews (id, role, total, answered, skipped, average, grade, entries, summary, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		   total = EXCLUDED.total, answered = EXCLUDED.answered, skipped = EXCLUDED.skipped,
		   average = EXCLUDED.average, grade = EXCLUDED.grade, entries = EXCLUDED.entries,
		   summary = EXCLUDED.summary, completed_at = EXCLUDED.completed_at`,
		rec.ID, rec.Role, rec.Total, rec.Answered, rec.Skipped, rec.Average, rec.Grade,
		entries, rec.Summary, rec.StartedAt, rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save interview %s: %w", rec.ID, err)
	}
	return nil
}

// GetInterview retrieves a finished interview by ID
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*InterviewRecord, error) {
	var (
		rec     InterviewRecord
		entries []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, role, total, answered, skipped, average, grade, entries, summary, started_at, completed_at
		 FROM interviews WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Role, &rec.Total, &rec.Answered, &rec.Skipped, &rec.Average, &rec.Grade,
		&entries, &rec.Summary, &rec.StartedAt, &rec.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if err := json.Unmarshal(entries, &rec.Entries); err != nil {
		return nil, fmt.Errorf("failed to decode interview entries: %w", err)
	}
	return &rec, nil
}

// ListInterviews retrieves recent interviews, newest first. An empty role lists all roles.
// Entries are not loaded.
func (db *DB) ListInterviews(ctx context.Context, role string, limit int) ([]InterviewRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, role, total, answered, skipped, average, grade, summary, started_at, completed_at
		 FROM interviews
		 WHERE $1 = '' OR role = $1
		 ORDER BY completed_at DESC LIMIT $2`,
		role, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var out []InterviewRecord
	for rows.Next() {
		var rec InterviewRecord
		if err := rows.Scan(&rec.ID, &rec.Role, &rec.Total, &rec.Answered, &rec.Skipped, &rec.Average,
			&rec.Grade, &rec.Summary, &rec.StartedAt, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
