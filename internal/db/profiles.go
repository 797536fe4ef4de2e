package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-assistant/internal/profile"
	"github.com/jonathan/career-assistant/internal/validation"
)

// ProfileStore implements profile.Store on the profiles table. Rows are keyed by
// profile.Slug so names that collide on disk also collide here.
type ProfileStore struct {
	db  *DB
	now func() time.Time
}

var _ profile.Store = (*ProfileStore)(nil)

// Profiles returns the profile store backed by db.
func (db *DB) Profiles() *ProfileStore {
	return &ProfileStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Load retrieves a profile by name
func (s *ProfileStore) Load(ctx context.Context, name string) (*profile.Profile, error) {
	var (
		stored string
		doc    []byte
	)
	err := s.db.pool.QueryRow(ctx,
		`SELECT name, document FROM profiles WHERE slug = $1`,
		profile.Slug(name),
	).Scan(&stored, &doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if stored != strings.TrimSpace(name) {
		return nil, nil
	}

	var p profile.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", stored, err)
	}
	return &p, nil
}

// Save upserts p, stamping UpdatedAt and, on first save, CreatedAt.
func (s *ProfileStore) Save(ctx context.Context, p *profile.Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := validation.Required("name", p.Name); err != nil {
		return err
	}
	slug := profile.Slug(p.Name)

	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing string
	err = tx.QueryRow(ctx, `SELECT name FROM profiles WHERE slug = $1 FOR UPDATE`, slug).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return fmt.Errorf("failed to check profile: %w", err)
	case existing != p.Name:
		return fmt.Errorf("%w: %q and %q", profile.ErrNameCollision, p.Name, existing)
	}

	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (slug, name, career_field, experience_level, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (slug) DO UPDATE SET
		   career_field = EXCLUDED.career_field,
		   experience_level = EXCLUDED.experience_level,
		   document = EXCLUDED.document,
		   created_at = EXCLUDED.created_at,
		   updated_at = EXCLUDED.updated_at`,
		slug, p.Name, p.CareerField, p.ExperienceLevel, doc, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return tx.Commit(ctx)
}

// List returns every profile, most recently updated first
func (s *ProfileStore) List(ctx context.Context) ([]profile.Summary, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT name, career_field, experience_level, updated_at
		 FROM profiles ORDER BY updated_at DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	out := []profile.Summary{}
	for rows.Next() {
		var sum profile.Summary
		if err := rows.Scan(&sum.Name, &sum.CareerField, &sum.ExperienceLevel, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the named profile and reports whether it existed
func (s *ProfileStore) Delete(ctx context.Context, name string) (bool, error) {
	tag, err := s.db.pool.Exec(ctx,
		`DELETE FROM profiles WHERE slug = $1 AND name = $2`,
		profile.Slug(name), strings.TrimSpace(name),
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete profile: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
