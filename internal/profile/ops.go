package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by operations that require an existing profile.
var ErrNotFound = errors.New("profile not found")

// Create saves a new profile after validating it. An existing profile of the same name is replaced.
func Create(ctx context.Context, store Store, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.CreatedAt = time.Time{}
	return store.Save(ctx, p)
}

// Update loads the named profile, applies fn and saves the result.
func Update(ctx context.Context, store Store, name string, fn func(*Profile) error) (*Profile, error) {
	p, err := store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.Name = name
	if err := store.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Merge copies source's fields into target wherever target has none, then saves target.
// Target values always win.
func Merge(ctx context.Context, store Store, sourceName, targetName string) (*Profile, error) {
	source, err := store.Load(ctx, sourceName)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sourceName)
	}
	return Update(ctx, store, targetName, func(target *Profile) error {
		return mergeInto(target, source)
	})
}

func mergeInto(target, source *Profile) error {
	src, err := toMap(source)
	if err != nil {
		return err
	}
	dst, err := toMap(target)
	if err != nil {
		return err
	}
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	b, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	createdAt := target.CreatedAt
	*target = Profile{}
	if err := json.Unmarshal(b, target); err != nil {
		return err
	}
	target.CreatedAt = createdAt
	return nil
}

func toMap(p *Profile) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	return m, json.Unmarshal(b, &m)
}

// Stats is a short overview of what a profile contains.
type Stats struct {
	Name            string    `json:"name"`
	CareerField     string    `json:"career_field"`
	ExperienceLevel string    `json:"experience_level"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	HasRoadmap      bool      `json:"has_roadmap"`
	HasSkills       bool      `json:"has_skills"`
	HasProgress     bool      `json:"has_progress"`
	Activities      int       `json:"total_activities"`
	Streak          Streak    `json:"streak"`
	TotalXP         int       `json:"total_xp"`
}

// StatsFor summarizes p as of now.
func StatsFor(p *Profile, now time.Time) Stats {
	s := Stats{
		Name:            p.Name,
		CareerField:     p.CareerField,
		ExperienceLevel: p.ExperienceLevel,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		HasRoadmap:      len(p.RoadmapData) > 0,
		HasSkills:       len(p.SkillAssessment) > 0,
		HasProgress:     p.ProgressData != nil,
		Activities:      len(p.ActivityHistory),
		Streak:          Streaks(p.ActivityHistory, now),
	}
	if p.Gamification != nil {
		s.TotalXP = p.Gamification.TotalXP
	}
	return s
}

// LoadAllConcurrency bounds the parallel reads made by LoadAll.
const LoadAllConcurrency = 8

// LoadAll loads every listed profile concurrently, preserving List order.
// Profiles deleted between List and Load are omitted.
func LoadAll(ctx context.Context, store Store) ([]*Profile, error) {
	list, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	loaded := make([]*Profile, len(list))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(LoadAllConcurrency)
	for i, s := range list {
		g.Go(func() error {
			p, err := store.Load(gCtx, s.Name)
			if err != nil {
				return fmt.Errorf("load %s: %w", s.Name, err)
			}
			loaded[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := loaded[:0]
	for _, p := range loaded {
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// SaveAll stores profiles, skipping names that already exist unless overwrite is set.
// Overwritten profiles keep their original CreatedAt.
func SaveAll(ctx context.Context, store Store, profiles []*Profile, overwrite bool) (saved, skipped []string, err error) {
	saved, skipped = []string{}, []string{}
	for _, p := range profiles {
		existing, err := store.Load(ctx, p.Name)
		if err != nil {
			return saved, skipped, err
		}
		if existing != nil && !overwrite {
			skipped = append(skipped, p.Name)
			continue
		}
		if existing != nil {
			p.CreatedAt = existing.CreatedAt
		}
		if err := store.Save(ctx, p); err != nil {
			return saved, skipped, fmt.Errorf("failed to save %s: %w", p.Name, err)
		}
		saved = append(saved, p.Name)
	}
	return saved, skipped, nil
}
