//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/interview"
	"github.com/jonathan/career-assistant/internal/profile"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	// Clean up test data before each test
	_, _ = db.pool.Exec(ctx, "DELETE FROM profiles WHERE name LIKE 'itest %'")
	_, _ = db.pool.Exec(ctx, "DELETE FROM interviews WHERE role LIKE 'itest %'")

	return db
}

func TestIntegration_ProfileStore_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()
	store := db.Profiles()

	p := &profile.Profile{
		Name:            "itest Jane",
		CareerField:     "Data Science",
		ExperienceLevel: profile.Intermediate,
		SkillAssessment: map[string]int{"Python": 7},
	}
	require.NoError(t, store.Save(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())

	got, err := store.Load(ctx, "itest Jane")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.SkillAssessment["Python"])

	missing, err := store.Load(ctx, "itest Nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := store.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, s := range list {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "itest Jane")

	deleted, err := store.Delete(ctx, "itest Jane")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, "itest Jane")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestIntegration_ProfileStore_Collision(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()
	store := db.Profiles()

	require.NoError(t, store.Save(ctx, &profile.Profile{Name: "itest José", CareerField: "x", ExperienceLevel: profile.Beginner}))
	err := store.Save(ctx, &profile.Profile{Name: "itest Jose", CareerField: "x", ExperienceLevel: profile.Beginner})
	assert.ErrorIs(t, err, profile.ErrNameCollision)

	got, err := store.Load(ctx, "itest Jose")
	require.NoError(t, err)
	assert.Nil(t, got, "a colliding name reads as absent")
}

func TestIntegration_Interviews(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	s := &interview.Session{
		ID:   uuid.New(),
		Role: "itest Backend Engineer",
		Entries: []interview.Entry{
			{Number: 1, Type: "Technical", Question: "q", Answer: "a", Feedback: "Score: 9/10", Score: 9},
		},
		Summary:   "Great.",
		CreatedAt: now.Add(-10 * time.Minute),
		UpdatedAt: now,
	}
	require.NoError(t, db.SaveInterview(ctx, s))
	require.NoError(t, db.SaveInterview(ctx, s), "saving twice overwrites")

	rec, err := db.GetInterview(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 9.0, rec.Average)
	assert.Equal(t, "Excellent", rec.Grade)
	require.Len(t, rec.Entries, 1)
	assert.Equal(t, "Score: 9/10", rec.Entries[0].Feedback)

	list, err := db.ListInterviews(ctx, "itest Backend Engineer", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Entries)

	none, err := db.GetInterview(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, none)
}
