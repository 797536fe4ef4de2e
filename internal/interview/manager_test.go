package interview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/logger"
	"github.com/jonathan/career-assistant/internal/validation"
)

type recordingStore struct {
	mu    sync.Mutex
	saved []uuid.UUID
}

func (r *recordingStore) SaveInterview(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, s.ID)
	return nil
}

func TestManager_Lifecycle(t *testing.T) {
	store := &recordingStore{}
	m := NewManager(&fakeEvaluator{}, logger.Discard(), WithRecorder(store))
	ctx := context.Background()

	s, err := m.Create("SRE", DefaultQuestionTypes)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	for i := 0; i < MaxQuestions; i++ {
		require.NoError(t, m.Do(ctx, s.ID, func(s *Session) error {
			if _, err := s.NextQuestion(ctx); err != nil {
				return err
			}
			_, err := s.Submit(ctx, "answer")
			return err
		}))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, m.Do(ctx, s.ID, func(s *Session) error {
			_, err := s.ViewSummary(ctx)
			return err
		}))
	}
	assert.Equal(t, []uuid.UUID{s.ID}, store.saved, "saved exactly once")

	snap, err := m.Snapshot(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, SummaryShown, snap.State)
	assert.Len(t, snap.Entries, MaxQuestions)

	assert.True(t, m.Delete(s.ID))
	assert.False(t, m.Delete(s.ID))
	assert.ErrorIs(t, m.Do(ctx, s.ID, func(*Session) error { return nil }), ErrNotFound)
}

func TestManager_CreateValidates(t *testing.T) {
	m := NewManager(&fakeEvaluator{}, logger.Discard())
	_, err := m.Create("", DefaultQuestionTypes)
	assert.Error(t, err)
	_, err = m.Create("SRE", nil)
	assert.True(t, validation.IsValidation(err))
	assert.Equal(t, 0, m.Len())
}

func TestManager_Sweep(t *testing.T) {
	m := NewManager(&fakeEvaluator{}, logger.Discard(), WithTTL(time.Minute))
	s, err := m.Create("SRE", DefaultQuestionTypes)
	require.NoError(t, err)

	assert.Equal(t, 0, m.Sweep(s.UpdatedAt.Add(30*time.Second)))
	assert.Equal(t, 1, m.Sweep(s.UpdatedAt.Add(2*time.Minute)))
	assert.Equal(t, 0, m.Len())
}

func TestManager_SweepDoesNotWaitOnBusySession(t *testing.T) {
	m := NewManager(&fakeEvaluator{}, logger.Discard(), WithTTL(time.Minute))
	ctx := context.Background()
	busy, err := m.Create("SRE", DefaultQuestionTypes)
	require.NoError(t, err)
	idle, err := m.Create("Backend Engineer", DefaultQuestionTypes)
	require.NoError(t, err)

	entered, release := make(chan struct{}), make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- m.Do(ctx, busy.ID, func(*Session) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	swept := make(chan int, 1)
	go func() { swept <- m.Sweep(idle.UpdatedAt.Add(time.Hour)) }()
	select {
	case n := <-swept:
		assert.Equal(t, 1, n, "only the idle session expires")
	case <-time.After(time.Second):
		t.Fatal("sweep blocked on a session with work in progress")
	}

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, m.Len())
	assert.ErrorIs(t, m.Do(ctx, idle.ID, func(*Session) error { return nil }), ErrNotFound)
	assert.NoError(t, m.Do(ctx, busy.ID, func(*Session) error { return nil }))
}

func TestManager_DoRefreshesIdleTime(t *testing.T) {
	m := NewManager(&fakeEvaluator{}, logger.Discard(), WithTTL(time.Minute))
	ctx := context.Background()
	s, err := m.Create("SRE", DefaultQuestionTypes)
	require.NoError(t, err)

	later := s.UpdatedAt.Add(10 * time.Minute)
	require.NoError(t, m.Do(ctx, s.ID, func(s *Session) error {
		s.now = func() time.Time { return later }
		_, err := s.NextQuestion(ctx)
		return err
	}))

	assert.Equal(t, 0, m.Sweep(later.Add(30*time.Second)))
	assert.Equal(t, 1, m.Sweep(later.Add(2*time.Minute)))
}
