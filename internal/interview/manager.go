package interview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("interview session not found")

// Recorder persists finished sessions. Implementations must not retain s.
type Recorder interface {
	SaveInterview(ctx context.Context, s *Session) error
}

// managed guards one session. touched and busy are read by Sweep without taking mu,
// so sweeping never waits on a session that is generating.
type managed struct {
	mu      sync.Mutex
	session *Session

	touched atomic.Int64 // session.UpdatedAt in unix nanoseconds
	busy    atomic.Int32
}

func newManaged(s *Session) *managed {
	ms := &managed{session: s}
	ms.touched.Store(s.UpdatedAt.UnixNano())
	return ms
}

func (ms *managed) expired(now time.Time, ttl time.Duration) bool {
	return ms.busy.Load() == 0 && now.Sub(time.Unix(0, ms.touched.Load())) > ttl
}

// Manager owns the live sessions of a server process and serializes work on each one.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*managed

	eval     Evaluator
	recorder Recorder
	ttl      time.Duration
	log      logrus.FieldLogger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRecorder stores each session once its summary has been generated.
func WithRecorder(r Recorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

// WithTTL sets how long an idle session is kept. Zero keeps sessions forever.
func WithTTL(d time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = d }
}

// NewManager returns an empty Manager whose sessions use eval.
func NewManager(eval Evaluator, log logrus.FieldLogger, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[uuid.UUID]*managed),
		eval:     eval,
		log:      log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a new session and runs Setup on it.
func (m *Manager) Create(role string, types []string) (*Session, error) {
	s := NewSession(m.eval)
	if err := s.Setup(role, types); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID] = newManaged(s)
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"session_id": s.ID, "role": s.Role}).Debug("interview session created")
	return s, nil
}

// Do runs fn with exclusive access to the session. The session must not escape fn.
func (m *Manager) Do(ctx context.Context, id uuid.UUID, fn func(*Session) error) error {
	m.mu.RLock()
	ms, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	ms.busy.Add(1)
	defer ms.busy.Add(-1)
	ms.mu.Lock()
	defer ms.mu.Unlock()
	defer func() { ms.touched.Store(ms.session.UpdatedAt.UnixNano()) }()

	before := ms.session.State
	if err := fn(ms.session); err != nil {
		return err
	}
	after := ms.session.State
	if before != after {
		m.log.WithFields(logrus.Fields{
			"session_id": id,
			"from":       before.String(),
			"to":         after.String(),
		}).Debug("interview state changed")
	}
	if before != SummaryShown && after == SummaryShown && m.recorder != nil {
		if err := m.recorder.SaveInterview(ctx, ms.session); err != nil {
			m.log.WithError(err).WithField("session_id", id).Warn("failed to persist interview")
		}
	}
	return nil
}

// Snapshot returns a copy of the session suitable for serialization.
func (m *Manager) Snapshot(ctx context.Context, id uuid.UUID) (Session, error) {
	var out Session
	err := m.Do(ctx, id, func(s *Session) error {
		out = *s
		out.Entries = append([]Entry(nil), s.Entries...)
		out.QuestionTypes = append([]string(nil), s.QuestionTypes...)
		return nil
	})
	return out, err
}

// Delete forgets a session.
func (m *Manager) Delete(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the configured TTL and returns how many were removed.
// Sessions with work in progress are kept.
func (m *Manager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}

	m.mu.RLock()
	var stale []uuid.UUID
	for id, ms := range m.sessions {
		if ms.expired(now, m.ttl) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()
	if len(stale) == 0 {
		return 0
	}

	m.mu.Lock()
	removed := 0
	for _, id := range stale {
		// re-check: the session may have been used since it was collected
		if ms, ok := m.sessions[id]; ok && ms.expired(now, m.ttl) {
			delete(m.sessions, id)
			removed++
		}
	}
	m.mu.Unlock()
	if removed > 0 {
		m.log.WithField("removed", removed).Info("expired interview sessions")
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			m.Sweep(t)
		}
	}
}
