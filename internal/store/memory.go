// internal/store/memory.go
//
// In-memory session store. Each session owns one round engine for one
// player; sessions never share state.
//
// Characteristics:
//   - Sessions keyed by a random UUID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Idle sessions are evicted by Sweep; evicted engines are closed so their
//     reveal timers stop.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/colorcascade/internal/game"
)

// ErrNotFound is returned for unknown or evicted session ids.
var ErrNotFound = errors.New("store: session not found")

// Session pairs an engine with bookkeeping the HTTP layer needs.
type Session struct {
	ID        string
	Engine    *game.Engine
	CreatedAt time.Time

	mu           sync.Mutex
	lastSeen     time.Time
	roundStarted time.Time
}

// MarkRoundStarted records when the current round was dealt.
func (s *Session) MarkRoundStarted(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roundStarted = t
}

// RoundElapsed returns the time since the current round was dealt.
func (s *Session) RoundElapsed(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roundStarted.IsZero() {
		return 0
	}
	return now.Sub(s.roundStarted)
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.lastSeen = t
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store defines the session registry used by the HTTP layer.
type Store interface {
	// Create registers a new session around engine.
	Create(ctx context.Context, engine *game.Engine) (*Session, error)

	// Get retrieves a session by id and marks it as recently used.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session and closes its engine.
	Delete(ctx context.Context, id string) error

	// Sweep evicts sessions idle since before cutoff and returns how many.
	Sweep(ctx context.Context, cutoff time.Time) int

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]*Session // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session), now: time.Now}
}

func (m *memory) Create(ctx context.Context, engine *game.Engine) (*Session, error) {
	if engine == nil {
		return nil, errors.New("store: nil engine")
	}
	now := m.now()
	s := &Session{ID: uuid.NewString(), Engine: engine, CreatedAt: now, lastSeen: now}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch(m.now())
	return s, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Engine.Close()
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	var evicted []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			evicted = append(evicted, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range evicted {
		s.Engine.Close()
	}
	return len(evicted)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
