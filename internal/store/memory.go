// internal/store/memory.go
//
// In-memory session store: game ID → live engine plus its owning player.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Engines are held by pointer; the engine guards its own state.
//   - State is lost when the process restarts (game state is never persisted).
//   - Sessions live for a fixed TTL from creation; Sweep evicts expired ones.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stevethucpham/worldle/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Mode selects how targets are chosen.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeDaily  Mode = "daily"
)

// Session is one player's game.
type Session struct {
	ID        string
	PlayerID  string
	Mode      Mode
	Date      string // daily mode: the UTC day (YYYY-MM-DD) the target belongs to
	Engine    *game.Engine
	CreatedAt time.Time

	unsubscribe func()
}

// NewSession wraps e in a session with a fresh ID.
func NewSession(playerID string, mode Mode, e *game.Engine) *Session {
	return &Session{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		Mode:      mode,
		Engine:    e,
		CreatedAt: time.Now().UTC(),
	}
}

// OnEvent subscribes fn to the session's engine. The subscription is dropped
// when the session is deleted from a Store.
func (s *Session) OnEvent(fn func(*Session, game.Event)) {
	prev := s.unsubscribe
	unsub := s.Engine.Subscribe(func(ev game.Event) { fn(s, ev) })
	s.unsubscribe = func() {
		if prev != nil {
			prev()
		}
		unsub()
	}
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session; unknown IDs are not an error.
	Delete(ctx context.Context, id string) error

	// DeleteOlderThan removes sessions created before cutoff and returns how many went.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) int

	// Len returns the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok && s.unsubscribe != nil {
		s.unsubscribe()
	}
	return nil
}

func (m *memory) DeleteOlderThan(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	}
	return len(expired)
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
