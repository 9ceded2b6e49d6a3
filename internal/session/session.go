// Package session holds the logged-in identity in process memory and
// mirrors it to persisted storage so a restart recovers the session.
package session

import (
	"log/slog"
	"sync"
)

// State is the persisted session payload.
type State struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Persistence is the key-value mechanism the store mirrors itself to.
// Load returns (nil, nil) when no prior session exists.
type Persistence interface {
	Save(State) error
	Load() (*State, error)
	Clear() error
}

// Store is the process-wide session holder. Initialized empty at
// launch, populated on login/register, rehydrated from persistence if
// a prior session exists, cleared on logout.
type Store struct {
	mu      sync.RWMutex
	state   *State
	persist Persistence
	log     *slog.Logger
}

// New builds a Store rehydrated from p. A failed load is logged and
// treated as a fresh start rather than surfaced — a corrupt session
// file should never block launch.
func New(p Persistence, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{persist: p, log: log}

	if p != nil {
		prior, err := p.Load()
		if err != nil {
			log.Warn("session rehydrate failed", "error", err)
		} else if prior != nil {
			s.state = prior
		}
	}
	return s
}

// Begin records a new logged-in identity and persists it. A failed
// save leaves the in-memory session intact; it is logged only.
func (s *Store) Begin(state State) {
	s.mu.Lock()
	s.state = &state
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Save(state); err != nil {
			s.log.Error("session save failed", "error", err)
		}
	}
}

// Current returns a snapshot of the session and whether one is active.
func (s *Store) Current() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return State{}, false
	}
	return *s.state, true
}

// Clear wipes both the in-memory session and the persisted copy.
func (s *Store) Clear() {
	s.mu.Lock()
	s.state = nil
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.Clear(); err != nil {
			s.log.Error("session clear failed", "error", err)
		}
	}
}
