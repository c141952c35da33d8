// Package session tracks the live games hosted by a server process.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jdalgaard/rondo/internal/game/turn"
)

// GameSession pairs a running game with its hosting metadata.
type GameSession struct {
	// ID is the unique session identifier handed to clients.
	ID string
	// PresetID names the board preset the game was created from, or
	// "custom" for ad-hoc setups.
	PresetID string
	// CreatedAt is the session creation time.
	CreatedAt time.Time
	// Game is the authoritative engine for this session.
	Game *turn.Game
}

// Manager tracks all active game sessions.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*GameSession
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*GameSession)}
}

// Create registers a new session for the given game and returns it.
//
// Precondition: g must be non-nil; presetID must be non-empty.
// Postcondition: The returned session has a fresh unique ID and is
// retrievable via Get.
func (m *Manager) Create(g *turn.Game, presetID string) *GameSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess := &GameSession{
		ID:        uuid.NewString(),
		PresetID:  presetID,
		CreatedAt: time.Now(),
		Game:      g,
	}
	m.sessions[sess.ID] = sess
	return sess
}

// Get returns the session for the given ID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*GameSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Remove deletes a session.
//
// Postcondition: The session is no longer retrievable. Returns an error
// if not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return fmt.Errorf("session %q not found", id)
	}
	delete(m.sessions, id)
	return nil
}

// All returns a snapshot of every active session.
//
// Postcondition: Returns a copy; mutating it does not affect the Manager.
func (m *Manager) All() []*GameSession {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*GameSession, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
