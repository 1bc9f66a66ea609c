// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/ludo/network"
)

// Session binds one websocket connection to at most one participant of one
// game. The game holds sessions only for delivery; connection lifecycle stays
// with the server read loop.
type Session struct {
	ID         string
	Conn       network.Connection
	PlayerID   string
	GameID     string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(data []byte) error {
	s.mutex.Lock()
	s.LastActive = time.Now()
	s.mutex.Unlock()
	return s.Conn.Send(data)
}

func (s *Session) GetID() string {
	return s.ID
}

// Bind records which participant of which game this connection speaks for.
func (s *Session) Bind(gameID, playerID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.GameID = gameID
	s.PlayerID = playerID
}

func (s *Session) Bound() (gameID, playerID string) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.GameID, s.PlayerID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks every live connection-level session.
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
