// game/manager.go
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/ludo/timer"
)

const (
	codeCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength  = 6
)

// Manager holds every live game keyed by its 6-character code.
type Manager struct {
	games       map[string]*Game
	mutex       sync.RWMutex
	timers      *timer.Manager
	turnTimeout time.Duration
	broadcaster Broadcaster
	recorder    Recorder
}

func NewManager(timers *timer.Manager, turnTimeout time.Duration) *Manager {
	return &Manager{
		games:       make(map[string]*Game),
		timers:      timers,
		turnTimeout: turnTimeout,
	}
}

// SetBroadcaster wires the outbound side. The broadcaster needs the manager
// to resolve game sessions, so it cannot be a constructor argument.
func (m *Manager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// SetRecorder wires match-history persistence. Optional.
func (m *Manager) SetRecorder(r Recorder) {
	m.recorder = r
}

// CreateGame registers a new waiting game under a fresh code. Codes are
// short, so collisions are possible; generation retries until unused.
func (m *Manager) CreateGame() *Game {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	code := generateCode()
	for _, exists := m.games[code]; exists; _, exists = m.games[code] {
		code = generateCode()
	}

	game := newGame(code, m)
	m.games[code] = game
	return game
}

// Get looks up a live game.
func (m *Manager) Get(id string) (*Game, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	game, exists := m.games[id]
	return game, exists
}

// Count returns the number of live games.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.games)
}

// FindBySession scans every game's connection map for a session id. Only the
// disconnect path uses it, so a linear scan is fine.
func (m *Manager) FindBySession(sessionID string) (*Game, string, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, game := range m.games {
		if playerID, ok := game.ParticipantBySession(sessionID); ok {
			return game, playerID, true
		}
	}
	return nil, "", false
}

// detach drops a finished game from the registry. The game cancels its own
// timer before detaching, so a later timer fire finds nothing to do.
func (m *Manager) detach(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.games, id)
}

func generateCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeCharset[rand.Intn(len(codeCharset))]
	}
	return string(b)
}
