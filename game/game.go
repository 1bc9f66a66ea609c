// game/game.go
package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/wfunc/ludo/logger"
	"github.com/wfunc/ludo/models"
	"github.com/wfunc/ludo/network"
	"github.com/wfunc/ludo/session"
	"github.com/wfunc/ludo/state"
	"github.com/wfunc/ludo/timer"
)

// Roles returned by Join.
const (
	RolePlayer    = "player"
	RoleSpectator = "spectator"
)

// Game is one live match. All mutations go through the public entry points
// (Join, Leave, HandleCommand, timer callbacks), which serialize on mu; the
// session map has its own lock so the broadcaster can deliver without
// touching the command lock.
type Game struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	players    []*models.Player
	spectators []string
	turn       int
	diceRoll   int
	diceUsed   bool
	startedAt   time.Time
	winner      string
	winnerColor models.Color
	machine    state.StateMachine
	timerID    int64
	timerGen   int64

	sessMu   sync.RWMutex
	sessions map[string]*session.Session // participantID -> session

	manager     *Manager
	timers      *timer.Manager
	turnTimeout time.Duration
	dice        func() int // returns 1..6, replaceable in tests
}

func newGame(id string, m *Manager) *Game {
	g := &Game{
		ID:          id,
		CreatedAt:   time.Now(),
		diceRoll:    -1,
		sessions:    make(map[string]*session.Session),
		manager:     m,
		timers:      m.timers,
		turnTimeout: m.turnTimeout,
		dice:        func() int { return rand.Intn(6) + 1 },
	}

	waiting := state.NewWaitingState(g)
	playing := state.NewPlayingState(g)
	g.machine = state.NewBaseStateMachine(waiting)
	g.machine.AddTransition(waiting, playing, func() bool {
		return len(g.players) >= 2
	})

	return g
}

// --- public entry points, serialized on g.mu ---

// Join attaches a participant. The first 4 become players with the next
// unused color and 4 home tokens each; everyone after that spectates. The
// game starts when the second player joins.
func (g *Game) Join(playerID string, sess *session.Session) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasSession(playerID) {
		return "", ErrAlreadyJoined
	}

	role := RoleSpectator
	if len(g.players) < MaxPlayers {
		g.players = append(g.players, newPlayer(playerID, g.nextColor()))
		role = RolePlayer
	} else {
		g.spectators = append(g.spectators, playerID)
	}

	g.sessMu.Lock()
	g.sessions[playerID] = sess
	g.sessMu.Unlock()
	sess.Bind(g.ID, playerID)

	if role == RolePlayer && len(g.players) == 2 {
		if err := g.machine.ChangeState(state.NewPlayingState(g)); err != nil {
			logger.Log.Errorf("Game %s failed to start: %v", g.ID, err)
		}
	}

	g.broadcastState()
	return role, nil
}

// Leave detaches a participant. Dropping to a single player ends the game
// with that player as winner by attrition.
func (g *Game) Leave(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sessMu.Lock()
	delete(g.sessions, playerID)
	g.sessMu.Unlock()

	if idx := g.spectatorIndex(playerID); idx >= 0 {
		g.spectators = append(g.spectators[:idx], g.spectators[idx+1:]...)
		g.broadcastState()
		return
	}

	idx := g.playerIndex(playerID)
	if idx < 0 {
		return
	}
	g.removePlayerAt(idx)

	if g.statusID() == state.IDPlaying && len(g.players) == 1 {
		g.declareWinner(g.players[0].ID)
		return
	}
	g.broadcastState()
}

// HandleCommand routes a validated command through the lifecycle state
// machine. Waiting and finished games reject everything.
func (g *Game) HandleCommand(cmd state.Command) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.GetCurrentState().HandleAction(cmd)
}

// View snapshots the public state of the game.
func (g *Game) View() models.GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view()
}

// Sessions returns every attached connection session.
func (g *Game) Sessions() []*session.Session {
	g.sessMu.RLock()
	defer g.sessMu.RUnlock()

	sessions := make([]*session.Session, 0, len(g.sessions))
	for _, s := range g.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// Session returns the connection session of one participant.
func (g *Game) Session(playerID string) (*session.Session, bool) {
	g.sessMu.RLock()
	defer g.sessMu.RUnlock()
	s, ok := g.sessions[playerID]
	return s, ok
}

// ParticipantBySession scans the connection map for a session id. Used on
// disconnect only.
func (g *Game) ParticipantBySession(sessionID string) (string, bool) {
	g.sessMu.RLock()
	defer g.sessMu.RUnlock()
	for playerID, s := range g.sessions {
		if s.GetID() == sessionID {
			return playerID, true
		}
	}
	return "", false
}

// --- state.GameContext implementation ---
//
// These are invoked by the lifecycle states while the command lock is held;
// they must not lock mu again.

func (g *Game) GetID() string {
	return g.ID
}

func (g *Game) PlayerCount() int {
	return len(g.players)
}

// BeginPlay initializes the first turn and arms its timeout.
func (g *Game) BeginPlay() {
	g.turn = 0
	g.diceRoll = -1
	g.diceUsed = false
	g.startedAt = time.Now()
	g.armTurnTimer()
}

// EndPlay cancels the pending timeout and settles the match record.
func (g *Game) EndPlay() {
	g.cancelTurnTimer()
	if g.manager.recorder == nil || g.winner == "" {
		return
	}

	record := &models.MatchRecord{
		GameID:   g.ID,
		Winner:   g.winner,
		Players:  g.playerSummary(),
		Duration: int(time.Since(g.startedAt).Seconds()),
		EndedAt:  time.Now(),
	}
	recorder := g.manager.recorder
	go func() {
		if err := recorder.RecordMatch(record); err != nil {
			logger.Log.Errorf("Failed to record match %s: %v", record.GameID, err)
		}
	}()
}

// RollDice draws 1..6 for the acting player. If the roll leaves no legal
// move it is consumed immediately and the turn passes on.
func (g *Game) RollDice(playerID string) error {
	player := g.currentPlayer()
	if player == nil || player.ID != playerID {
		return ErrNotYourTurn
	}

	g.diceRoll = g.dice()
	g.diceUsed = false

	payload, _ := json.Marshal(network.DiceRolledMessage{
		Type:     network.MsgTypeDiceRolled,
		DiceRoll: g.diceRoll,
	})
	g.sendToPlayer(playerID, payload)

	if !HasLegalMove(player, g.diceRoll) {
		g.nextTurn()
		return nil
	}
	g.broadcastState()
	return nil
}

// MoveToken applies one token move: entry/advance, captures, win detection
// and turn handling. A 6 grants an extra turn. Every move consumes the
// pending roll; moving without one is rejected.
func (g *Game) MoveToken(playerID, tokenID string, steps int) error {
	player := g.currentPlayer()
	if player == nil || player.ID != playerID {
		return ErrNotYourTurn
	}

	if g.diceRoll == -1 || g.diceUsed {
		return ErrRollFirst
	}

	token := findToken(player, tokenID)
	if token == nil {
		return ErrInvalidToken
	}

	newPos, err := TargetPosition(token.Position, steps)
	if err != nil {
		return err
	}
	token.Position = newPos
	g.resolveCaptures(player.ID, newPos)
	g.diceUsed = true

	if HasWon(player) {
		g.handleWin(player)
		return nil
	}

	if steps == 6 {
		g.broadcastState()
		return nil
	}
	g.nextTurn()
	return nil
}

// --- internals, command lock held ---

func (g *Game) currentPlayer() *models.Player {
	if len(g.players) == 0 || g.turn < 0 || g.turn >= len(g.players) {
		return nil
	}
	return g.players[g.turn]
}

// resolveCaptures knocks every opposing token on pos back to home, unless
// pos is a safe zone.
func (g *Game) resolveCaptures(moverID string, pos int) {
	if IsSafeZone(pos) {
		return
	}
	for _, other := range g.players {
		if other.ID == moverID {
			continue
		}
		for i := range other.Tokens {
			if other.Tokens[i].Position == pos {
				other.Tokens[i].Position = HomePosition
				payload, _ := json.Marshal(network.KnockoutMessage{
					Type:    network.MsgTypeKnockout,
					Message: "You got knocked out!",
				})
				g.sendToPlayer(other.ID, payload)
			}
		}
	}
}

// handleWin removes the winner from the turn order. With one player left the
// game ends; otherwise play continues with a fresh turn for whoever the
// removal shifted into the current slot.
func (g *Game) handleWin(winner *models.Player) {
	g.winnerColor = winner.Color
	g.broadcastWinner(winner.ID)
	g.removePlayerAt(g.playerIndex(winner.ID))

	if len(g.players) == 1 {
		g.declareWinner(winner.ID)
		return
	}

	g.diceRoll = -1
	g.diceUsed = false
	g.armTurnTimer()
	g.broadcastState()
}

// declareWinner finishes the game and detaches it from the store.
func (g *Game) declareWinner(playerID string) {
	g.winner = playerID
	if idx := g.playerIndex(playerID); idx >= 0 {
		g.winnerColor = g.players[idx].Color
	}
	g.broadcastWinner(playerID)
	if err := g.machine.ChangeState(state.NewFinishedState(g)); err != nil {
		logger.Log.Errorf("Game %s failed to finish: %v", g.ID, err)
	}
	g.broadcastState()
	g.manager.detach(g.ID)
}

func (g *Game) nextTurn() {
	g.cancelTurnTimer()
	g.turn = (g.turn + 1) % len(g.players)
	g.diceRoll = -1
	g.diceUsed = false
	g.armTurnTimer()
	g.broadcastState()
}

// removePlayerAt drops a player while preserving everyone else's turn
// position by identity: removing someone before the current index shifts the
// index down with them.
func (g *Game) removePlayerAt(idx int) {
	if idx < 0 || idx >= len(g.players) {
		return
	}
	g.players = append(g.players[:idx], g.players[idx+1:]...)
	if idx < g.turn {
		g.turn--
	}
	if g.turn >= len(g.players) {
		g.turn = 0
	}
}

func (g *Game) armTurnTimer() {
	g.timers.Cancel(g.timerID)
	g.timerGen++
	gen := g.timerGen
	g.timerID = g.timers.Schedule(g.turnTimeout, func() {
		g.onTurnTimeout(gen)
	})
}

func (g *Game) cancelTurnTimer() {
	g.timers.Cancel(g.timerID)
	g.timerGen++
}

// onTurnTimeout fires when the acting player ran out of time. Stale
// generations (re-armed or cancelled since scheduling) and non-playing games
// degrade to no-ops.
func (g *Game) onTurnTimeout(gen int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.timerGen || g.statusID() != state.IDPlaying {
		return
	}
	logger.Log.Infof("Game %s: turn timeout for %s", g.ID, g.players[g.turn].ID)
	g.nextTurn()
}

func (g *Game) statusID() string {
	return g.machine.GetCurrentState().GetID()
}

func (g *Game) status() models.GameStatus {
	switch g.statusID() {
	case state.IDPlaying:
		return models.StatusPlaying
	case state.IDFinished:
		return models.StatusFinished
	default:
		return models.StatusWaiting
	}
}

func (g *Game) view() models.GameView {
	players := make([]models.Player, len(g.players))
	for i, p := range g.players {
		players[i] = models.Player{
			ID:     p.ID,
			Color:  p.Color,
			Tokens: append([]models.Token(nil), p.Tokens...),
		}
	}
	return models.GameView{
		GameID:     g.ID,
		Players:    players,
		Spectators: append([]string(nil), g.spectators...),
		Turn:       g.turn,
		DiceRoll:   g.diceRoll,
		DiceUsed:   g.diceUsed,
		Status:     g.status(),
		CreatedAt:  g.CreatedAt,
	}
}

func (g *Game) broadcastState() {
	if g.manager.broadcaster == nil {
		return
	}
	if err := g.manager.broadcaster.PublishState(g.ID, g.view()); err != nil {
		logger.Log.Errorf("Game %s broadcast failed: %v", g.ID, err)
	}
}

func (g *Game) broadcastWinner(playerID string) {
	if g.manager.broadcaster == nil {
		return
	}
	payload, _ := json.Marshal(network.WinnerMessage{
		Type:    network.MsgTypeWinner,
		Message: fmt.Sprintf("%s wins!", playerID),
	})
	if err := g.manager.broadcaster.Broadcast(g.ID, payload); err != nil {
		logger.Log.Errorf("Game %s winner broadcast failed: %v", g.ID, err)
	}
}

func (g *Game) sendToPlayer(playerID string, payload []byte) {
	if g.manager.broadcaster == nil {
		return
	}
	if err := g.manager.broadcaster.SendToPlayer(g.ID, playerID, payload); err != nil {
		logger.Log.Warnf("Game %s: send to %s failed: %v", g.ID, playerID, err)
	}
}

func (g *Game) playerSummary() map[string]interface{} {
	players := make(map[string]interface{}, len(g.players)+1)
	for _, p := range g.players {
		players[p.ID] = string(p.Color)
	}
	if g.winner != "" {
		if _, listed := players[g.winner]; !listed {
			players[g.winner] = string(g.winnerColor)
		}
	}
	return players
}

func (g *Game) nextColor() models.Color {
	used := make(map[models.Color]bool, len(g.players))
	for _, p := range g.players {
		used[p.Color] = true
	}
	for _, c := range models.Colors {
		if !used[c] {
			return c
		}
	}
	return models.ColorRed
}

func (g *Game) playerIndex(playerID string) int {
	for i, p := range g.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (g *Game) spectatorIndex(playerID string) int {
	for i, id := range g.spectators {
		if id == playerID {
			return i
		}
	}
	return -1
}

func (g *Game) hasSession(playerID string) bool {
	g.sessMu.RLock()
	defer g.sessMu.RUnlock()
	_, ok := g.sessions[playerID]
	return ok
}

func newPlayer(id string, color models.Color) *models.Player {
	tokens := make([]models.Token, TokensPerPlayer)
	prefix := strings.ToLower(string(color))
	for i := range tokens {
		tokens[i] = models.Token{
			ID:       fmt.Sprintf("%s-%d", prefix, i),
			Position: HomePosition,
		}
	}
	return &models.Player{ID: id, Color: color, Tokens: tokens}
}

func findToken(p *models.Player, tokenID string) *models.Token {
	for i := range p.Tokens {
		if p.Tokens[i].ID == tokenID {
			return &p.Tokens[i]
		}
	}
	return nil
}
