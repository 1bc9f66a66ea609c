// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"

	"github.com/wfunc/ludo/game"
	"github.com/wfunc/ludo/logger"
	"github.com/wfunc/ludo/models"
	"github.com/wfunc/ludo/network"
)

// GameBroadcaster implements game.Broadcaster over the live game registry.
// A failed or closed connection is skipped and logged; it never aborts
// delivery to the rest of the game.
type GameBroadcaster struct {
	manager *game.Manager
}

func NewGameBroadcaster(manager *game.Manager) *GameBroadcaster {
	return &GameBroadcaster{manager: manager}
}

// PublishState sends the snapshot as a GAME_STATE message to every
// connection attached to the game.
func (b *GameBroadcaster) PublishState(gameID string, view models.GameView) error {
	payload, err := json.Marshal(network.GameStateMessage{
		Type:  network.MsgTypeGameState,
		State: view,
	})
	if err != nil {
		return err
	}
	return b.Broadcast(gameID, payload)
}

// Broadcast sends a raw payload to every connection attached to the game.
func (b *GameBroadcaster) Broadcast(gameID string, payload []byte) error {
	g, exists := b.manager.Get(gameID)
	if !exists {
		return game.ErrGameNotFound
	}

	for _, s := range g.Sessions() {
		if !s.Conn.IsOpen() {
			continue
		}
		if err := s.Send(payload); err != nil {
			logger.Log.Warnf("Broadcast to session %s failed: %v", s.GetID(), err)
		}
	}
	return nil
}

// SendToPlayer sends a raw payload to one participant of the game.
func (b *GameBroadcaster) SendToPlayer(gameID, playerID string, payload []byte) error {
	g, exists := b.manager.Get(gameID)
	if !exists {
		return game.ErrGameNotFound
	}

	s, ok := g.Session(playerID)
	if !ok || !s.Conn.IsOpen() {
		return nil
	}
	if err := s.Send(payload); err != nil {
		logger.Log.Warnf("Send to session %s failed: %v", s.GetID(), err)
	}
	return nil
}
