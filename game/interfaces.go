package game

import (
	"github.com/wfunc/ludo/models"
)

// Broadcaster delivers outbound messages for a game. It is defined here to
// break the import cycle between game and broadcast.
type Broadcaster interface {
	// PublishState sends the given snapshot as a GAME_STATE message to every
	// connection attached to the game, players and spectators alike.
	PublishState(gameID string, view models.GameView) error
	// SendToPlayer sends a raw payload to a single participant's connection.
	SendToPlayer(gameID, playerID string, payload []byte) error
	// Broadcast sends a raw payload to every connection attached to the game.
	Broadcast(gameID string, payload []byte) error
}

// Recorder persists finished matches. Implemented by services.MatchService.
type Recorder interface {
	RecordMatch(record *models.MatchRecord) error
}
