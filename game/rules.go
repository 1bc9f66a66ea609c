// game/rules.go
//
// Pure board rules. Nothing in this file touches session state, timers or
// connections; everything operates on token positions alone.
package game

import (
	"errors"

	"github.com/wfunc/ludo/models"
)

const (
	// WinningPosition is the terminal board position a token must reach.
	WinningPosition = 57
	// HomePosition means the token has not entered the board yet.
	HomePosition = 0
	// TokensPerPlayer is fixed for every player.
	TokensPerPlayer = 4
	// MaxPlayers caps the player list; later joiners become spectators.
	MaxPlayers = 4
)

// safeZones are the positions where tokens cannot be captured.
var safeZones = map[int]bool{
	0: true, 8: true, 13: true, 21: true, 26: true,
	34: true, 39: true, 47: true, 52: true,
}

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrInvalidToken   = errors.New("token does not belong to player")
	ErrNeedSixToStart = errors.New("need a 6 to move a token out of home")
	ErrRollFirst      = errors.New("roll the dice first")
	ErrAlreadyJoined  = errors.New("participant already in game")
)

// IsSafeZone reports whether tokens on pos are protected from capture.
func IsSafeZone(pos int) bool {
	return safeZones[pos]
}

// TargetPosition computes where a token at pos ends up after moving steps.
// A token still at home enters the board at position 1 and only on a 6.
func TargetPosition(pos, steps int) (int, error) {
	if pos == HomePosition {
		if steps != 6 {
			return 0, ErrNeedSixToStart
		}
		return 1, nil
	}
	next := pos + steps
	if next > WinningPosition {
		next = WinningPosition
	}
	return next, nil
}

// CanMoveToken reports whether a single token has a legal move for roll.
func CanMoveToken(pos, roll int) bool {
	if pos == HomePosition {
		return roll == 6
	}
	return pos+roll <= WinningPosition
}

// HasLegalMove reports whether any of the player's tokens can use roll.
func HasLegalMove(p *models.Player, roll int) bool {
	for _, tok := range p.Tokens {
		if CanMoveToken(tok.Position, roll) {
			return true
		}
	}
	return false
}

// HasWon reports whether every token of the player has finished.
func HasWon(p *models.Player) bool {
	for _, tok := range p.Tokens {
		if tok.Position != WinningPosition {
			return false
		}
	}
	return len(p.Tokens) == TokensPerPlayer
}
