package state

import (
	"errors"

	"github.com/wfunc/ludo/logger"
	"github.com/wfunc/ludo/network"
)

var (
	// ErrGameNotStarted rejects moves while a game is still waiting for players.
	ErrGameNotStarted = errors.New("game has not started yet")
	// ErrGameFinished rejects moves after a game ended.
	ErrGameFinished = errors.New("game is already finished")
	// ErrUnknownAction rejects command types no state handles.
	ErrUnknownAction = errors.New("unknown game action")
)

// Lifecycle state ids.
const (
	IDWaiting  = "waiting"
	IDPlaying  = "playing"
	IDFinished = "finished"
)

// GameContext is what a lifecycle state may do to its game. The game
// implements it; calls arrive with the game's command lock already held, so
// implementations must not take it again.
type GameContext interface {
	GetID() string
	PlayerCount() int
	RollDice(playerID string) error
	MoveToken(playerID, tokenID string, steps int) error
	BeginPlay()
	EndPlay()
}

// GameStateBase carries the pieces every lifecycle state shares.
type GameStateBase struct {
	ID   string
	Game GameContext
}

func (s *GameStateBase) GetID() string {
	return s.ID
}

func (s *GameStateBase) OnEnter() {
}

func (s *GameStateBase) OnExit() {
}

// WaitingState holds the game before enough players joined. No actions are
// accepted.
type WaitingState struct {
	GameStateBase
}

func NewWaitingState(game GameContext) *WaitingState {
	return &WaitingState{
		GameStateBase: GameStateBase{ID: IDWaiting, Game: game},
	}
}

func (s *WaitingState) HandleAction(cmd Command) error {
	return ErrGameNotStarted
}

// PlayingState is the active phase: dice rolls and token moves are dispatched
// to the game rules.
type PlayingState struct {
	GameStateBase
}

func NewPlayingState(game GameContext) *PlayingState {
	return &PlayingState{
		GameStateBase: GameStateBase{ID: IDPlaying, Game: game},
	}
}

func (s *PlayingState) OnEnter() {
	logger.Log.Infof("Game %s started with %d players", s.Game.GetID(), s.Game.PlayerCount())
	s.Game.BeginPlay()
}

func (s *PlayingState) HandleAction(cmd Command) error {
	switch cmd.Type {
	case network.MsgTypeRollDice:
		return s.Game.RollDice(cmd.PlayerID)
	case network.MsgTypeMoveToken:
		return s.Game.MoveToken(cmd.PlayerID, cmd.TokenID, cmd.Steps)
	default:
		return ErrUnknownAction
	}
}

// FinishedState is terminal. Entering it cancels the turn timer and settles
// the match record.
type FinishedState struct {
	GameStateBase
}

func NewFinishedState(game GameContext) *FinishedState {
	return &FinishedState{
		GameStateBase: GameStateBase{ID: IDFinished, Game: game},
	}
}

func (s *FinishedState) OnEnter() {
	logger.Log.Infof("Game %s finished", s.Game.GetID())
	s.Game.EndPlay()
}

func (s *FinishedState) HandleAction(cmd Command) error {
	return ErrGameFinished
}
