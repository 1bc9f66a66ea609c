// models/models.go
package models

import (
	"time"
)

// Color identifies a player's token set. Colors are assigned in join order.
type Color string

const (
	ColorRed    Color = "RED"
	ColorGreen  Color = "GREEN"
	ColorBlue   Color = "BLUE"
	ColorYellow Color = "YELLOW"
)

// Colors lists every color in assignment order.
var Colors = []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}

// Token is a single playing piece. Position 0 means the token is still in its
// home base, 57 means it has finished.
type Token struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// Player owns exactly 4 tokens.
type Player struct {
	ID     string  `json:"id"`
	Color  Color   `json:"color"`
	Tokens []Token `json:"tokens"`
}

// GameStatus is the lifecycle state of a game.
type GameStatus string

const (
	StatusWaiting  GameStatus = "WAITING"
	StatusPlaying  GameStatus = "PLAYING"
	StatusFinished GameStatus = "FINISHED"
)

// GameView is the public, serializable snapshot of a game. It is what gets
// broadcast to every participant and returned by the inspect endpoint.
type GameView struct {
	GameID     string     `json:"gameId"`
	Players    []Player   `json:"players"`
	Spectators []string   `json:"spectators"`
	Turn       int        `json:"currentTurnIndex"`
	DiceRoll   int        `json:"diceRoll"`
	DiceUsed   bool       `json:"diceUsed"`
	Status     GameStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// MatchRecord is written once, when a game finishes.
type MatchRecord struct {
	GameID   string                 `json:"game_id"`
	Winner   string                 `json:"winner"`
	Players  map[string]interface{} `json:"players"`
	Duration int                    `json:"duration"` // seconds
	EndedAt  time.Time              `json:"ended_at"`
}

// PlayerStats aggregates a player's match history.
type PlayerStats struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
}
