package network

// Inbound command types. The set is closed: anything else is rejected at the
// router before it can touch game state.
const (
	MsgTypeJoinGame  = "JOIN_GAME"
	MsgTypeRollDice  = "ROLL_DICE"
	MsgTypeMoveToken = "MOVE_TOKEN"
)

// Outbound message types.
const (
	MsgTypeGameState  = "GAME_STATE"
	MsgTypeDiceRolled = "DICE_ROLLED"
	MsgTypeWinner     = "WINNER"
	MsgTypeKnockout   = "KNOCKOUT"
	MsgTypeError      = "ERROR"
)

// ClientMessage is the raw inbound envelope. TokenID and Steps are only
// meaningful for MOVE_TOKEN.
type ClientMessage struct {
	Type     string `json:"type"`
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	TokenID  string `json:"tokenId,omitempty"`
	Steps    int    `json:"steps,omitempty"`
}

// GameStateMessage carries the full public view of a game.
type GameStateMessage struct {
	Type  string      `json:"type"`
	State interface{} `json:"state"`
}

// DiceRolledMessage is sent to the roller only.
type DiceRolledMessage struct {
	Type     string `json:"type"`
	DiceRoll int    `json:"diceRoll"`
}

// WinnerMessage is broadcast to the whole game.
type WinnerMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// KnockoutMessage is sent to the owner of a captured token.
type KnockoutMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorMessage reports a validation or domain failure to a single sender.
type ErrorMessage struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
