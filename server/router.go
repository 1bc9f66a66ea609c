// server/router.go
//
// Inbound message validation and dispatch. Every envelope is checked against
// the closed command set before any game state can be touched; failures go
// back to the sender as ERROR messages and never tear down the connection.
package server

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/ludo/game"
	"github.com/wfunc/ludo/logger"
	"github.com/wfunc/ludo/network"
	"github.com/wfunc/ludo/session"
	"github.com/wfunc/ludo/state"
)

func (s *GameServer) handleMessage(sess *session.Session, data []byte) {
	var msg network.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(sess, "Invalid message format", err.Error())
		return
	}

	if err := validateMessage(&msg); err != nil {
		s.monitor.IncCommandErrors()
		s.sendError(sess, err.Error(), nil)
		return
	}

	g, exists := s.gameManager.Get(msg.GameID)
	if !exists {
		s.monitor.IncCommandErrors()
		s.sendError(sess, game.ErrGameNotFound.Error(), nil)
		return
	}

	switch msg.Type {
	case network.MsgTypeJoinGame:
		role, err := g.Join(msg.PlayerID, sess)
		if err != nil {
			s.monitor.IncCommandErrors()
			s.sendError(sess, "Failed to join game", err.Error())
			return
		}
		logger.Log.Infof("Participant %s joined game %s as %s", msg.PlayerID, g.ID, role)

	default:
		err := g.HandleCommand(state.Command{
			Type:     msg.Type,
			PlayerID: msg.PlayerID,
			TokenID:  msg.TokenID,
			Steps:    msg.Steps,
		})
		if err != nil {
			s.monitor.IncCommandErrors()
			s.sendError(sess, err.Error(), nil)
		}
	}
}

// validateMessage enforces the envelope schema. Only validated messages ever
// reach a game.
func validateMessage(msg *network.ClientMessage) error {
	switch msg.Type {
	case network.MsgTypeJoinGame, network.MsgTypeRollDice:
		// base fields only
	case network.MsgTypeMoveToken:
		if msg.TokenID == "" {
			return fmt.Errorf("missing tokenId")
		}
		if msg.Steps < 1 || msg.Steps > 6 {
			return fmt.Errorf("steps must be between 1 and 6, got %d", msg.Steps)
		}
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	if msg.GameID == "" {
		return fmt.Errorf("missing gameId")
	}
	if msg.PlayerID == "" {
		return fmt.Errorf("missing playerId")
	}
	return nil
}

func (s *GameServer) sendError(sess *session.Session, message string, details interface{}) {
	payload, err := json.Marshal(network.ErrorMessage{
		Type:    network.MsgTypeError,
		Message: message,
		Details: details,
	})
	if err != nil {
		return
	}
	if err := sess.Send(payload); err != nil {
		logger.Log.Warnf("Failed to send error to session %s: %v", sess.GetID(), err)
	}
}
