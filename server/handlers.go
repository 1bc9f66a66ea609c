// server/handlers.go
//
// Plain HTTP endpoints: create a game code, inspect a game. Gameplay itself
// only happens over the websocket.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/wfunc/ludo/logger"
)

func (s *GameServer) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	g := s.gameManager.CreateGame()
	s.monitor.SetActiveGames(s.gameManager.Count())

	logger.Log.Infof("Created game %s", g.ID)
	writeJSON(w, http.StatusOK, map[string]string{"gameId": g.ID})
}

func (s *GameServer) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	g, exists := s.gameManager.Get(id)
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "game not found"})
		return
	}

	writeJSON(w, http.StatusOK, g.View())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("Failed to encode response: %v", err)
	}
}
