// services/match_service.go
package services

import (
	"github.com/wfunc/ludo/models"
	"github.com/wfunc/ludo/persistence"
)

// MatchService settles finished matches into the store and answers history
// queries. It implements game.Recorder.
type MatchService struct {
	store persistence.Store
}

func NewMatchService(store persistence.Store) *MatchService {
	return &MatchService{store: store}
}

// RecordMatch persists the settled result of one finished game.
func (s *MatchService) RecordMatch(record *models.MatchRecord) error {
	return s.store.SaveMatch(record)
}

// GetMatch returns the stored result of a finished game.
func (s *MatchService) GetMatch(gameID string) (*models.MatchRecord, error) {
	return s.store.LoadMatch(gameID)
}

// GetPlayerSummary bundles a player's aggregate stats with nothing hidden
// behind further round trips; the RPC layer exposes it as-is.
func (s *MatchService) GetPlayerSummary(playerID string) (map[string]interface{}, error) {
	stats, err := s.store.GetPlayerStats(playerID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"player": playerID,
		"stats":  stats,
	}, nil
}
