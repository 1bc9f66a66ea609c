package services

import (
	"testing"
	"time"

	"github.com/wfunc/ludo/models"
	"github.com/wfunc/ludo/persistence"
)

// memoryStore is an in-memory persistence.Store for tests.
type memoryStore struct {
	matches map[string]*models.MatchRecord
	stats   map[string]*models.PlayerStats
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		matches: make(map[string]*models.MatchRecord),
		stats:   make(map[string]*models.PlayerStats),
	}
}

func (s *memoryStore) SaveMatch(record *models.MatchRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.matches[record.GameID] = record
	return nil
}

func (s *memoryStore) LoadMatch(gameID string) (*models.MatchRecord, error) {
	record, exists := s.matches[gameID]
	if !exists {
		return nil, persistence.ErrRecordNotFound
	}
	return record, nil
}

func (s *memoryStore) GetPlayerStats(playerID string) (*models.PlayerStats, error) {
	if stats, exists := s.stats[playerID]; exists {
		return stats, nil
	}
	return &models.PlayerStats{}, nil
}

func (s *memoryStore) Close() error { return nil }

func TestRecordAndGetMatch(t *testing.T) {
	store := newMemoryStore()
	svc := NewMatchService(store)

	record := &models.MatchRecord{
		GameID:   "ABC123",
		Winner:   "p1",
		Players:  map[string]interface{}{"p1": "RED", "p2": "GREEN"},
		Duration: 421,
		EndedAt:  time.Now(),
	}
	if err := svc.RecordMatch(record); err != nil {
		t.Fatalf("RecordMatch failed: %v", err)
	}

	loaded, err := svc.GetMatch("ABC123")
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if loaded.Winner != "p1" || loaded.Duration != 421 {
		t.Errorf("Loaded record does not match: %+v", loaded)
	}

	if _, err := svc.GetMatch("nosuch"); err != persistence.ErrRecordNotFound {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestGetPlayerSummary(t *testing.T) {
	store := newMemoryStore()
	store.stats["p1"] = &models.PlayerStats{TotalGames: 10, Wins: 7, Losses: 3}
	svc := NewMatchService(store)

	summary, err := svc.GetPlayerSummary("p1")
	if err != nil {
		t.Fatalf("GetPlayerSummary failed: %v", err)
	}
	if summary["player"] != "p1" {
		t.Errorf("Expected player p1, got %v", summary["player"])
	}
	stats, ok := summary["stats"].(*models.PlayerStats)
	if !ok {
		t.Fatalf("Expected *models.PlayerStats, got %T", summary["stats"])
	}
	if stats.Wins != 7 || stats.TotalGames != 10 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
