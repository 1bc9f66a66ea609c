// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/ludo/models"
)

// Store persists finished matches. Live game state never goes through here;
// only settled results do.
type Store interface {
	SaveMatch(record *models.MatchRecord) error
	LoadMatch(gameID string) (*models.MatchRecord, error)
	GetPlayerStats(playerID string) (*models.PlayerStats, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)

// Open selects a Store implementation by driver name. "gorm" (and the empty
// default) picks the GORM-backed store, "postgres"/"pq" the raw database/sql
// one.
func Open(driver, host string, port int, user, password, dbname string) (Store, error) {
	switch driver {
	case "", "gorm":
		return NewGormPostgreSQL(host, port, user, password, dbname)
	case "postgres", "pq":
		return NewPostgreSQL(host, port, user, password, dbname)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
