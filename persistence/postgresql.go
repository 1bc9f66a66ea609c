// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wfunc/ludo/models"
)

// PostgreSQL is a plain database/sql Store implementation for deployments
// that prefer raw SQL over the GORM stack.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS matches (
            id SERIAL PRIMARY KEY,
            game_id VARCHAR(16) UNIQUE NOT NULL,
            winner VARCHAR(255) NOT NULL,
            players JSONB NOT NULL,
            duration INT DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_matches_winner ON matches(winner);
        CREATE INDEX IF NOT EXISTS idx_matches_created_at ON matches(created_at);
    `)

	return err
}

func (p *PostgreSQL) SaveMatch(record *models.MatchRecord) error {
	playersJSON, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO matches (game_id, winner, players, duration)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (game_id)
        DO UPDATE SET winner = $2, players = $3, duration = $4
    `

	_, err = p.db.ExecContext(ctx, query, record.GameID, record.Winner, playersJSON, record.Duration)
	return err
}

func (p *PostgreSQL) LoadMatch(gameID string) (*models.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		record      models.MatchRecord
		playersJSON []byte
	)
	query := `SELECT game_id, winner, players, duration, created_at FROM matches WHERE game_id = $1`
	err := p.db.QueryRowContext(ctx, query, gameID).Scan(
		&record.GameID, &record.Winner, &playersJSON, &record.Duration, &record.EndedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(playersJSON, &record.Players); err != nil {
		return nil, err
	}
	return &record, nil
}

func (p *PostgreSQL) GetPlayerStats(playerID string) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var stats models.PlayerStats
	query := `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN winner = $1 THEN 1 ELSE 0 END), 0)
        FROM matches
        WHERE players ->> $1 IS NOT NULL
    `
	if err := p.db.QueryRowContext(ctx, query, playerID).Scan(&stats.TotalGames, &stats.Wins); err != nil {
		return nil, err
	}
	stats.Losses = stats.TotalGames - stats.Wins

	return &stats, nil
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
