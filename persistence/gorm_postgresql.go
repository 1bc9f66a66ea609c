// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/ludo/models"
)

// GormPostgreSQL is the default Store implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormMatch{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveMatch upserts by game id, so retried writes stay harmless.
func (p *GormPostgreSQL) SaveMatch(record *models.MatchRecord) error {
	var match models.GormMatch
	result := p.db.Where("game_id = ?", record.GameID).First(&match)

	if result.Error == gorm.ErrRecordNotFound {
		match = models.GormMatch{
			GameID:   record.GameID,
			Winner:   record.Winner,
			Players:  record.Players,
			Duration: record.Duration,
		}
		return p.db.Create(&match).Error
	} else if result.Error != nil {
		return result.Error
	}

	match.Winner = record.Winner
	match.Players = record.Players
	match.Duration = record.Duration
	return p.db.Save(&match).Error
}

func (p *GormPostgreSQL) LoadMatch(gameID string) (*models.MatchRecord, error) {
	var match models.GormMatch
	if err := p.db.Where("game_id = ?", gameID).First(&match).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &models.MatchRecord{
		GameID:   match.GameID,
		Winner:   match.Winner,
		Players:  match.Players,
		Duration: match.Duration,
		EndedAt:  match.CreatedAt,
	}, nil
}

// GetPlayerStats aggregates a player's record across every stored match.
func (p *GormPostgreSQL) GetPlayerStats(playerID string) (*models.PlayerStats, error) {
	var row struct {
		TotalGames int
		Wins       int
	}

	err := p.db.Raw(
		`
        SELECT
            COUNT(*) as total_games,
            COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0) as wins
        FROM matches
        WHERE players ->> ? IS NOT NULL AND deleted_at IS NULL`,
		playerID, playerID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &models.PlayerStats{
		TotalGames: row.TotalGames,
		Wins:       row.Wins,
		Losses:     row.TotalGames - row.Wins,
	}, nil
}

func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
