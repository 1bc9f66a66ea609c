package models

import (
	"gorm.io/gorm"
)

// GormMatch is the persisted form of a finished match.
type GormMatch struct {
	gorm.Model
	GameID   string                 `gorm:"uniqueIndex;not null"`
	Winner   string                 `gorm:"index;not null"`
	Players  map[string]interface{} `gorm:"type:jsonb;serializer:json;not null"`
	Duration int                    `gorm:"default:0"` // seconds
}

func (GormMatch) TableName() string {
	return "matches"
}
