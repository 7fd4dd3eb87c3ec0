package models

import (
	"time"

	"gorm.io/gorm"
)

// Game lifecycle statuses. Games are never hard-deleted, only deactivated.
const (
	GameStatusDraft     = "draft"
	GameStatusActive    = "active"
	GameStatusPaused    = "paused"
	GameStatusCompleted = "completed"
)

// Game types supported by the platform.
const (
	GameTypeQuiz           = "quiz"
	GameTypePuzzle         = "puzzle"
	GameTypeShoeGame       = "shoe_game"
	GameTypePhotoScavenger = "photo_scavenger"
	GameTypeBlindTest      = "blind_test"
	GameTypeTwelveMonths   = "twelve_months"
	GameTypeMemory         = "memory"
	GameTypeTrivia         = "trivia"
)

type Game struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventID   uint           `json:"event_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"not null"`
	Type      string         `json:"type" gorm:"not null;default:'quiz'"`
	Status    string         `json:"status" gorm:"not null;default:'draft'"`
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Event          Event           `json:"event,omitempty"`
	Questions      []Question      `json:"questions,omitempty" gorm:"foreignKey:GameID"`
	Participations []Participation `json:"participations,omitempty" gorm:"foreignKey:GameID"`
}

// Playable reports whether public players may submit plays right now.
func (g *Game) Playable() bool {
	return g.Status == GameStatusActive && g.IsActive
}

func ValidGameType(t string) bool {
	switch t {
	case GameTypeQuiz, GameTypePuzzle, GameTypeShoeGame, GameTypePhotoScavenger,
		GameTypeBlindTest, GameTypeTwelveMonths, GameTypeMemory, GameTypeTrivia:
		return true
	}
	return false
}
