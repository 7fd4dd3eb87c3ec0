package models

import (
	"time"

	"gorm.io/gorm"
)

// Question types. Only multiple_choice, text and boolean are auto-graded.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeText           = "text"
	QuestionTypePhoto          = "photo"
	QuestionTypeBoolean        = "boolean"
	QuestionTypeOrdering       = "ordering"
)

type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	GameID        uint           `json:"game_id" gorm:"not null;index"`
	Type          string         `json:"type" gorm:"not null;default:'multiple_choice'"`
	Prompt        string         `json:"prompt" gorm:"not null"`
	CorrectAnswer string         `json:"correct_answer"` // canonical answer for text/boolean types
	Points        int            `json:"points" gorm:"not null;default:10"`
	TimeLimit     int            `json:"time_limit"` // seconds, 0 = no limit
	Order         int            `json:"order" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Game    Game     `json:"game,omitempty"`
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeText, QuestionTypePhoto,
		QuestionTypeBoolean, QuestionTypeOrdering:
		return true
	}
	return false
}
