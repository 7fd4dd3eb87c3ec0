package models

import (
	"time"
)

// AnswerRecord stores one graded answer of a Participation. Immutable.
// TimeSpent is recorded as submitted but never affects scoring.
type AnswerRecord struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ParticipationID uint      `json:"participation_id" gorm:"not null;index"`
	QuestionID      uint      `json:"question_id" gorm:"not null"`
	Submitted       string    `json:"submitted"`
	IsCorrect       bool      `json:"is_correct" gorm:"not null"`
	Points          int       `json:"points" gorm:"not null"`
	TimeSpent       int       `json:"time_spent"` // seconds
	CreatedAt       time.Time `json:"created_at"`

	// Relationships
	Participation Participation `json:"participation,omitempty"`
	Question      Question      `json:"question,omitempty"`
}
