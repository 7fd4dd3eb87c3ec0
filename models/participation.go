package models

import (
	"time"
)

// Participation is the durable record of one identity's completed attempt at
// one game. Rows are immutable once written, except for Rank which is
// recomputed whenever the leaderboard changes. The composite unique index is
// the authoritative one-play-per-identity guarantee; application pre-checks
// are only a fast path.
type Participation struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	GameID         uint       `json:"game_id" gorm:"not null;uniqueIndex:idx_game_identity"`
	PlayerType     string     `json:"player_type" gorm:"not null;uniqueIndex:idx_game_identity"`
	PlayerRef      string     `json:"player_ref" gorm:"not null;uniqueIndex:idx_game_identity"`
	PlayerName     string     `json:"player_name" gorm:"not null"`
	Score          int        `json:"score" gorm:"not null;default:0"`
	CorrectAnswers int        `json:"correct_answers" gorm:"not null;default:0"`
	TotalAnswers   int        `json:"total_answers" gorm:"not null;default:0"`
	Completed      bool       `json:"completed" gorm:"not null;default:false"`
	CompletedAt    *time.Time `json:"completed_at"`
	Rank           int        `json:"rank" gorm:"not null;default:0"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	Game    Game           `json:"game,omitempty"`
	Answers []AnswerRecord `json:"answers,omitempty" gorm:"foreignKey:ParticipationID"`
}
