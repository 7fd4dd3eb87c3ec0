package models

import (
	"time"
)

// OriginGuard blocks repeat plays of a game from one network origin,
// regardless of identity. Its mere existence is the block; it carries no
// other state. Best-effort abuse control, not a correctness mechanism.
type OriginGuard struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GameID    uint      `json:"game_id" gorm:"not null;uniqueIndex:idx_game_origin"`
	Origin    string    `json:"origin" gorm:"not null;uniqueIndex:idx_game_origin"`
	CreatedAt time.Time `json:"created_at"`
}
