package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Player types: the unit of "has this player already played".
const (
	PlayerTypeIndividual = "individual"
	PlayerTypeFamily     = "family"
	PlayerTypePublic     = "public"
)

// AccessGrant binds a player identity to one event, and optionally to one
// game, via an opaque token distributed as a QR code. HasPlayed and LastScore
// are denormalized convenience state; the Participation row is authoritative.
type AccessGrant struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Token      string         `json:"token" gorm:"uniqueIndex;not null"`
	EventID    uint           `json:"event_id" gorm:"not null;index"`
	GameID     *uint          `json:"game_id"`
	PlayerType string         `json:"player_type" gorm:"not null;default:'public'"`
	GuestID    *uint          `json:"guest_id"`
	FamilyID   *uint          `json:"family_id"`
	Label      string         `json:"label"` // display name hint for anonymous grants
	HasPlayed  bool           `json:"has_played" gorm:"not null;default:false"`
	LastScore  int            `json:"last_score" gorm:"not null;default:0"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Event  Event   `json:"event,omitempty"`
	Guest  *Guest  `json:"guest,omitempty"`
	Family *Family `json:"family,omitempty"`
}

// Identity returns the player identity key this grant plays as. Guest and
// family grants share one identity across any number of tokens; public grants
// are identified by the token itself.
func (g *AccessGrant) Identity() string {
	switch {
	case g.PlayerType == PlayerTypeIndividual && g.GuestID != nil:
		return fmt.Sprintf("guest:%d", *g.GuestID)
	case g.PlayerType == PlayerTypeFamily && g.FamilyID != nil:
		return fmt.Sprintf("family:%d", *g.FamilyID)
	default:
		return g.Token
	}
}
