package models

import (
	"time"

	"gorm.io/gorm"
)

type Guest struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	EventID    uint           `json:"event_id" gorm:"not null"`
	FamilyID   *uint          `json:"family_id"`
	Name       string         `json:"name" gorm:"not null"`
	Email      string         `json:"email"`
	RSVPStatus string         `json:"rsvp_status" gorm:"not null;default:'pending'"` // pending, yes, no
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Event  Event   `json:"event,omitempty"`
	Family *Family `json:"family,omitempty"`
}
