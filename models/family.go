package models

import (
	"time"

	"gorm.io/gorm"
)

type Family struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventID   uint           `json:"event_id" gorm:"not null"`
	Name      string         `json:"name" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Event  Event   `json:"event,omitempty"`
	Guests []Guest `json:"guests,omitempty" gorm:"foreignKey:FamilyID"`
}
