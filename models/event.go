package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null"`
	Title     string         `json:"title" gorm:"not null"`
	Venue     string         `json:"venue"`
	Date      *time.Time     `json:"date"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	User     User     `json:"user,omitempty"`
	Games    []Game   `json:"games,omitempty" gorm:"foreignKey:EventID"`
	Guests   []Guest  `json:"guests,omitempty" gorm:"foreignKey:EventID"`
	Families []Family `json:"families,omitempty" gorm:"foreignKey:EventID"`
}
