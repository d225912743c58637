package models

import "time"

// Restaurant is a publicly listed place, kept separate from the
// friend-scoped Location model.
type Restaurant struct {
	ID        string      `json:"id" gorm:"primaryKey;size:191"`
	Name      string      `json:"name" gorm:"not null;size:255"`
	Types     StringSlice `json:"types" gorm:"not null"`
	ImageURLs StringSlice `json:"image_urls" gorm:"column:image_urls"`
	Latitude  *float64    `json:"latitude"`
	Longitude *float64    `json:"longitude"`
	Address   *string     `json:"address" gorm:"size:500"`
	Area      *string     `json:"area" gorm:"size:255"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
