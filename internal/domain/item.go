package domain

import "time"

// Item Model
type Item struct {
	ID        uint      `gorm:"primaryKey"`         // Primary key
	Name      string    `gorm:"not null"`           // Item name
	Price     float64   `gorm:"not null;default:0"` // Item price, non-negative
	ImageURL  string    `gorm:"size:500"`           // Optional image URL
	CreatedAt time.Time `gorm:"autoCreateTime"`     // Timestamp of creation
}
