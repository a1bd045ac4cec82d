package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey"`      // Primary key
	Username  string    `gorm:"unique;not null"` // Unique username
	Password  string    `gorm:"not null"`        // Hashed password
	IsAdmin   bool      `gorm:"default:false"`   // Admin flag, granted when signing up as "admin"
	CreatedAt time.Time `gorm:"autoCreateTime"`  // Timestamp of creation
}
