package db

import (
	"shop_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Seed inserts demo accounts and catalog items when the tables are empty
func Seed(db *gorm.DB) error {
	var userCount int64 // Number of existing users
	if err := db.Model(&domain.User{}).Count(&userCount).Error; err != nil {
		return err // Return error if counting fails
	}
	// Only seed accounts into an empty user table
	if userCount == 0 {
		// Demo accounts: admin/admin123 and user/user123
		accounts := []struct {
			Username string // Account username
			Password string // Plaintext demo password
			IsAdmin  bool   // Admin flag
		}{
			{"admin", "admin123", true},
			{"user", "user123", false},
		}
		for _, a := range accounts {
			hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
			if err != nil {
				return err // Return error if hashing fails
			}
			u := domain.User{Username: a.Username, Password: string(hash), IsAdmin: a.IsAdmin}
			if err := db.Create(&u).Error; err != nil {
				return err // Return error if insert fails
			}
			logrus.WithField("username", a.Username).Info("Seeded account")
		}
	} else {
		logrus.Info("Users already present, skipping account seed")
	}
	var itemCount int64 // Number of existing items
	if err := db.Model(&domain.Item{}).Count(&itemCount).Error; err != nil {
		return err // Return error if counting fails
	}
	// Only seed items into an empty catalog
	if itemCount == 0 {
		items := []domain.Item{
			{Name: "Red Summer Dress", Price: 1299.0, ImageURL: "https://images.unsplash.com/photo-1542060748-10c28b62716c"},
			{Name: "Classic Black Gown", Price: 2499.0, ImageURL: "https://images.unsplash.com/photo-1519741497674-611481863552"},
			{Name: "Floral Casual Dress", Price: 1599.0, ImageURL: "https://images.unsplash.com/photo-1512436991641-6745cdb1723f"},
		}
		if err := db.Create(&items).Error; err != nil {
			return err // Return error if insert fails
		}
		logrus.WithField("count", len(items)).Info("Seeded catalog items")
	} else {
		logrus.Info("Items already present, skipping catalog seed")
	}
	return nil
}
