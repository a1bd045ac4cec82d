package domain

// CartEntry Model
type CartEntry struct {
	ID       uint `gorm:"primaryKey"`                      // Primary key
	UserID   uint `gorm:"uniqueIndex:idx_user_item"`       // Foreign key to User
	ItemID   uint `gorm:"uniqueIndex:idx_user_item"`       // Foreign key to Item
	Quantity int  `gorm:"not null;default:1"`              // Quantity, >= 1 while the row exists
	User     User `gorm:"constraint:OnDelete:CASCADE;" json:"-"` // Owning user
	Item     Item `gorm:"constraint:OnDelete:CASCADE;" json:"-"` // Referenced item
}
