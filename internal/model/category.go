package model

import "time"

// Category is one label in a user's category registry. Labels are set-like
// per user: exact string match, no case folding.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index:idx_user_category_name,unique"`
	Name      string `gorm:"index:idx_user_category_name,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
