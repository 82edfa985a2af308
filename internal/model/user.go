package model

import "time"

// User is an identity scope. Email and PasswordHash are only populated in the
// password auth mode; the name-only mode provisions users with just a display
// name.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"index" json:"name"`
	Email        string    `gorm:"index" json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}
