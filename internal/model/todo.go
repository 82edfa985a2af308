package model

import "time"

// Todo is a single to-do item. It belongs to exactly one user and is never
// visible outside that user's scope. The repository generates the id and owns
// both timestamps.
type Todo struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"index" json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Category    string     `json:"category,omitempty"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime:false" json:"updatedAt"`
}
