package models

import "time"

// User owns habits and categories; deleting a user removes both on server
// databases through the foreign keys below.
type User struct {
	ID           uint       `gorm:"primaryKey"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	Habits       []Habit    `gorm:"constraint:OnDelete:CASCADE"`
	Categories   []Category `gorm:"constraint:OnDelete:CASCADE"`
}
