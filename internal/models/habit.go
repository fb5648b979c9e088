package models

import "time"

type GoalType string

const (
	GoalDaily  GoalType = "daily"
	GoalWeekly GoalType = "weekly"
)

func (goal GoalType) Valid() bool {
	return goal == GoalDaily || goal == GoalWeekly
}

// Habit streaks are derived from entries on read and never stored.
type Habit struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       uint       `gorm:"not null;index;uniqueIndex:uidx_habits_user_name"`
	Name         string     `gorm:"type:varchar(100);not null;uniqueIndex:uidx_habits_user_name"`
	GoalType     GoalType   `gorm:"type:varchar(10);not null;default:daily"`
	ReminderTime *string    `gorm:"type:varchar(5)"`
	Categories   []Category `gorm:"many2many:habit_categories;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
