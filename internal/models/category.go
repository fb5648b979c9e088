package models

import "time"

const DefaultCategoryColor = "#6366f1"

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index;uniqueIndex:uidx_categories_user_name"`
	Name      string `gorm:"type:varchar(50);not null;uniqueIndex:uidx_categories_user_name"`
	Color     string `gorm:"type:varchar(7);not null;default:'#6366f1'"`
	CreatedAt time.Time
}

// HabitCategory is the join row between habits and categories.
type HabitCategory struct {
	HabitID    uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey"`
}

func (HabitCategory) TableName() string {
	return "habit_categories"
}
