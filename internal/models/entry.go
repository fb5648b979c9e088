package models

import "time"

// DateLayout is the wire and storage format for civil dates.
const DateLayout = "2006-01-02"

// Entry records that a habit was performed on a calendar date. Journal is nil
// when the entry carries no text.
type Entry struct {
	ID        uint    `gorm:"primaryKey"`
	HabitID   uint    `gorm:"not null;uniqueIndex:uidx_entries_habit_date"`
	Date      string  `gorm:"type:varchar(10);not null;uniqueIndex:uidx_entries_habit_date"`
	Journal   *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
