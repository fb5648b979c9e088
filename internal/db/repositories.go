package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Habits     *HabitRepository
	Entries    *EntryRepository
	Categories *CategoryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Habits:     NewHabitRepository(database),
		Entries:    NewEntryRepository(database),
		Categories: NewCategoryRepository(database),
	}
}
