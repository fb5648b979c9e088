package services

import (
	"fmt"
	"sort"

	"github.com/terraincognita07/streaky/internal/models"
	"gorm.io/gorm"
)

type habitRepositoryStub struct {
	habits    map[uint]models.Habit
	links     map[uint][]uint
	nextID    uint
	deleted   []uint
	entries   *entryRepositoryStub
	updateErr error
}

func newHabitRepositoryStub(entries *entryRepositoryStub) *habitRepositoryStub {
	return &habitRepositoryStub{
		habits:  make(map[uint]models.Habit),
		links:   make(map[uint][]uint),
		nextID:  1,
		entries: entries,
	}
}

func (stub *habitRepositoryStub) seed(userID uint, name string, goal models.GoalType) models.Habit {
	habit := models.Habit{UserID: userID, Name: name, GoalType: goal}
	_ = stub.Create(&habit)
	return habit
}

func (stub *habitRepositoryStub) FindByIDForUser(habitID uint, userID uint) (models.Habit, error) {
	habit, ok := stub.habits[habitID]
	if !ok || habit.UserID != userID {
		return models.Habit{}, gorm.ErrRecordNotFound
	}
	return habit, nil
}

func (stub *habitRepositoryStub) ListByUser(userID uint, categoryID *uint) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	for _, habit := range stub.habits {
		if habit.UserID != userID {
			continue
		}
		if categoryID != nil && !containsUint(stub.links[*categoryID], habit.ID) {
			continue
		}
		habits = append(habits, habit)
	}
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].ID < habits[j].ID
	})
	return habits, nil
}

func (stub *habitRepositoryStub) ExistsByUserAndName(userID uint, name string, excludeID uint) (bool, error) {
	for _, habit := range stub.habits {
		if habit.UserID == userID && habit.Name == name && habit.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (stub *habitRepositoryStub) Create(habit *models.Habit) error {
	habit.ID = stub.nextID
	stub.nextID++
	stub.habits[habit.ID] = *habit
	return nil
}

func (stub *habitRepositoryStub) UpdateByID(habitID uint, updates map[string]any) error {
	if stub.updateErr != nil {
		return stub.updateErr
	}
	habit := stub.habits[habitID]
	for key, value := range updates {
		switch key {
		case "name":
			habit.Name = value.(string)
		case "goal_type":
			habit.GoalType = value.(models.GoalType)
		case "reminder_time":
			habit.ReminderTime = value.(*string)
		}
	}
	stub.habits[habitID] = habit
	return nil
}

func (stub *habitRepositoryStub) DeleteWithRelatedData(habitID uint) error {
	delete(stub.habits, habitID)
	stub.deleted = append(stub.deleted, habitID)
	if stub.entries != nil {
		for key, entry := range stub.entries.entries {
			if entry.HabitID == habitID {
				delete(stub.entries.entries, key)
			}
		}
	}
	return nil
}

func (stub *habitRepositoryStub) CountAll() (int64, error) {
	return int64(len(stub.habits)), nil
}

type entryRepositoryStub struct {
	entries   map[string]models.Entry
	nextID    uint
	upsertErr error
}

func newEntryRepositoryStub() *entryRepositoryStub {
	return &entryRepositoryStub{
		entries: make(map[string]models.Entry),
		nextID:  1,
	}
}

func (stub *entryRepositoryStub) key(habitID uint, date string) string {
	return fmt.Sprintf("%d|%s", habitID, date)
}

func (stub *entryRepositoryStub) Upsert(habitID uint, date string, journal *string, replaceJournal bool) (models.Entry, error) {
	if stub.upsertErr != nil {
		return models.Entry{}, stub.upsertErr
	}
	key := stub.key(habitID, date)
	entry, exists := stub.entries[key]
	if !exists {
		entry = models.Entry{ID: stub.nextID, HabitID: habitID, Date: date}
		stub.nextID++
	}
	if replaceJournal {
		entry.Journal = nil
		if journal != nil {
			value := *journal
			entry.Journal = &value
		}
	}
	stub.entries[key] = entry
	return entry, nil
}

func (stub *entryRepositoryStub) FindByHabitAndDate(habitID uint, date string) (models.Entry, bool, error) {
	entry, ok := stub.entries[stub.key(habitID, date)]
	return entry, ok, nil
}

func (stub *entryRepositoryStub) UpdateJournal(habitID uint, date string, journal *string) (models.Entry, bool, error) {
	key := stub.key(habitID, date)
	entry, ok := stub.entries[key]
	if !ok {
		return models.Entry{}, false, nil
	}
	entry.Journal = journal
	stub.entries[key] = entry
	return entry, true, nil
}

func (stub *entryRepositoryStub) ListByHabit(habitID uint) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	for _, entry := range stub.entries {
		if entry.HabitID == habitID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	return entries, nil
}

func (stub *entryRepositoryStub) DeleteByHabitAndDate(habitID uint, date string) (bool, error) {
	key := stub.key(habitID, date)
	if _, ok := stub.entries[key]; !ok {
		return false, nil
	}
	delete(stub.entries, key)
	return true, nil
}

func (stub *entryRepositoryStub) ListDatesByHabit(habitID uint) ([]string, error) {
	return stub.ListDatesByHabitRange(habitID, "0000-01-01", "9999-12-31")
}

func (stub *entryRepositoryStub) ListDatesByHabitRange(habitID uint, from string, to string) ([]string, error) {
	dates := make([]string, 0)
	for _, entry := range stub.entries {
		if entry.HabitID == habitID && entry.Date >= from && entry.Date <= to {
			dates = append(dates, entry.Date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (stub *entryRepositoryStub) ListDatesByHabits(habitIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(habitIDs))
	for _, habitID := range habitIDs {
		dates, _ := stub.ListDatesByHabit(habitID)
		result[habitID] = dates
	}
	return result, nil
}

func (stub *entryRepositoryStub) CountAll() (int64, error) {
	return int64(len(stub.entries)), nil
}

func (stub *entryRepositoryStub) CountByDate(date string) (int64, error) {
	var count int64
	for _, entry := range stub.entries {
		if entry.Date == date {
			count++
		}
	}
	return count, nil
}

func containsUint(values []uint, needle uint) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}

func stringPointer(value string) *string {
	return &value
}
