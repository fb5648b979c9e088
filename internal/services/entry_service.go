package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/streaky/internal/models"
)

var (
	ErrEntryNotFound      = newError(KindNotFound, "entry not found")
	ErrEntryUpsertFailed  = newError(KindInternal, "log entry failed")
	ErrJournalWriteFailed = newError(KindInternal, "update journal failed")
	ErrEntryDeleteFailed  = newError(KindInternal, "delete entry failed")
)

type EntryRepository interface {
	Upsert(habitID uint, date string, journal *string, replaceJournal bool) (models.Entry, error)
	FindByHabitAndDate(habitID uint, date string) (models.Entry, bool, error)
	UpdateJournal(habitID uint, date string, journal *string) (models.Entry, bool, error)
	ListByHabit(habitID uint) ([]models.Entry, error)
	DeleteByHabitAndDate(habitID uint, date string) (bool, error)
}

// EntryService owns the (habit, date) entry lifecycle: absent, logged,
// logged with journal. Every call is scoped to a habit owned by userID.
type EntryService struct {
	entries EntryRepository
	habits  HabitOwnershipReader
}

func NewEntryService(entries EntryRepository, habits HabitOwnershipReader) *EntryService {
	return &EntryService{
		entries: entries,
		habits:  habits,
	}
}

func ValidateEntryDate(day time.Time, today time.Time) error {
	if dayIndex(day) > dayIndex(today) {
		return ErrFutureDate
	}
	return nil
}

// LogEntry marks the habit done on day. Logging twice keeps a single entry;
// a nil journal keeps any existing text, a non-nil one overwrites it and a
// blank one clears it.
func (service *EntryService) LogEntry(userID uint, habitID uint, day time.Time, journal *string, today time.Time) (models.Entry, error) {
	if err := ValidateEntryDate(day, today); err != nil {
		return models.Entry{}, err
	}
	normalized, err := NormalizeJournal(journal)
	if err != nil {
		return models.Entry{}, err
	}
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return models.Entry{}, err
	}

	entry, err := service.entries.Upsert(habit.ID, FormatDate(day), normalized, journal != nil)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrEntryUpsertFailed, err)
	}
	return entry, nil
}

// GetEntry returns ErrEntryNotFound for a date that was never logged. A
// logged date without text has a nil Journal.
func (service *EntryService) GetEntry(userID uint, habitID uint, day time.Time) (models.Entry, error) {
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return models.Entry{}, err
	}

	entry, found, err := service.entries.FindByHabitAndDate(habit.ID, FormatDate(day))
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	if !found {
		return models.Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

// SetJournal never creates an entry. A nil journal clears the text.
func (service *EntryService) SetJournal(userID uint, habitID uint, day time.Time, journal *string) (models.Entry, error) {
	normalized, err := NormalizeJournal(journal)
	if err != nil {
		return models.Entry{}, err
	}
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return models.Entry{}, err
	}

	entry, found, err := service.entries.UpdateJournal(habit.ID, FormatDate(day), normalized)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %v", ErrJournalWriteFailed, err)
	}
	if !found {
		return models.Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

// ListEntries returns the habit's entries, most recent date first.
func (service *EntryService) ListEntries(userID uint, habitID uint) ([]models.Entry, error) {
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return nil, err
	}

	entries, err := service.entries.ListByHabit(habit.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	return entries, nil
}

func (service *EntryService) DeleteEntry(userID uint, habitID uint, day time.Time) error {
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return err
	}

	deleted, err := service.entries.DeleteByHabitAndDate(habit.ID, FormatDate(day))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEntryDeleteFailed, err)
	}
	if !deleted {
		return ErrEntryNotFound
	}
	return nil
}
