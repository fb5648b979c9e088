package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/streaky/internal/models"
)

var (
	ErrInvalidHabitName    = newError(KindValidation, "name must be 1-100 characters")
	ErrInvalidGoalType     = newError(KindValidation, "goal_type must be daily or weekly")
	ErrInvalidReminderTime = newError(KindValidation, "reminder_time must be HH:MM")
	ErrJournalTooLong      = newError(KindValidation, "journal must be at most 2000 characters")
	ErrInvalidMonth        = newError(KindValidation, "month must be 1-12")
	ErrInvalidYear         = newError(KindValidation, "year must be 1-9999")
	ErrInvalidStatsRange   = newError(KindValidation, "range must be 7d or 30d")
)

const (
	maxHabitNameLength = 100
	maxJournalLength   = 2000
)

var reminderTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

var statsRangeDays = map[string]int{
	"7d":  7,
	"30d": 30,
}

// OptionalString distinguishes an absent field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

func NormalizeHabitName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > maxHabitNameLength {
		return "", ErrInvalidHabitName
	}
	return name, nil
}

func ParseGoalType(raw string) (models.GoalType, error) {
	goal := models.GoalType(strings.ToLower(strings.TrimSpace(raw)))
	if !goal.Valid() {
		return "", ErrInvalidGoalType
	}
	return goal, nil
}

// NormalizeReminderTime accepts nil (no reminder) or a zero-padded HH:MM.
func NormalizeReminderTime(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if !reminderTimePattern.MatchString(value) {
		return nil, ErrInvalidReminderTime
	}
	return &value, nil
}

// NormalizeJournal maps blank text to nil and rejects oversized text.
func NormalizeJournal(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(*raw) > maxJournalLength {
		return nil, ErrJournalTooLong
	}
	value := *raw
	return &value, nil
}

func ParseStatsRange(raw string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		key = "7d"
	}
	days, ok := statsRangeDays[key]
	if !ok {
		return 0, ErrInvalidStatsRange
	}
	return days, nil
}

func ValidateMonth(year int, month int) error {
	if year < 1 || year > 9999 {
		return ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}
