package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/streaky/internal/models"
	"gorm.io/gorm"
)

var (
	ErrHabitNotFound     = newError(KindNotFound, "habit not found")
	ErrHabitNameExists   = newError(KindConflict, "habit with this name already exists")
	ErrHabitLoadFailed   = newError(KindInternal, "load habit failed")
	ErrHabitCreateFailed = newError(KindInternal, "create habit failed")
	ErrHabitUpdateFailed = newError(KindInternal, "update habit failed")
	ErrHabitDeleteFailed = newError(KindInternal, "delete habit failed")
	ErrEntryLoadFailed   = newError(KindInternal, "load entries failed")
)

type HabitOwnershipReader interface {
	FindByIDForUser(habitID uint, userID uint) (models.Habit, error)
}

type HabitRepository interface {
	HabitOwnershipReader
	ListByUser(userID uint, categoryID *uint) ([]models.Habit, error)
	ExistsByUserAndName(userID uint, name string, excludeID uint) (bool, error)
	Create(habit *models.Habit) error
	UpdateByID(habitID uint, updates map[string]any) error
	DeleteWithRelatedData(habitID uint) error
}

type HabitEntryReader interface {
	ListDatesByHabit(habitID uint) ([]string, error)
	ListDatesByHabitRange(habitID uint, from string, to string) ([]string, error)
	ListDatesByHabits(habitIDs []uint) (map[uint][]string, error)
}

type HabitInput struct {
	Name         string
	GoalType     string
	ReminderTime *string
}

// HabitUpdate leaves nil fields and an unset ReminderTime untouched.
type HabitUpdate struct {
	Name         *string
	GoalType     *string
	ReminderTime OptionalString
}

type HabitView struct {
	Habit  models.Habit
	Streak StreakSummary
}

type HabitStats struct {
	HabitID uint
	Streak  StreakSummary
	Days    []MonthDay
}

type HabitService struct {
	habits  HabitRepository
	entries HabitEntryReader
}

func NewHabitService(habits HabitRepository, entries HabitEntryReader) *HabitService {
	return &HabitService{
		habits:  habits,
		entries: entries,
	}
}

func findOwnedHabit(habits HabitOwnershipReader, userID uint, habitID uint) (models.Habit, error) {
	habit, err := habits.FindByIDForUser(habitID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Habit{}, ErrHabitNotFound
		}
		return models.Habit{}, fmt.Errorf("%w: %v", ErrHabitLoadFailed, err)
	}
	return habit, nil
}

func (service *HabitService) Create(userID uint, input HabitInput) (HabitView, error) {
	name, err := NormalizeHabitName(input.Name)
	if err != nil {
		return HabitView{}, err
	}
	goal, err := ParseGoalType(input.GoalType)
	if err != nil {
		return HabitView{}, err
	}
	reminder, err := NormalizeReminderTime(input.ReminderTime)
	if err != nil {
		return HabitView{}, err
	}

	exists, err := service.habits.ExistsByUserAndName(userID, name, 0)
	if err != nil {
		return HabitView{}, fmt.Errorf("%w: %v", ErrHabitLoadFailed, err)
	}
	if exists {
		return HabitView{}, ErrHabitNameExists
	}

	habit := models.Habit{
		UserID:       userID,
		Name:         name,
		GoalType:     goal,
		ReminderTime: reminder,
		Categories:   []models.Category{},
	}
	if err := service.habits.Create(&habit); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return HabitView{}, ErrHabitNameExists
		}
		return HabitView{}, fmt.Errorf("%w: %v", ErrHabitCreateFailed, err)
	}
	return HabitView{Habit: habit}, nil
}

func (service *HabitService) List(userID uint, categoryID *uint, today time.Time) ([]HabitView, error) {
	habits, err := service.habits.ListByUser(userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHabitLoadFailed, err)
	}

	habitIDs := make([]uint, 0, len(habits))
	for _, habit := range habits {
		habitIDs = append(habitIDs, habit.ID)
	}
	datesByHabit, err := service.entries.ListDatesByHabits(habitIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}

	views := make([]HabitView, 0, len(habits))
	for _, habit := range habits {
		dates, err := ParseDates(datesByHabit[habit.ID])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
		}
		views = append(views, HabitView{
			Habit:  habit,
			Streak: ComputeStreaks(dates, habit.GoalType, today),
		})
	}
	return views, nil
}

func (service *HabitService) Get(userID uint, habitID uint, today time.Time) (HabitView, error) {
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return HabitView{}, err
	}
	return service.withStreak(habit, today)
}

func (service *HabitService) withStreak(habit models.Habit, today time.Time) (HabitView, error) {
	rawDates, err := service.entries.ListDatesByHabit(habit.ID)
	if err != nil {
		return HabitView{}, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	dates, err := ParseDates(rawDates)
	if err != nil {
		return HabitView{}, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	return HabitView{
		Habit:  habit,
		Streak: ComputeStreaks(dates, habit.GoalType, today),
	}, nil
}

func (service *HabitService) Update(userID uint, habitID uint, update HabitUpdate, today time.Time) (HabitView, error) {
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return HabitView{}, err
	}

	updates := map[string]any{}
	if update.Name != nil {
		name, err := NormalizeHabitName(*update.Name)
		if err != nil {
			return HabitView{}, err
		}
		if name != habit.Name {
			exists, err := service.habits.ExistsByUserAndName(userID, name, habit.ID)
			if err != nil {
				return HabitView{}, fmt.Errorf("%w: %v", ErrHabitLoadFailed, err)
			}
			if exists {
				return HabitView{}, ErrHabitNameExists
			}
		}
		updates["name"] = name
		habit.Name = name
	}
	if update.GoalType != nil {
		goal, err := ParseGoalType(*update.GoalType)
		if err != nil {
			return HabitView{}, err
		}
		updates["goal_type"] = goal
		habit.GoalType = goal
	}
	if update.ReminderTime.Set {
		reminder, err := NormalizeReminderTime(update.ReminderTime.Value)
		if err != nil {
			return HabitView{}, err
		}
		updates["reminder_time"] = reminder
		habit.ReminderTime = reminder
	}

	if len(updates) > 0 {
		if err := service.habits.UpdateByID(habit.ID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return HabitView{}, ErrHabitNameExists
			}
			return HabitView{}, fmt.Errorf("%w: %v", ErrHabitUpdateFailed, err)
		}
	}
	return service.withStreak(habit, today)
}

func (service *HabitService) Delete(userID uint, habitID uint) error {
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return err
	}
	if err := service.habits.DeleteWithRelatedData(habit.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrHabitDeleteFailed, err)
	}
	return nil
}

func (service *HabitService) MonthView(userID uint, habitID uint, year int, month int) ([]MonthDay, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	rawDates, err := service.entries.ListDatesByHabitRange(habit.ID, FormatDate(first), FormatDate(last))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	dates, err := ParseDates(rawDates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	return BuildMonthView(dates, year, time.Month(month)), nil
}

// Stats reports streaks over the full history and completion for the last
// days ending today.
func (service *HabitService) Stats(userID uint, habitID uint, days int, today time.Time) (HabitStats, error) {
	if days <= 0 {
		return HabitStats{}, ErrInvalidStatsRange
	}
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return HabitStats{}, err
	}

	rawDates, err := service.entries.ListDatesByHabit(habit.ID)
	if err != nil {
		return HabitStats{}, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}
	dates, err := ParseDates(rawDates)
	if err != nil {
		return HabitStats{}, fmt.Errorf("%w: %v", ErrEntryLoadFailed, err)
	}

	start := today.AddDate(0, 0, -(days - 1))
	return HabitStats{
		HabitID: habit.ID,
		Streak:  ComputeStreaks(dates, habit.GoalType, today),
		Days:    BuildWindowView(dates, start, today),
	}, nil
}
