package api

import (
	"github.com/terraincognita07/streaky/internal/models"
	"github.com/terraincognita07/streaky/internal/services"
)

type categoryResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type habitResponse struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	GoalType     models.GoalType    `json:"goal_type"`
	ReminderTime *string            `json:"reminder_time,omitempty"`
	Streak       int                `json:"streak"`
	BestStreak   int                `json:"best_streak"`
	Categories   []categoryResponse `json:"categories,omitempty"`
}

type entryResponse struct {
	ID      uint    `json:"id"`
	Date    string  `json:"date"`
	Journal *string `json:"journal"`
}

type calendarDayResponse struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type calendarResponse struct {
	HabitID uint                  `json:"habit_id"`
	Year    int                   `json:"year"`
	Month   int                   `json:"month"`
	Days    []calendarDayResponse `json:"days"`
}

type statsDayResponse struct {
	Date string `json:"date"`
	Done bool   `json:"done"`
}

type statsResponse struct {
	HabitID       uint               `json:"habit_id"`
	CurrentStreak int                `json:"current_streak"`
	BestStreak    int                `json:"best_streak"`
	Days          []statsDayResponse `json:"days"`
}

func newCategoryResponse(category models.Category) categoryResponse {
	return categoryResponse{
		ID:    category.ID,
		Name:  category.Name,
		Color: category.Color,
	}
}

func newCategoryResponses(categories []models.Category) []categoryResponse {
	responses := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, newCategoryResponse(category))
	}
	return responses
}

func newHabitResponse(view services.HabitView) habitResponse {
	response := habitResponse{
		ID:           view.Habit.ID,
		Name:         view.Habit.Name,
		GoalType:     view.Habit.GoalType,
		ReminderTime: view.Habit.ReminderTime,
		Streak:       view.Streak.Current,
		BestStreak:   view.Streak.Best,
	}
	if len(view.Habit.Categories) > 0 {
		response.Categories = newCategoryResponses(view.Habit.Categories)
	}
	return response
}

func newHabitResponses(views []services.HabitView) []habitResponse {
	responses := make([]habitResponse, 0, len(views))
	for _, view := range views {
		responses = append(responses, newHabitResponse(view))
	}
	return responses
}

func newEntryResponse(entry models.Entry) entryResponse {
	return entryResponse{
		ID:      entry.ID,
		Date:    entry.Date,
		Journal: entry.Journal,
	}
}

func newEntryResponses(entries []models.Entry) []entryResponse {
	responses := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, newEntryResponse(entry))
	}
	return responses
}

func newCalendarResponse(habitID uint, year int, month int, days []services.MonthDay) calendarResponse {
	response := calendarResponse{
		HabitID: habitID,
		Year:    year,
		Month:   month,
		Days:    make([]calendarDayResponse, 0, len(days)),
	}
	for _, day := range days {
		response.Days = append(response.Days, calendarDayResponse{
			Date:      services.FormatDate(day.Date),
			Completed: day.Completed,
		})
	}
	return response
}

func newStatsResponse(stats services.HabitStats) statsResponse {
	response := statsResponse{
		HabitID:       stats.HabitID,
		CurrentStreak: stats.Streak.Current,
		BestStreak:    stats.Streak.Best,
		Days:          make([]statsDayResponse, 0, len(stats.Days)),
	}
	for _, day := range stats.Days {
		response.Days = append(response.Days, statsDayResponse{
			Date: services.FormatDate(day.Date),
			Done: day.Completed,
		})
	}
	return response
}
