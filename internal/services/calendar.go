package services

import "time"

// MonthDay is one cell of a completion calendar.
type MonthDay struct {
	Date      time.Time
	Completed bool
}

// BuildMonthView returns one cell per day of the month, in order.
func BuildMonthView(dates []time.Time, year int, month time.Month) []MonthDay {
	if month < time.January || month > time.December {
		return []MonthDay{}
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return BuildWindowView(dates, first, last)
}

// BuildWindowView returns one cell per day in the inclusive range.
func BuildWindowView(dates []time.Time, start time.Time, end time.Time) []MonthDay {
	logged := make(map[int64]struct{}, len(dates))
	for _, date := range dates {
		logged[dayIndex(date)] = struct{}{}
	}

	first := dayIndex(start)
	last := dayIndex(end)
	if last < first {
		return []MonthDay{}
	}

	year, month, day := start.Date()
	cursor := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	days := make([]MonthDay, 0, last-first+1)
	for index := first; index <= last; index++ {
		_, completed := logged[index]
		days = append(days, MonthDay{Date: cursor, Completed: completed})
		cursor = cursor.AddDate(0, 0, 1)
	}
	return days
}
