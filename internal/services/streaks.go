package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/streaky/internal/models"
)

type StreakSummary struct {
	Current int
	Best    int
}

// ComputeStreaks derives the current and best run of consecutive periods
// (days, or ISO weeks for weekly goals) covered by dates.
//
// The current run is the one containing today's period or ending in the
// period just before it, so an unfinished day or week never breaks a streak.
// Periods after today only count towards Best.
func ComputeStreaks(dates []time.Time, goal models.GoalType, today time.Time) StreakSummary {
	indexOf := periodIndexer(goal)
	periods := distinctSortedPeriods(dates, indexOf)
	todayPeriod := indexOf(today)

	summary := StreakSummary{}
	run := 0
	for position, period := range periods {
		if position > 0 && period == periods[position-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > summary.Best {
			summary.Best = run
		}
		if period == todayPeriod || period == todayPeriod-1 {
			summary.Current = run
		}
	}
	return summary
}

func periodIndexer(goal models.GoalType) func(time.Time) int64 {
	if goal == models.GoalWeekly {
		return isoWeekIndex
	}
	return dayIndex
}

func distinctSortedPeriods(dates []time.Time, indexOf func(time.Time) int64) []int64 {
	seen := make(map[int64]struct{}, len(dates))
	periods := make([]int64, 0, len(dates))
	for _, date := range dates {
		period := indexOf(date)
		if _, exists := seen[period]; exists {
			continue
		}
		seen[period] = struct{}{}
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i] < periods[j]
	})
	return periods
}
