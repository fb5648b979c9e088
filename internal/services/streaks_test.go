package services

import (
	"math/rand"
	"testing"
	"time"

	"github.com/terraincognita07/streaky/internal/models"
)

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	value, err := ParseDate(raw)
	if err != nil {
		t.Fatalf("parse date %q: %v", raw, err)
	}
	return value
}

func mustDates(t *testing.T, raw ...string) []time.Time {
	t.Helper()
	dates := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		dates = append(dates, mustDate(t, value))
	}
	return dates
}

func TestComputeStreaksDaily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		dates       []string
		today       string
		wantCurrent int
		wantBest    int
	}{
		{name: "empty history", dates: nil, today: "2026-03-05", wantCurrent: 0, wantBest: 0},
		{name: "gap breaks run", dates: []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-05"}, today: "2026-03-05", wantCurrent: 1, wantBest: 3},
		{name: "run ending yesterday is still current", dates: []string{"2026-03-02", "2026-03-03", "2026-03-04"}, today: "2026-03-05", wantCurrent: 3, wantBest: 3},
		{name: "run ending two days ago is broken", dates: []string{"2026-03-01", "2026-03-02", "2026-03-03"}, today: "2026-03-05", wantCurrent: 0, wantBest: 3},
		{name: "duplicates collapse", dates: []string{"2026-03-04", "2026-03-04", "2026-03-05"}, today: "2026-03-05", wantCurrent: 2, wantBest: 2},
		{name: "unsorted input", dates: []string{"2026-03-05", "2026-03-03", "2026-03-04"}, today: "2026-03-05", wantCurrent: 3, wantBest: 3},
		{name: "month and year boundary", dates: []string{"2025-12-30", "2025-12-31", "2026-01-01"}, today: "2026-01-01", wantCurrent: 3, wantBest: 3},
		{name: "leap day", dates: []string{"2024-02-28", "2024-02-29", "2024-03-01"}, today: "2024-03-02", wantCurrent: 3, wantBest: 3},
		{name: "future dates do not raise current", dates: []string{"2026-03-05", "2026-03-06", "2026-03-07"}, today: "2026-03-05", wantCurrent: 1, wantBest: 3},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := ComputeStreaks(mustDates(t, testCase.dates...), models.GoalDaily, mustDate(t, testCase.today))
			if got.Current != testCase.wantCurrent || got.Best != testCase.wantBest {
				t.Fatalf("ComputeStreaks() = %+v, want current=%d best=%d", got, testCase.wantCurrent, testCase.wantBest)
			}
		})
	}
}

func TestComputeStreaksWeekly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		dates       []string
		today       string
		wantCurrent int
		wantBest    int
	}{
		// 2026-03-02 is a Monday.
		{name: "in-progress week keeps previous run", dates: []string{"2026-02-24", "2026-03-04"}, today: "2026-03-10", wantCurrent: 2, wantBest: 2},
		{name: "current week counts", dates: []string{"2026-02-24", "2026-03-04", "2026-03-09"}, today: "2026-03-10", wantCurrent: 3, wantBest: 3},
		{name: "elapsed empty week breaks run", dates: []string{"2026-02-24", "2026-03-04"}, today: "2026-03-16", wantCurrent: 0, wantBest: 2},
		{name: "many entries in one week count once", dates: []string{"2026-03-02", "2026-03-03", "2026-03-08"}, today: "2026-03-08", wantCurrent: 1, wantBest: 1},
		{name: "sunday then monday are consecutive weeks", dates: []string{"2026-03-08", "2026-03-09"}, today: "2026-03-09", wantCurrent: 2, wantBest: 2},
		{name: "iso year boundary", dates: []string{"2025-12-22", "2025-12-29", "2026-01-05"}, today: "2026-01-07", wantCurrent: 3, wantBest: 3},
		{name: "before epoch", dates: []string{"1969-12-22", "1969-12-29", "1970-01-05"}, today: "1970-01-06", wantCurrent: 3, wantBest: 3},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := ComputeStreaks(mustDates(t, testCase.dates...), models.GoalWeekly, mustDate(t, testCase.today))
			if got.Current != testCase.wantCurrent || got.Best != testCase.wantBest {
				t.Fatalf("ComputeStreaks() = %+v, want current=%d best=%d", got, testCase.wantCurrent, testCase.wantBest)
			}
		})
	}
}

// referenceDailyStreaks walks every calendar day between the extremes of the set.
func referenceDailyStreaks(dates map[string]bool, today time.Time) StreakSummary {
	summary := StreakSummary{}
	if len(dates) == 0 {
		return summary
	}

	earliest := today
	latest := today
	for raw := range dates {
		value, _ := time.Parse(models.DateLayout, raw)
		if value.Before(earliest) {
			earliest = value
		}
		if value.After(latest) {
			latest = value
		}
	}

	run := 0
	for cursor := earliest; !cursor.After(latest); cursor = cursor.AddDate(0, 0, 1) {
		if dates[cursor.Format(models.DateLayout)] {
			run++
		} else {
			run = 0
		}
		if run > summary.Best {
			summary.Best = run
		}
	}

	anchor := today
	if !dates[anchor.Format(models.DateLayout)] {
		anchor = today.AddDate(0, 0, -1)
	}
	for dates[anchor.Format(models.DateLayout)] {
		summary.Current++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return summary
}

func TestComputeStreaksDailyMatchesReference(t *testing.T) {
	t.Parallel()

	random := rand.New(rand.NewSource(20260301))
	today := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	for iteration := 0; iteration < 500; iteration++ {
		set := make(map[string]bool)
		dates := make([]time.Time, 0)
		count := random.Intn(40)
		for index := 0; index < count; index++ {
			value := today.AddDate(0, 0, random.Intn(60)-50)
			set[value.Format(models.DateLayout)] = true
			dates = append(dates, value)
		}
		random.Shuffle(len(dates), func(i, j int) { dates[i], dates[j] = dates[j], dates[i] })

		got := ComputeStreaks(dates, models.GoalDaily, today)
		want := referenceDailyStreaks(set, today)

		if got.Current > got.Best {
			t.Fatalf("current %d exceeds best %d for dates=%v", got.Current, got.Best, set)
		}
		if got != want {
			t.Fatalf("ComputeStreaks() = %+v, want %+v for dates=%v", got, want, set)
		}
	}
}
