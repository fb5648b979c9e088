package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfFollowsWrappedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantKind    ErrorKind
		wantMessage string
	}{
		{name: "validation", err: ErrInvalidGoalType, wantKind: KindValidation, wantMessage: "goal_type must be daily or weekly"},
		{name: "wrapped internal", err: fmt.Errorf("%w: %v", ErrEntryUpsertFailed, errors.New("disk I/O error")), wantKind: KindInternal, wantMessage: ErrEntryUpsertFailed.Message},
		{name: "not found", err: fmt.Errorf("lookup: %w", ErrHabitNotFound), wantKind: KindNotFound, wantMessage: "habit not found"},
		{name: "foreign", err: errors.New("boom"), wantKind: KindInternal, wantMessage: "internal error"},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(testCase.err); got != testCase.wantKind {
				t.Fatalf("expected kind %q, got %q", testCase.wantKind, got)
			}
			if got := PublicMessage(testCase.err); got != testCase.wantMessage {
				t.Fatalf("expected message %q, got %q", testCase.wantMessage, got)
			}
		})
	}

	if KindOf(nil) != "" {
		t.Fatal("expected empty kind for nil error")
	}
}

func TestBusinessMetricsCountsToday(t *testing.T) {
	entries := newEntryRepositoryStub()
	habits := newHabitRepositoryStub(entries)
	habit := habits.seed(1, "Read", "daily")
	for _, date := range []string{"2026-03-04", "2026-03-05"} {
		if _, err := entries.Upsert(habit.ID, date, nil, false); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}

	metrics, err := NewMonitoringService(habits, entries).BusinessMetrics(mustDate(t, "2026-03-05"))
	if err != nil {
		t.Fatalf("BusinessMetrics returned error: %v", err)
	}
	if metrics != (BusinessMetrics{TotalHabits: 1, TotalEntries: 2, EntriesToday: 1}) {
		t.Fatalf("unexpected metrics %+v", metrics)
	}
}
