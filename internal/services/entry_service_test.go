package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/streaky/internal/models"
)

func newEntryServiceForTest() (*EntryService, *habitRepositoryStub, *entryRepositoryStub) {
	entries := newEntryRepositoryStub()
	habits := newHabitRepositoryStub(entries)
	return NewEntryService(entries, habits), habits, entries
}

func TestLogEntryIsIdempotent(t *testing.T) {
	service, habits, _ := newEntryServiceForTest()
	habit := habits.seed(1, "Read", models.GoalDaily)
	today := mustDate(t, "2026-03-05")

	first, err := service.LogEntry(1, habit.ID, mustDate(t, "2026-03-05"), nil, today)
	if err != nil {
		t.Fatalf("first LogEntry returned error: %v", err)
	}
	second, err := service.LogEntry(1, habit.ID, mustDate(t, "2026-03-05"), nil, today)
	if err != nil {
		t.Fatalf("second LogEntry returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected repeat log to reuse entry %d, got %d", first.ID, second.ID)
	}

	entries, err := service.ListEntries(1, habit.ID)
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry after repeat log, got %d", len(entries))
	}
}

func TestLogEntryJournalOverwriteRules(t *testing.T) {
	service, habits, _ := newEntryServiceForTest()
	habit := habits.seed(1, "Read", models.GoalDaily)
	today := mustDate(t, "2026-03-05")
	day := mustDate(t, "2026-03-04")

	if _, err := service.LogEntry(1, habit.ID, day, stringPointer("chapter one"), today); err != nil {
		t.Fatalf("LogEntry with journal returned error: %v", err)
	}

	kept, err := service.LogEntry(1, habit.ID, day, nil, today)
	if err != nil {
		t.Fatalf("LogEntry without journal returned error: %v", err)
	}
	if kept.Journal == nil || *kept.Journal != "chapter one" {
		t.Fatalf("expected journal to be kept, got %v", kept.Journal)
	}

	blank, err := service.LogEntry(1, habit.ID, day, stringPointer("   "), today)
	if err != nil {
		t.Fatalf("LogEntry with blank journal returned error: %v", err)
	}
	if blank.Journal != nil {
		t.Fatalf("expected blank journal to clear text, got %q", *blank.Journal)
	}
	if stored, err := service.GetEntry(1, habit.ID, day); err != nil || stored.Journal != nil {
		t.Fatalf("expected cleared journal to be stored, got %+v, %v", stored, err)
	}

	overwritten, err := service.LogEntry(1, habit.ID, day, stringPointer("chapter two"), today)
	if err != nil {
		t.Fatalf("LogEntry overwrite returned error: %v", err)
	}
	if overwritten.Journal == nil || *overwritten.Journal != "chapter two" {
		t.Fatalf("expected journal overwrite, got %v", overwritten.Journal)
	}
}

func TestLogEntryValidation(t *testing.T) {
	service, habits, _ := newEntryServiceForTest()
	habit := habits.seed(1, "Read", models.GoalDaily)
	today := mustDate(t, "2026-03-05")

	if _, err := service.LogEntry(1, habit.ID, mustDate(t, "2026-03-06"), nil, today); !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}

	tooLong := make([]rune, maxJournalLength+1)
	for index := range tooLong {
		tooLong[index] = 'a'
	}
	if _, err := service.LogEntry(1, habit.ID, today, stringPointer(string(tooLong)), today); !errors.Is(err, ErrJournalTooLong) {
		t.Fatalf("expected ErrJournalTooLong, got %v", err)
	}

	if _, err := service.LogEntry(2, habit.ID, today, nil, today); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound for another user's habit, got %v", err)
	}
	if _, err := service.LogEntry(1, 999, today, nil, today); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound for unknown habit, got %v", err)
	}
}

func TestLogEntryStorageFailureIsInternal(t *testing.T) {
	service, habits, entries := newEntryServiceForTest()
	habit := habits.seed(1, "Read", models.GoalDaily)
	entries.upsertErr = errors.New("disk full")
	today := mustDate(t, "2026-03-05")

	_, err := service.LogEntry(1, habit.ID, today, nil, today)
	if !errors.Is(err, ErrEntryUpsertFailed) {
		t.Fatalf("expected ErrEntryUpsertFailed, got %v", err)
	}
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal kind, got %q", KindOf(err))
	}
}

func TestGetEntryDistinguishesUnloggedFromEmptyJournal(t *testing.T) {
	service, habits, _ := newEntryServiceForTest()
	habit := habits.seed(1, "Read", models.GoalDaily)
	today := mustDate(t, "2026-03-05")

	if _, err := service.GetEntry(1, habit.ID, today); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for unlogged date, got %v", err)
	}

	if _, err := service.LogEntry(1, habit.ID, today, nil, today); err != nil {
		t.Fatalf("LogEntry returned error: %v", err)
	}
	entry, err := service.GetEntry(1, habit.ID, today)
	if err != nil {
		t.Fatalf("expected logged entry, got %v", err)
	}
	if entry.Journal != nil {
		t.Fatalf("expected nil journal for entry without text, got %q", *entry.Journal)
	}
}

func TestSetJournalRequiresExistingEntry(t *testing.T) {
	service, habits, entries := newEntryServiceForTest()
	habit := habits.seed(1, "Read", models.GoalDaily)
	today := mustDate(t, "2026-03-05")

	if _, err := service.SetJournal(1, habit.ID, today, stringPointer("note")); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if len(entries.entries) != 0 {
		t.Fatalf("expected SetJournal to never create entries, got %d", len(entries.entries))
	}

	if _, err := service.LogEntry(1, habit.ID, today, nil, today); err != nil {
		t.Fatalf("LogEntry returned error: %v", err)
	}
	updated, err := service.SetJournal(1, habit.ID, today, stringPointer("note"))
	if err != nil {
		t.Fatalf("SetJournal returned error: %v", err)
	}
	if updated.Journal == nil || *updated.Journal != "note" {
		t.Fatalf("expected journal note, got %v", updated.Journal)
	}

	cleared, err := service.SetJournal(1, habit.ID, today, nil)
	if err != nil {
		t.Fatalf("SetJournal clear returned error: %v", err)
	}
	if cleared.Journal != nil {
		t.Fatalf("expected cleared journal, got %q", *cleared.Journal)
	}

	if _, err := service.GetEntry(1, habit.ID, today); err != nil {
		t.Fatalf("expected entry to remain logged after clearing journal, got %v", err)
	}
}

func TestUpsertsDoNotInterfereAcrossHabitsAndDates(t *testing.T) {
	service, habits, _ := newEntryServiceForTest()
	first := habits.seed(1, "Read", models.GoalDaily)
	second := habits.seed(1, "Run", models.GoalDaily)
	today := mustDate(t, "2026-03-05")
	yesterday := mustDate(t, "2026-03-04")

	if _, err := service.LogEntry(1, second.ID, today, stringPointer("5k"), today); err != nil {
		t.Fatalf("LogEntry returned error: %v", err)
	}
	if _, err := service.LogEntry(1, first.ID, yesterday, stringPointer("old"), today); err != nil {
		t.Fatalf("LogEntry returned error: %v", err)
	}
	if _, err := service.LogEntry(1, first.ID, today, stringPointer("new"), today); err != nil {
		t.Fatalf("LogEntry returned error: %v", err)
	}

	other, err := service.GetEntry(1, second.ID, today)
	if err != nil || other.Journal == nil || *other.Journal != "5k" {
		t.Fatalf("expected second habit untouched, got %+v err=%v", other, err)
	}
	previous, err := service.GetEntry(1, first.ID, yesterday)
	if err != nil || previous.Journal == nil || *previous.Journal != "old" {
		t.Fatalf("expected previous date untouched, got %+v err=%v", previous, err)
	}
}

func TestListEntriesMostRecentFirst(t *testing.T) {
	service, habits, _ := newEntryServiceForTest()
	habit := habits.seed(1, "Read", models.GoalDaily)
	today := mustDate(t, "2026-03-05")

	for _, raw := range []string{"2026-03-01", "2026-03-05", "2026-03-03"} {
		if _, err := service.LogEntry(1, habit.ID, mustDate(t, raw), nil, today); err != nil {
			t.Fatalf("LogEntry(%s) returned error: %v", raw, err)
		}
	}

	entries, err := service.ListEntries(1, habit.ID)
	if err != nil {
		t.Fatalf("ListEntries returned error: %v", err)
	}
	got := []string{entries[0].Date, entries[1].Date, entries[2].Date}
	want := []string{"2026-03-05", "2026-03-03", "2026-03-01"}
	for index := range want {
		if got[index] != want[index] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestDeleteEntry(t *testing.T) {
	service, habits, _ := newEntryServiceForTest()
	habit := habits.seed(1, "Read", models.GoalDaily)
	today := mustDate(t, "2026-03-05")

	if err := service.DeleteEntry(1, habit.ID, today); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound for unlogged date, got %v", err)
	}
	if _, err := service.LogEntry(1, habit.ID, today, nil, today); err != nil {
		t.Fatalf("LogEntry returned error: %v", err)
	}
	if err := service.DeleteEntry(1, habit.ID, today); err != nil {
		t.Fatalf("DeleteEntry returned error: %v", err)
	}
	if _, err := service.GetEntry(1, habit.ID, today); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected entry gone after delete, got %v", err)
	}
}
