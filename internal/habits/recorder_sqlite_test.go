package habits

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

func newSQLiteService(t *testing.T) (*Service, *Recorder) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "tally.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewService(store, fixedClock()), NewRecorder(store, fixedClock())
}

func TestRecorderAgainstSQLite(t *testing.T) {
	svc, rec := newSQLiteService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, HabitInput{Title: "Meditate", Frequency: constants.FrequencyDaily, CompletionsPerDay: 1})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	id := strconv.FormatInt(habit.ID, 10)

	first, err := rec.RecordCompletion(ctx, id)
	if err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}
	if !first.IsComplete || first.CompletionsToday != 1 || first.TotalCompletions != 1 {
		t.Errorf("first = %+v", first)
	}

	second, err := rec.RecordCompletion(ctx, id)
	if err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}
	if !second.IsMaxCompletions || second.TotalCompletions != 1 {
		t.Errorf("second = %+v", second)
	}

	list, err := svc.ListHabits(ctx)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(list) != 1 || list[0].CompletionsToday != 1 || list[0].Level != 1 {
		t.Errorf("ListHabits = %+v", list)
	}

	history, err := svc.History(ctx, testDay, testDay)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if entries := history.CompletionsByDate[testDay]; len(entries) != 1 || entries[0].Title != "Meditate" {
		t.Errorf("History = %+v", history.CompletionsByDate)
	}
}

func TestRecorderAgainstSQLiteConcurrent(t *testing.T) {
	svc, rec := newSQLiteService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, HabitInput{Title: "Journal", CompletionsPerDay: 5})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	id := strconv.FormatInt(habit.ID, 10)

	const callers = 8
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			_, err := rec.RecordCompletion(ctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}

	list, err := svc.ListHabits(ctx)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	got := list[0]
	if got.CompletionsToday < 1 || got.CompletionsToday > 5 {
		t.Errorf("CompletionsToday = %d, want between 1 and the target of 5", got.CompletionsToday)
	}
	if got.TotalCompletions != got.CompletionsToday {
		t.Errorf("TotalCompletions = %d, want one increment per stored completion (%d)", got.TotalCompletions, got.CompletionsToday)
	}
}

func TestRecorderAgainstSQLiteMultipleSlots(t *testing.T) {
	tests := []struct {
		name      string
		perDay    int
		calls     int
		wantToday int
		complete  bool
	}{
		{name: "target reached on third call", perDay: 3, calls: 3, wantToday: 3, complete: true},
		{name: "target is a ceiling", perDay: 3, calls: 5, wantToday: 3},
		{name: "high frequency keeps counting", perDay: 999, calls: 4, wantToday: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rec := newSQLiteService(t)
			ctx := context.Background()

			habit, err := svc.CreateHabit(ctx, HabitInput{Title: "Water", CompletionsPerDay: tt.perDay})
			if err != nil {
				t.Fatalf("CreateHabit failed: %v", err)
			}
			id := strconv.FormatInt(habit.ID, 10)

			var last models.CompletionResult
			for i := 1; i <= tt.calls; i++ {
				last, err = rec.RecordCompletion(ctx, id)
				if err != nil {
					t.Fatalf("call %d: RecordCompletion failed: %v", i, err)
				}
				if last.IsRepeatCompletion {
					t.Fatalf("call %d: sequential call reported a repeat: %+v", i, last)
				}
				if i == tt.perDay && !last.IsComplete {
					t.Errorf("call %d: want IsComplete once the target is met, got %+v", i, last)
				}
			}

			if last.CompletionsToday != tt.wantToday || last.TotalCompletions != tt.wantToday {
				t.Errorf("last = %+v, want %d today and in total", last, tt.wantToday)
			}
			if tt.complete && !last.IsComplete {
				t.Errorf("last = %+v, want IsComplete", last)
			}
		})
	}
}

func TestRemoveCompletionAgainstSQLite(t *testing.T) {
	svc, rec := newSQLiteService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, HabitInput{Title: "Stretch", CompletionsPerDay: 2})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	id := strconv.FormatInt(habit.ID, 10)

	for i := 0; i < 2; i++ {
		if _, err := rec.RecordCompletion(ctx, id); err != nil {
			t.Fatalf("RecordCompletion failed: %v", err)
		}
	}

	removed, err := svc.RemoveCompletion(ctx, id)
	if err != nil {
		t.Fatalf("RemoveCompletion failed: %v", err)
	}
	if removed.CompletionsToday != 1 || removed.TotalCompletions != 1 {
		t.Errorf("after remove = %+v, want 1 today and 1 total", removed)
	}

	// The freed slot can be recorded again the same day.
	again, err := rec.RecordCompletion(ctx, id)
	if err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}
	if !again.IsComplete || again.CompletionsToday != 2 || again.TotalCompletions != 2 {
		t.Errorf("re-record = %+v, want complete at 2/2 with total 2", again)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.RemoveCompletion(ctx, id); err != nil {
			t.Fatalf("RemoveCompletion %d failed: %v", i, err)
		}
	}
	if _, err := svc.RemoveCompletion(ctx, id); !errors.Is(err, ErrNoCompletion) {
		t.Errorf("RemoveCompletion with nothing recorded: err = %v, want ErrNoCompletion", err)
	}

	got, err := svc.GetHabit(ctx, id)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.TotalCompletions != 0 {
		t.Errorf("TotalCompletions = %d, want 0", got.TotalCompletions)
	}
}
