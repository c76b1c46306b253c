package habits

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	habitsvc "github.com/julianstephens/tally/internal/habits"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	ctx := cli.NewContext(store, time.UTC)
	ctx.Out = &out
	return ctx, &out
}

func addHabit(t *testing.T, ctx *cli.Context, title string, perDay int) models.Habit {
	t.Helper()
	h, err := ctx.Habits.CreateHabit(ctx.Context(), habitsvc.HabitInput{Title: title, CompletionsPerDay: perDay})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return h
}

func TestHabitAddCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	cmd := &HabitAddCmd{Title: "Read", Frequency: "daily", PerDay: 2}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added habit 1: Read") {
		t.Errorf("unexpected output: %q", out.String())
	}

	list, err := ctx.Habits.ListHabits(ctx.Context())
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(list) != 1 || list[0].CompletionsPerDay != 2 {
		t.Errorf("ListHabits = %+v", list)
	}
}

func TestHabitAddCmdUsesFormWithoutTitle(t *testing.T) {
	ctx, _ := setupTestContext(t)

	orig := runHabitForm
	t.Cleanup(func() { runHabitForm = orig })
	runHabitForm = func(in habitsvc.HabitInput) (habitsvc.HabitInput, error) {
		in.Title = "From form"
		in.Frequency = constants.FrequencyWeekly
		return in, nil
	}

	if err := (&HabitAddCmd{Frequency: "daily", PerDay: 1}).Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	h, err := ctx.Habits.GetHabit(ctx.Context(), "1")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if h.Title != "From form" || h.Frequency != constants.FrequencyWeekly {
		t.Errorf("habit = %+v", h)
	}
}

func TestHabitAddCmdFormAborted(t *testing.T) {
	ctx, _ := setupTestContext(t)

	orig := runHabitForm
	t.Cleanup(func() { runHabitForm = orig })
	aborted := errors.New("user aborted")
	runHabitForm = func(habitsvc.HabitInput) (habitsvc.HabitInput, error) {
		return habitsvc.HabitInput{}, aborted
	}

	if err := (&HabitAddCmd{}).Run(ctx); !errors.Is(err, aborted) {
		t.Errorf("error = %v, want form error", err)
	}
}

func TestHabitCompleteCmdJSON(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, "Meditate", 1)

	if err := (&HabitCompleteCmd{ID: "1", JSON: true}).Run(ctx); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	var got models.CompletionResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	want := models.CompletionResult{CompletionsToday: 1, TotalCompletions: 1, Level: 1, IsComplete: true}
	if got != want {
		t.Errorf("result = %+v, want %+v", got, want)
	}

	out.Reset()
	if err := (&HabitCompleteCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("second complete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Meditate: already done for today") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestHabitCompleteCmdErrors(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&HabitCompleteCmd{ID: "01"}).Run(ctx); !errors.Is(err, habitsvc.ErrInvalidIdentifier) {
		t.Errorf("error = %v, want ErrInvalidIdentifier", err)
	}
	if err := (&HabitCompleteCmd{ID: "3"}).Run(ctx); !errors.Is(err, habitsvc.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHabitCompleteCmdMultipleSlots(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, "Water", 2)

	cmd := &HabitCompleteCmd{ID: "1"}
	for i := 0; i < 2; i++ {
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("complete %d failed: %v", i+1, err)
		}
	}
	if !strings.Contains(out.String(), "Water: recorded (1 today, level 1)") ||
		!strings.Contains(out.String(), "Water: done for today! (2 today, level 2)") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestHabitUncompleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, "Meditate", 1)

	if err := (&HabitCompleteCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	out.Reset()

	if err := (&HabitUncompleteCmd{ID: "1", JSON: true}).Run(ctx); err != nil {
		t.Fatalf("uncomplete failed: %v", err)
	}
	var got models.CompletionResult
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if want := (models.CompletionResult{}); got != want {
		t.Errorf("result = %+v, want zero counts", got)
	}

	// The day is open again.
	out.Reset()
	if err := (&HabitCompleteCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("complete after uncomplete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Meditate: done for today! (1 today, level 1)") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&HabitUncompleteCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("uncomplete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Meditate: completion removed (0 today, level 0)") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&HabitUncompleteCmd{ID: "1"}).Run(ctx); !errors.Is(err, habitsvc.ErrNoCompletion) {
		t.Errorf("error = %v, want ErrNoCompletion", err)
	}
	if err := (&HabitUncompleteCmd{ID: "9"}).Run(ctx); !errors.Is(err, habitsvc.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHabitListCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No habits found") {
		t.Errorf("unexpected empty output: %q", out.String())
	}

	addHabit(t, ctx, "Stretch", 2)
	out.Reset()
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"Stretch", "0/2", "pending"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := (&HabitListCmd{JSON: true}).Run(ctx); err != nil {
		t.Fatalf("list --json failed: %v", err)
	}
	var summaries []models.HabitSummary
	if err := json.Unmarshal(out.Bytes(), &summaries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Title != "Stretch" {
		t.Errorf("summaries = %+v", summaries)
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, _ := setupTestContext(t)
	addHabit(t, ctx, "Run", 1)

	if err := (&HabitEditCmd{ID: "1", PerDay: 3}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	h, err := ctx.Habits.GetHabit(ctx.Context(), "1")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if h.Title != "Run" || h.CompletionsPerDay != 3 {
		t.Errorf("habit = %+v, want title kept and 3/day", h)
	}

	if err := (&HabitEditCmd{ID: "1", Frequency: "yearly"}).Run(ctx); !errors.Is(err, habitsvc.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, "Floss", 1)

	orig := runConfirm
	t.Cleanup(func() { runConfirm = orig })

	runConfirm = func(string) (bool, error) { return false, nil }
	if err := (&HabitDeleteCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled") {
		t.Errorf("expected cancellation, got %q", out.String())
	}
	if _, err := ctx.Habits.GetHabit(ctx.Context(), "1"); err != nil {
		t.Fatalf("habit should survive a declined confirmation: %v", err)
	}

	runConfirm = func(string) (bool, error) {
		t.Fatal("confirmation should be skipped with --yes")
		return false, nil
	}
	if err := (&HabitDeleteCmd{ID: "1", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Habits.GetHabit(ctx.Context(), "1"); !errors.Is(err, habitsvc.ErrNotFound) {
		t.Errorf("GetHabit after delete error = %v, want ErrNotFound", err)
	}
}

func TestHabitHistoryCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	addHabit(t, ctx, "Journal", 1)
	if _, err := ctx.Recorder.RecordCompletion(ctx.Context(), "1"); err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}
	today := ctx.Recorder.Today()

	if err := (&HabitHistoryCmd{From: today, To: today}).Run(ctx); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	for _, want := range []string{today, "Journal (1/1)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("history output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := (&HabitHistoryCmd{From: today, To: today, JSON: true}).Run(ctx); err != nil {
		t.Fatalf("history --json failed: %v", err)
	}
	var history models.History
	if err := json.Unmarshal(out.Bytes(), &history); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(history.CompletionsByDate[today]) != 1 {
		t.Errorf("history = %+v", history)
	}

	if err := (&HabitHistoryCmd{From: "2024-02-02", To: "2024-02-01"}).Run(ctx); !errors.Is(err, habitsvc.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}
