package system

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/julianstephens/tally/internal/habits"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, dbPath, out := setupTestContext(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatalf("debug db-path failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["path"] != dbPath || got["driver"] != "sqlite" {
		t.Errorf("db-path output = %v", got)
	}
}

func TestDebugDumpHabitCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := ctx.Habits.CreateHabit(ctx.Context(), habitInput("Read")); err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if _, err := ctx.Recorder.RecordCompletion(ctx.Context(), "1"); err != nil {
		t.Fatalf("RecordCompletion failed: %v", err)
	}

	if err := (&DebugDumpHabitCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatalf("dump-habit failed: %v", err)
	}

	var got struct {
		Day              string `json:"day"`
		CompletionsToday int    `json:"completions_today"`
		Habit            struct {
			Title            string `json:"title"`
			TotalCompletions int    `json:"total_completions"`
		} `json:"habit"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Day != ctx.Recorder.Today() || got.CompletionsToday != 1 || got.Habit.TotalCompletions != 1 || got.Habit.Title != "Read" {
		t.Errorf("dump-habit output = %+v", got)
	}
}

func TestDebugDumpHabitCmd_NotFound(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if err := (&DebugDumpHabitCmd{ID: "42"}).Run(ctx); !errors.Is(err, habits.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
