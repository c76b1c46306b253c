package system

import (
	"strings"
	"testing"

	"github.com/julianstephens/tally/internal/habits"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

func habitInput(title string) habits.HabitInput {
	return habits.HabitInput{Title: title, CompletionsPerDay: 1}
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
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

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on healthy database: %v\n%s", err, out.String())
	}
	for _, want := range []string{
		"✓ Database reachable: OK",
		"✓ Schema version: OK",
		"✓ Clock/timezone: OK",
		"✓ Duplicate completions: OK",
		"✓ Lifetime totals: OK",
		"⚠ Backups present: WARNING",
		"All diagnostics passed!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, _, out := setupTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail when the database does not exist")
	}
	for _, want := range []string{
		"❌ Database reachable: FAIL",
		"⊘ Schema version: SKIPPED",
		"✓ Clock/timezone: OK",
		"⊘ Lifetime totals: SKIPPED",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestDoctorCmd_UndercountedTotals(t *testing.T) {
	ctx, _, out := setupTestContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	h, err := ctx.Habits.CreateHabit(ctx.Context(), habitInput("Read"))
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	// Bypass the recorder so the lifetime counter is not incremented.
	if err := ctx.Store.InsertCompletion(ctx.Context(), h.ID, "2024-01-01", 1); err != nil {
		t.Fatalf("InsertCompletion failed: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should report undercounted totals")
	}
	if !strings.Contains(out.String(), "❌ Lifetime totals: FAIL") {
		t.Errorf("expected lifetime totals failure:\n%s", out.String())
	}
}

func TestDoctorCmd_DuplicateCompletions(t *testing.T) {
	ctx, _, out := setupTestContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	h, err := ctx.Habits.CreateHabit(ctx.Context(), habitInput("Read"))
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	// Simulate a database that lost its unique index.
	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec(`DROP INDEX idx_habit_completions_unique_slot`); err != nil {
		t.Fatalf("failed to drop index: %v", err)
	}
	for range 2 {
		if err := ctx.Store.InsertCompletion(ctx.Context(), h.ID, "2024-01-01", 1); err != nil {
			t.Fatalf("InsertCompletion failed: %v", err)
		}
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should report duplicate completions")
	}
	if !strings.Contains(out.String(), "found 1 habit+day+slot combinations") {
		t.Errorf("expected duplicate count in output:\n%s", out.String())
	}
}
