package storage

import (
	"context"

	"github.com/julianstephens/tally/internal/models"
)

// Provider is the persistence collaborator shared by the recorder, the habit
// CRUD service and the CLI. Implementations live in the postgres and sqlite
// subpackages.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Ping(ctx context.Context) error

	// Habits
	CreateHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	// GetHabit returns ErrNotFound when no habit has the given id.
	GetHabit(ctx context.Context, id int64) (models.Habit, error)
	// UpdateHabit rewrites title, frequency and completions_per_day. The
	// lifetime counter is never touched. Returns ErrNotFound for unknown ids.
	UpdateHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	// DeleteHabit removes the habit and its completions.
	DeleteHabit(ctx context.Context, id int64) error
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	// GetHabitSummaries returns every habit with its non-deleted completion
	// count for day, newest habit first.
	GetHabitSummaries(ctx context.Context, day string) ([]models.HabitSummary, error)

	// Completions
	CountCompletions(ctx context.Context, habitID int64, day string) (int, error)
	// InsertCompletion stores completion slot number for (habitID, day). It
	// returns ErrUniqueViolation when a non-deleted completion already holds
	// that slot.
	InsertCompletion(ctx context.Context, habitID int64, day string, number int) error
	// RemoveCompletion soft-deletes the highest-numbered non-deleted
	// completion for (habitID, day) and returns it. Returns ErrNotFound when
	// there is none.
	RemoveCompletion(ctx context.Context, habitID int64, day string) (models.HabitCompletion, error)
	// IncrementTotalCompletions adds one to the lifetime counter in a single
	// statement and returns the new value.
	IncrementTotalCompletions(ctx context.Context, habitID int64) (int, error)
	// DecrementTotalCompletions subtracts one from the lifetime counter,
	// never going below zero, and returns the new value.
	DecrementTotalCompletions(ctx context.Context, habitID int64) (int, error)
	// GetCompletionCounts returns per-habit, per-day counts of non-deleted
	// completions between startDay and endDay inclusive, ordered by day.
	GetCompletionCounts(ctx context.Context, startDay, endDay string) ([]models.DayCount, error)

	// Schema
	// Migrate applies pending migrations and returns how many ran.
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current int, latest int, err error)

	// Diagnostics
	// CountDuplicateCompletions returns the number of (habit, day, slot)
	// triples held by more than one non-deleted completion.
	CountDuplicateCompletions(ctx context.Context) (int, error)
	// CountUndercountedHabits returns the number of habits whose lifetime
	// counter is lower than their number of non-deleted completions.
	CountUndercountedHabits(ctx context.Context) (int, error)

	// Utils
	GetConfigPath() string
	Driver() string
}
