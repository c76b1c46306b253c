package habits

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

// CompletionStore is the slice of storage.Provider the recorder needs.
type CompletionStore interface {
	GetHabit(ctx context.Context, id int64) (models.Habit, error)
	CountCompletions(ctx context.Context, habitID int64, day string) (int, error)
	InsertCompletion(ctx context.Context, habitID int64, day string, number int) error
	IncrementTotalCompletions(ctx context.Context, habitID int64) (int, error)
}

// Recorder records habit completions for the current day.
//
// It holds no locks. Each insert claims the next slot number for the day,
// and the store's unique index on (habit_id, completion_date,
// completion_number) decides which of several callers that read the same
// count gets the slot; the others see a repeat completion.
type Recorder struct {
	store CompletionStore
	clock clock
}

func NewRecorder(store CompletionStore, opts ...Option) *Recorder {
	return &Recorder{store: store, clock: newClock(opts)}
}

// Today returns the date key completions are currently recorded under.
func (r *Recorder) Today() string {
	return r.clock.today()
}

// RecordCompletion records one completion of habitID for today.
//
// A habit whose daily target is already met gets IsMaxCompletions and no
// writes. A losing concurrent insert gets IsRepeatCompletion. Otherwise a row
// is inserted, the lifetime total is incremented, and IsComplete reports
// whether the target is now met. High-frequency habits are never blocked and
// never complete.
func (r *Recorder) RecordCompletion(ctx context.Context, habitID string) (models.CompletionResult, error) {
	id, err := ParseHabitID(habitID)
	if err != nil {
		return models.CompletionResult{}, err
	}

	day := r.clock.today()
	log := logger.With("op", uuid.NewString(), "habit_id", id, "day", day)

	habit, err := r.store.GetHabit(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.CompletionResult{}, fmt.Errorf("%w: habit %d", ErrNotFound, id)
		}
		return models.CompletionResult{}, err
	}

	target := habit.DailyTarget()
	highFrequency := habit.IsHighFrequency()

	count, err := r.store.CountCompletions(ctx, id, day)
	if err != nil {
		return models.CompletionResult{}, err
	}

	if !highFrequency && count >= target {
		log.Debug("Daily target already reached", "completions_today", count, "target", target)
		return models.CompletionResult{
			CompletionsToday: count,
			TotalCompletions: habit.TotalCompletions,
			Level:            habit.TotalCompletions,
			IsMaxCompletions: true,
		}, nil
	}

	if err := r.store.InsertCompletion(ctx, id, day, count+1); err != nil {
		if !errors.Is(err, storage.ErrUniqueViolation) {
			return models.CompletionResult{}, err
		}

		count, err = r.store.CountCompletions(ctx, id, day)
		if err != nil {
			return models.CompletionResult{}, err
		}
		log.Info("Completion already recorded", "completions_today", count, "total", habit.TotalCompletions)
		return models.CompletionResult{
			CompletionsToday:   count,
			TotalCompletions:   habit.TotalCompletions,
			Level:              habit.TotalCompletions,
			IsRepeatCompletion: true,
		}, nil
	}

	total, err := r.store.IncrementTotalCompletions(ctx, id)
	if err != nil {
		return models.CompletionResult{}, err
	}

	count, err = r.store.CountCompletions(ctx, id, day)
	if err != nil {
		return models.CompletionResult{}, err
	}

	complete := !highFrequency && count >= target
	log.Info("Completion recorded", "completions_today", count, "total", total, "complete", complete)
	return models.CompletionResult{
		CompletionsToday: count,
		TotalCompletions: total,
		Level:            total,
		IsComplete:       complete,
	}, nil
}
