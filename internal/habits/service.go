package habits

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

// Store is everything the habit service reads and writes.
type Store interface {
	CompletionStore
	RemoveCompletion(ctx context.Context, habitID int64, day string) (models.HabitCompletion, error)
	DecrementTotalCompletions(ctx context.Context, habitID int64) (int, error)
	CreateHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) (models.Habit, error)
	DeleteHabit(ctx context.Context, id int64) error
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	GetHabitSummaries(ctx context.Context, day string) ([]models.HabitSummary, error)
	GetCompletionCounts(ctx context.Context, startDay, endDay string) ([]models.DayCount, error)
}

// HabitInput carries the user-editable fields of a habit.
type HabitInput struct {
	Title             string
	Frequency         constants.Frequency
	CompletionsPerDay int
}

// Service implements habit CRUD and history on top of a Store.
type Service struct {
	store Store
	clock clock
}

func NewService(store Store, opts ...Option) *Service {
	return &Service{store: store, clock: newClock(opts)}
}

// Today returns the current date key in the service's reference zone.
func (s *Service) Today() string {
	return s.clock.today()
}

// normalize validates input and maps it onto a habit. Only daily habits may
// have more than one completion per day.
func normalize(in HabitInput) (models.Habit, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Habit{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > constants.MaxHabitTitleLen {
		return models.Habit{}, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, constants.MaxHabitTitleLen)
	}

	freq := in.Frequency
	if freq == "" {
		freq = constants.FrequencyDaily
	}
	if !slices.Contains(constants.ValidFrequencies, freq) {
		return models.Habit{}, fmt.Errorf("%w: frequency must be one of %v", ErrInvalidInput, constants.ValidFrequencies)
	}

	perDay := in.CompletionsPerDay
	if freq != constants.FrequencyDaily || perDay < 1 {
		perDay = 1
	}

	return models.Habit{
		Title:             title,
		Frequency:         freq,
		CompletionsPerDay: perDay,
	}, nil
}

func (s *Service) CreateHabit(ctx context.Context, in HabitInput) (models.Habit, error) {
	habit, err := normalize(in)
	if err != nil {
		return models.Habit{}, err
	}

	created, err := s.store.CreateHabit(ctx, habit)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}
	logger.Info("Habit created", "habit_id", created.ID, "title", created.Title, "per_day", created.CompletionsPerDay)
	return created, nil
}

// UpdateHabit rewrites the editable fields. The lifetime total is preserved.
func (s *Service) UpdateHabit(ctx context.Context, habitID string, in HabitInput) (models.Habit, error) {
	id, err := ParseHabitID(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	habit, err := normalize(in)
	if err != nil {
		return models.Habit{}, err
	}
	habit.ID = id

	updated, err := s.store.UpdateHabit(ctx, habit)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, fmt.Errorf("%w: habit %d", ErrNotFound, id)
		}
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	logger.Info("Habit updated", "habit_id", id)
	return updated, nil
}

// GetHabit looks up a single habit by its caller-supplied id.
func (s *Service) GetHabit(ctx context.Context, habitID string) (models.Habit, error) {
	id, err := ParseHabitID(habitID)
	if err != nil {
		return models.Habit{}, err
	}
	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, fmt.Errorf("%w: habit %d", ErrNotFound, id)
		}
		return models.Habit{}, err
	}
	return habit, nil
}

// DeleteHabit permanently removes a habit and all of its completions.
func (s *Service) DeleteHabit(ctx context.Context, habitID string) error {
	id, err := ParseHabitID(habitID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: habit %d", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	logger.Info("Habit deleted", "habit_id", id)
	return nil
}

// ListHabits returns every habit with today's completion count, newest first.
func (s *Service) ListHabits(ctx context.Context) ([]models.HabitSummary, error) {
	summaries, err := s.store.GetHabitSummaries(ctx, s.clock.today())
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return summaries, nil
}

// RemoveCompletion undoes the most recent completion of habitID recorded
// today. The completion is soft-deleted so its slot can be recorded again,
// and the lifetime total drops by one without going below zero.
func (s *Service) RemoveCompletion(ctx context.Context, habitID string) (models.CompletionResult, error) {
	id, err := ParseHabitID(habitID)
	if err != nil {
		return models.CompletionResult{}, err
	}
	if _, err := s.store.GetHabit(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.CompletionResult{}, fmt.Errorf("%w: habit %d", ErrNotFound, id)
		}
		return models.CompletionResult{}, err
	}

	day := s.clock.today()
	removed, err := s.store.RemoveCompletion(ctx, id, day)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.CompletionResult{}, fmt.Errorf("%w: habit %d on %s", ErrNoCompletion, id, day)
		}
		return models.CompletionResult{}, fmt.Errorf("failed to remove completion: %w", err)
	}

	total, err := s.store.DecrementTotalCompletions(ctx, id)
	if err != nil {
		return models.CompletionResult{}, err
	}
	count, err := s.store.CountCompletions(ctx, id, day)
	if err != nil {
		return models.CompletionResult{}, err
	}

	logger.Info("Completion removed", "habit_id", id, "day", day,
		"completion_id", removed.ID, "slot", removed.CompletionNumber, "total", total)
	return models.CompletionResult{
		CompletionsToday: count,
		TotalCompletions: total,
		Level:            total,
	}, nil
}
