package habits

import (
	"context"
	"fmt"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/utils"
)

// History returns completion counts grouped by day for the inclusive range
// [start, end]. Empty bounds default to the first and last day of the
// current month.
func (s *Service) History(ctx context.Context, start, end string) (models.History, error) {
	monthStart, monthEnd := utils.MonthBounds(s.clock.now(), s.clock.loc)
	if start == "" {
		start = monthStart
	}
	if end == "" {
		end = monthEnd
	}

	if !utils.ValidateDateFormat(start) {
		return models.History{}, fmt.Errorf("%w: invalid start date %q (expected YYYY-MM-DD)", ErrInvalidInput, start)
	}
	if !utils.ValidateDateFormat(end) {
		return models.History{}, fmt.Errorf("%w: invalid end date %q (expected YYYY-MM-DD)", ErrInvalidInput, end)
	}
	// YYYY-MM-DD keys order lexically.
	if start > end {
		return models.History{}, fmt.Errorf("%w: start date %s is after end date %s", ErrInvalidInput, start, end)
	}

	habits, err := s.store.GetAllHabits(ctx)
	if err != nil {
		return models.History{}, fmt.Errorf("failed to load habits: %w", err)
	}
	counts, err := s.store.GetCompletionCounts(ctx, start, end)
	if err != nil {
		return models.History{}, fmt.Errorf("failed to load completions: %w", err)
	}

	byID := make(map[int64]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	byDate := make(map[string][]models.HistoryEntry)
	for _, c := range counts {
		entry := models.HistoryEntry{
			HabitID: c.HabitID,
			Title:   fmt.Sprintf("Unknown Habit (%d)", c.HabitID),
			Count:   c.Count,
			Target:  1,
		}
		if h, ok := byID[c.HabitID]; ok {
			entry.Title = h.Title
			entry.Target = h.DailyTarget()
		}
		byDate[c.Day] = append(byDate[c.Day], entry)
	}

	if habits == nil {
		habits = []models.Habit{}
	}
	return models.History{
		StartDate:         start,
		EndDate:           end,
		Habits:            habits,
		CompletionsByDate: byDate,
	}, nil
}
