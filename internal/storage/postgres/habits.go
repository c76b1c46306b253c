package postgres

import (
	"context"
	"fmt"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

const habitColumns = "id, title, frequency, completions_per_day, total_completions, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner, extra ...any) (models.Habit, error) {
	var h models.Habit
	var frequency string
	dest := append([]any{&h.ID, &h.Title, &frequency, &h.CompletionsPerDay, &h.TotalCompletions, &h.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Habit{}, err
	}
	h.Frequency = constants.Frequency(frequency)
	h.CreatedAt = h.CreatedAt.UTC()
	return h, nil
}

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO habits (title, frequency, completions_per_day, total_completions)
		VALUES ($1, $2, $3, 0)
		RETURNING `+habitColumns,
		habit.Title, string(habit.Frequency), habit.DailyTarget())
	created, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to insert habit: %w", classify(err))
	}
	return created, nil
}

func (s *Store) GetHabit(ctx context.Context, id int64) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+habitColumns+" FROM habits WHERE id = $1", id)
	h, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, classify(err)
	}
	return h, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE habits SET title = $1, frequency = $2, completions_per_day = $3
		WHERE id = $4
		RETURNING `+habitColumns,
		habit.Title, string(habit.Frequency), habit.DailyTarget(), habit.ID)
	updated, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, classify(err)
	}
	return updated, nil
}

func (s *Store) DeleteHabit(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+habitColumns+" FROM habits ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) GetHabitSummaries(ctx context.Context, day string) ([]models.HabitSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.title, h.frequency, h.completions_per_day, h.total_completions, h.created_at,
			COUNT(c.id)
		FROM habits h
		LEFT JOIN habit_completions c
			ON c.habit_id = h.id AND c.completion_date = $1 AND c.deleted_at IS NULL
		GROUP BY h.id
		ORDER BY h.created_at DESC, h.id DESC`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.HabitSummary
	for rows.Next() {
		var today int
		h, err := scanHabit(rows, &today)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.HabitSummary{
			Habit:            h,
			CompletionsToday: today,
			Level:            h.TotalCompletions,
		})
	}
	return summaries, rows.Err()
}

// IncrementTotalCompletions bumps the lifetime counter in one statement so
// concurrent increments are never lost.
func (s *Store) IncrementTotalCompletions(ctx context.Context, habitID int64) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		UPDATE habits SET total_completions = total_completions + 1
		WHERE id = $1
		RETURNING total_completions`, habitID).Scan(&total)
	if err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (s *Store) DecrementTotalCompletions(ctx context.Context, habitID int64) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		UPDATE habits SET total_completions = GREATEST(0, total_completions - 1)
		WHERE id = $1
		RETURNING total_completions`, habitID).Scan(&total)
	if err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (s *Store) CountUndercountedHabits(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM habits h
		WHERE h.total_completions < (
			SELECT COUNT(*) FROM habit_completions c
			WHERE c.habit_id = h.id AND c.deleted_at IS NULL
		)`).Scan(&n)
	return n, err
}
