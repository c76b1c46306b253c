package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

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
	var frequency, createdAt string

	dest := append([]any{&h.ID, &h.Title, &frequency, &h.CompletionsPerDay, &h.TotalCompletions, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Habit{}, err
	}
	h.Frequency = constants.Frequency(frequency)

	var err error
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return h, nil
}

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = s.now().UTC()
	}
	habit.TotalCompletions = 0

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (title, frequency, completions_per_day, total_completions, created_at)
		VALUES (?, ?, ?, 0, ?)`,
		habit.Title, string(habit.Frequency), habit.DailyTarget(), habit.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to insert habit: %w", classify(err))
	}

	habit.ID, err = res.LastInsertId()
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to read habit id: %w", err)
	}
	habit.CompletionsPerDay = habit.DailyTarget()
	return habit, nil
}

func (s *Store) GetHabit(ctx context.Context, id int64) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+habitColumns+" FROM habits WHERE id = ?", id)
	h, err := scanHabit(row)
	if err != nil {
		return models.Habit{}, classify(err)
	}
	return h, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) (models.Habit, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE habits SET title = ?, frequency = ?, completions_per_day = ?
		WHERE id = ?`,
		habit.Title, string(habit.Frequency), habit.DailyTarget(), habit.ID)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", classify(err))
	}
	if err := requireRow(res); err != nil {
		return models.Habit{}, err
	}
	return s.GetHabit(ctx, habit.ID)
}

func (s *Store) DeleteHabit(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireRow(res)
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
			(SELECT COUNT(*) FROM habit_completions c
			 WHERE c.habit_id = h.id AND c.completion_date = ? AND c.deleted_at IS NULL)
		FROM habits h
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
		WHERE id = ?
		RETURNING total_completions`, habitID).Scan(&total)
	if err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (s *Store) DecrementTotalCompletions(ctx context.Context, habitID int64) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `
		UPDATE habits SET total_completions = MAX(0, total_completions - 1)
		WHERE id = ?
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

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
