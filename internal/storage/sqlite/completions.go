package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/models"
)

func (s *Store) CountCompletions(ctx context.Context, habitID int64, day string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM habit_completions
		WHERE habit_id = ? AND completion_date = ? AND deleted_at IS NULL`,
		habitID, day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return n, nil
}

func (s *Store) InsertCompletion(ctx context.Context, habitID int64, day string, number int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completions (habit_id, completion_date, completion_number, created_at)
		VALUES (?, ?, ?, ?)`,
		habitID, day, number, s.now().UTC().Format(time.RFC3339Nano))
	return classify(err)
}

func (s *Store) RemoveCompletion(ctx context.Context, habitID int64, day string) (models.HabitCompletion, error) {
	var c models.HabitCompletion
	var createdAt, deletedAt string
	err := s.db.QueryRowContext(ctx, `
		UPDATE habit_completions SET deleted_at = ?
		WHERE id = (
			SELECT id FROM habit_completions
			WHERE habit_id = ? AND completion_date = ? AND deleted_at IS NULL
			ORDER BY completion_number DESC, id DESC LIMIT 1
		)
		RETURNING id, habit_id, completion_date, completion_number, created_at, deleted_at`,
		s.now().UTC().Format(time.RFC3339Nano), habitID, day).
		Scan(&c.ID, &c.HabitID, &c.CompletionDate, &c.CompletionNumber, &createdAt, &deletedAt)
	if err != nil {
		return models.HabitCompletion{}, classify(err)
	}

	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return models.HabitCompletion{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	removed, err := time.Parse(time.RFC3339Nano, deletedAt)
	if err != nil {
		return models.HabitCompletion{}, fmt.Errorf("failed to parse deleted_at: %w", err)
	}
	c.DeletedAt = &removed
	return c, nil
}

func (s *Store) GetCompletionCounts(ctx context.Context, startDay, endDay string) ([]models.DayCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT habit_id, completion_date, COUNT(*)
		FROM habit_completions
		WHERE completion_date BETWEEN ? AND ? AND deleted_at IS NULL
		GROUP BY habit_id, completion_date
		ORDER BY completion_date, habit_id`, startDay, endDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []models.DayCount
	for rows.Next() {
		var c models.DayCount
		if err := rows.Scan(&c.HabitID, &c.Day, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Store) CountDuplicateCompletions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM (
			SELECT habit_id, completion_date, completion_number FROM habit_completions
			WHERE deleted_at IS NULL
			GROUP BY habit_id, completion_date, completion_number
			HAVING COUNT(*) > 1
		)`).Scan(&n)
	return n, err
}
