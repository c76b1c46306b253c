package postgres

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
		WHERE habit_id = $1 AND completion_date = $2 AND deleted_at IS NULL`,
		habitID, day).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return n, nil
}

func (s *Store) InsertCompletion(ctx context.Context, habitID int64, day string, number int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_completions (habit_id, completion_date, completion_number)
		VALUES ($1, $2, $3)`, habitID, day, number)
	return classify(err)
}

func (s *Store) RemoveCompletion(ctx context.Context, habitID int64, day string) (models.HabitCompletion, error) {
	var c models.HabitCompletion
	var deletedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		UPDATE habit_completions SET deleted_at = NOW()
		WHERE id = (
			SELECT id FROM habit_completions
			WHERE habit_id = $1 AND completion_date = $2 AND deleted_at IS NULL
			ORDER BY completion_number DESC, id DESC LIMIT 1
		)
		RETURNING id, habit_id, to_char(completion_date, 'YYYY-MM-DD'), completion_number, created_at, deleted_at`,
		habitID, day).
		Scan(&c.ID, &c.HabitID, &c.CompletionDate, &c.CompletionNumber, &c.CreatedAt, &deletedAt)
	if err != nil {
		return models.HabitCompletion{}, classify(err)
	}
	c.CreatedAt = c.CreatedAt.UTC()
	deletedAt = deletedAt.UTC()
	c.DeletedAt = &deletedAt
	return c, nil
}

func (s *Store) GetCompletionCounts(ctx context.Context, startDay, endDay string) ([]models.DayCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT habit_id, to_char(completion_date, 'YYYY-MM-DD'), COUNT(*)
		FROM habit_completions
		WHERE completion_date BETWEEN $1 AND $2 AND deleted_at IS NULL
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
		) dup`).Scan(&n)
	return n, err
}
