package models

import (
	"time"

	"github.com/julianstephens/tally/internal/constants"
)

// Habit represents a recurring activity with a daily target count
type Habit struct {
	ID                int64               `json:"id"`
	Title             string              `json:"title"`
	Frequency         constants.Frequency `json:"frequency"`
	CompletionsPerDay int                 `json:"completions_per_day"`
	TotalCompletions  int                 `json:"total_completions"`
	CreatedAt         time.Time           `json:"created_at"`
}

// DailyTarget returns CompletionsPerDay, treating unset or non-positive values as 1.
func (h Habit) DailyTarget() int {
	if h.CompletionsPerDay < 1 {
		return 1
	}
	return h.CompletionsPerDay
}

// IsHighFrequency reports whether the habit is an unlimited counter that
// never blocks a completion and never reports done for the day.
func (h Habit) IsHighFrequency() bool {
	return h.DailyTarget() > constants.HighFrequencyThreshold
}

// HabitCompletion is one recorded instance of a habit on a calendar day.
// CompletionNumber is its slot within the day, starting at 1.
type HabitCompletion struct {
	ID               int64      `json:"id"`
	HabitID          int64      `json:"habit_id"`
	CompletionDate   string     `json:"completion_date"` // YYYY-MM-DD format
	CompletionNumber int        `json:"completion_number"`
	CreatedAt        time.Time  `json:"created_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

// HabitSummary is a habit together with its progress for one day
type HabitSummary struct {
	Habit
	CompletionsToday int `json:"completions_today"`
	Level            int `json:"level"`
}

// IsDoneToday reports whether the daily target has been met. High-frequency
// habits are never done.
func (s HabitSummary) IsDoneToday() bool {
	return !s.IsHighFrequency() && s.CompletionsToday >= s.DailyTarget()
}

// DayCount is the number of non-deleted completions of a habit on one day
type DayCount struct {
	HabitID int64  `json:"habit_id"`
	Day     string `json:"day"`
	Count   int    `json:"count"`
}
