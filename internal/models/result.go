package models

// CompletionResult is the outcome of recording a habit completion.
// At most one of IsComplete, IsMaxCompletions and IsRepeatCompletion is true.
type CompletionResult struct {
	CompletionsToday   int  `json:"completions_today"`
	TotalCompletions   int  `json:"total_completions"`
	Level              int  `json:"level"`
	IsComplete         bool `json:"is_complete,omitempty"`
	IsMaxCompletions   bool `json:"is_max_completions,omitempty"`
	IsRepeatCompletion bool `json:"is_repeat_completion,omitempty"`
}

// History groups completions in a date range by day
type History struct {
	StartDate         string                    `json:"start_date"`
	EndDate           string                    `json:"end_date"`
	Habits            []Habit                   `json:"habits"`
	CompletionsByDate map[string][]HistoryEntry `json:"completions_by_date"`
}

// HistoryEntry is one habit's completion count on a given day
type HistoryEntry struct {
	HabitID int64  `json:"habit_id"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
	Target  int    `json:"target"`
}
