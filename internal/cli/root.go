package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/habits"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

// Context is handed to every kong command's Run method.
type Context struct {
	Store    storage.Provider
	Recorder *habits.Recorder
	Habits   *habits.Service
	Location *time.Location
	Out      io.Writer

	ctx context.Context
}

// NewContext wires the recorder and habit service onto store, computing
// date keys in loc.
func NewContext(store storage.Provider, loc *time.Location) *Context {
	return &Context{
		Store:    store,
		Recorder: habits.NewRecorder(store, habits.WithLocation(loc)),
		Habits:   habits.NewService(store, habits.WithLocation(loc)),
		Location: loc,
		Out:      os.Stdout,
	}
}

// WithContext sets the context passed to store calls.
func (c *Context) WithContext(ctx context.Context) *Context {
	c.ctx = ctx
	return c
}

// Context returns the context for store calls, defaulting to Background.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted output for the user.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

// Println writes a line of output for the user.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// PrintJSON writes v as indented JSON.
func (c *Context) PrintJSON(v any) error {
	enc := json.NewEncoder(c.out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	DoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// FormatProgress renders "today/target" for a habit, or just the count for
// high-frequency habits.
func FormatProgress(s models.HabitSummary) string {
	if s.IsHighFrequency() {
		return fmt.Sprintf("%d", s.CompletionsToday)
	}
	return fmt.Sprintf("%d/%d", s.CompletionsToday, s.DailyTarget())
}

// DescribeResult turns a completion result into a one-line message.
func DescribeResult(title string, r models.CompletionResult) string {
	switch {
	case r.IsMaxCompletions:
		return fmt.Sprintf("%s: already done for today (%d today, level %d)", title, r.CompletionsToday, r.Level)
	case r.IsRepeatCompletion:
		return fmt.Sprintf("%s: completion already recorded (%d today, level %d)", title, r.CompletionsToday, r.Level)
	case r.IsComplete:
		return fmt.Sprintf("%s: done for today! (%d today, level %d)", title, r.CompletionsToday, r.Level)
	default:
		return fmt.Sprintf("%s: recorded (%d today, level %d)", title, r.CompletionsToday, r.Level)
	}
}
