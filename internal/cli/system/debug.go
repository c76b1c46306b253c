package system

import (
	"github.com/julianstephens/tally/internal/cli"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit with today's progress as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return ctx.PrintJSON(map[string]string{
		"driver": ctx.Store.Driver(),
		"path":   ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.Habits.GetHabit(ctx.Context(), cmd.ID)
	if err != nil {
		return err
	}
	today := ctx.Habits.Today()
	count, err := ctx.Store.CountCompletions(ctx.Context(), habit.ID, today)
	if err != nil {
		return err
	}

	return ctx.PrintJSON(map[string]any{
		"habit":             habit,
		"day":               today,
		"completions_today": count,
	})
}
