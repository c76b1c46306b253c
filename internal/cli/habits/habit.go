package habits

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	habitsvc "github.com/julianstephens/tally/internal/habits"
	"github.com/julianstephens/tally/internal/utils"
)

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Add a new habit."`
	List       HabitListCmd       `cmd:"" help:"List habits with today's progress."`
	Edit       HabitEditCmd       `cmd:"" help:"Edit a habit."`
	Delete     HabitDeleteCmd     `cmd:"" help:"Delete a habit and all of its completions."`
	Complete   HabitCompleteCmd   `cmd:"" help:"Record a completion for today."`
	Uncomplete HabitUncompleteCmd `cmd:"" help:"Remove the most recent completion recorded today."`
	History    HabitHistoryCmd    `cmd:"" help:"Show completion history for a date range."`
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Interactive prompts are swapped out in tests.
var (
	runHabitForm = promptHabitInput
	runConfirm   = promptConfirm
)

type HabitAddCmd struct {
	Title     string `arg:"" optional:"" help:"Habit title. Omit to fill in an interactive form."`
	Frequency string `help:"How often the habit is performed." enum:"daily,weekly,monthly" default:"daily"`
	PerDay    int    `name:"per-day" help:"Completions per day (daily habits only; above 100 is an unlimited counter)." default:"1"`
	JSON      bool   `help:"Print the created habit as JSON."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	input := habitsvc.HabitInput{
		Title:             c.Title,
		Frequency:         constants.Frequency(c.Frequency),
		CompletionsPerDay: c.PerDay,
	}
	if strings.TrimSpace(c.Title) == "" {
		var err error
		input, err = runHabitForm(input)
		if err != nil {
			return err
		}
	}

	habit, err := ctx.Habits.CreateHabit(ctx.Context(), input)
	if err != nil {
		return err
	}

	if c.JSON {
		return ctx.PrintJSON(habit)
	}
	ctx.Printf("Added habit %d: %s\n", habit.ID, habit.Title)
	return nil
}

type HabitListCmd struct {
	JSON bool `help:"Print habits as JSON."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	summaries, err := ctx.Habits.ListHabits(ctx.Context())
	if err != nil {
		return err
	}

	if c.JSON {
		if summaries == nil {
			return ctx.PrintJSON([]any{})
		}
		return ctx.PrintJSON(summaries)
	}

	if len(summaries) == 0 {
		ctx.Println("No habits found. Add one with 'tally habit add'.")
		return nil
	}

	t := table.New().
		Headers("ID", "TITLE", "FREQUENCY", "TODAY", "LEVEL", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cli.HeaderStyle.Padding(0, 1)
			}
			return cellStyle
		})
	for _, s := range summaries {
		status := cli.PendingStyle.Render("pending")
		if s.IsDoneToday() {
			status = cli.DoneStyle.Render("done")
		}
		t.Row(
			strconv.FormatInt(s.ID, 10),
			s.Title,
			string(s.Frequency),
			cli.FormatProgress(s),
			strconv.Itoa(s.Level),
			status,
		)
	}
	ctx.Println(t.Render())
	ctx.Printf("Day: %s\n", ctx.Habits.Today())
	return nil
}

type HabitEditCmd struct {
	ID        string `arg:"" help:"Habit id."`
	Title     string `help:"New title."`
	Frequency string `help:"New frequency (daily, weekly or monthly)."`
	PerDay    int    `name:"per-day" help:"New completions per day."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	existing, err := ctx.Habits.GetHabit(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	input := habitsvc.HabitInput{
		Title:             existing.Title,
		Frequency:         existing.Frequency,
		CompletionsPerDay: existing.CompletionsPerDay,
	}
	if c.Title != "" {
		input.Title = c.Title
	}
	if c.Frequency != "" {
		input.Frequency = constants.Frequency(c.Frequency)
	}
	if c.PerDay != 0 {
		input.CompletionsPerDay = c.PerDay
	}

	updated, err := ctx.Habits.UpdateHabit(ctx.Context(), c.ID, input)
	if err != nil {
		return err
	}
	ctx.Printf("Updated habit %d: %s (%s, %d/day)\n", updated.ID, updated.Title, updated.Frequency, updated.DailyTarget())
	return nil
}

type HabitDeleteCmd struct {
	ID  string `arg:"" help:"Habit id."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.Habits.GetHabit(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := runConfirm(fmt.Sprintf("Delete %q and all of its completions?", habit.Title))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.Habits.DeleteHabit(ctx.Context(), c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit %d: %s\n", habit.ID, habit.Title)
	return nil
}

type HabitCompleteCmd struct {
	ID   string `arg:"" help:"Habit id."`
	JSON bool   `help:"Print the completion result as JSON."`
}

func (c *HabitCompleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	result, err := ctx.Recorder.RecordCompletion(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	if c.JSON {
		return ctx.PrintJSON(result)
	}

	title := "habit " + c.ID
	if h, err := ctx.Habits.GetHabit(ctx.Context(), c.ID); err == nil {
		title = h.Title
	}
	ctx.Println(cli.DescribeResult(title, result))
	return nil
}

type HabitUncompleteCmd struct {
	ID   string `arg:"" help:"Habit id."`
	JSON bool   `help:"Print the updated counts as JSON."`
}

func (c *HabitUncompleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.Habits.GetHabit(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	result, err := ctx.Habits.RemoveCompletion(ctx.Context(), c.ID)
	if err != nil {
		return err
	}

	if c.JSON {
		return ctx.PrintJSON(result)
	}
	ctx.Printf("%s: completion removed (%d today, level %d)\n", habit.Title, result.CompletionsToday, result.Level)
	return nil
}

type HabitHistoryCmd struct {
	From string `help:"First day (YYYY-MM-DD). Defaults to the start of this month."`
	To   string `help:"Last day (YYYY-MM-DD). Defaults to the end of this month."`
	JSON bool   `help:"Print history as JSON."`
}

func (c *HabitHistoryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	history, err := ctx.Habits.History(ctx.Context(), c.From, c.To)
	if err != nil {
		return err
	}

	if c.JSON {
		return ctx.PrintJSON(history)
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("History %s to %s", history.StartDate, history.EndDate)))
	if len(history.CompletionsByDate) == 0 {
		ctx.Println("No completions in this range.")
		return nil
	}

	days, err := utils.DaysBetween(history.StartDate, history.EndDate)
	if err != nil {
		return err
	}
	for _, day := range days {
		entries, ok := history.CompletionsByDate[day]
		if !ok {
			continue
		}
		ctx.Println(day)
		for _, e := range entries {
			marker := cli.PendingStyle.Render("○")
			if e.Count >= e.Target {
				marker = cli.DoneStyle.Render("✓")
			}
			ctx.Printf("  %s %s (%d/%d)\n", marker, e.Title, e.Count, e.Target)
		}
	}
	return nil
}

func promptHabitInput(in habitsvc.HabitInput) (habitsvc.HabitInput, error) {
	frequency := string(in.Frequency)
	if frequency == "" {
		frequency = string(constants.FrequencyDaily)
	}
	perDay := strconv.Itoa(max(in.CompletionsPerDay, 1))

	options := make([]huh.Option[string], 0, len(constants.ValidFrequencies))
	for _, f := range constants.ValidFrequencies {
		options = append(options, huh.NewOption(string(f), string(f)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&in.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(options...).
				Value(&frequency),
			huh.NewInput().
				Title("Completions per day").
				Value(&perDay).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n < 1 {
						return errors.New("must be a positive number")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return habitsvc.HabitInput{}, err
	}

	n, _ := strconv.Atoi(perDay)
	in.Frequency = constants.Frequency(frequency)
	in.CompletionsPerDay = n
	return in, nil
}

func promptConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}
