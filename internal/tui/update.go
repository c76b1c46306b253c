package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/habits"
	habitlist "github.com/julianstephens/tally/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateAddHabit {
		return m.updateAddHabit(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		// Leave room for the title, status line and help.
		m.habitsModel.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case habitsLoadedMsg:
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Failed to load habits: %v", msg.err))
			return m, nil
		}
		m.habitsModel.SetHabits(msg.summaries, msg.day)
		return m, nil

	case completionMsg:
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Failed to record completion: %v", msg.err))
			return m, nil
		}
		kind := statusSuccess
		if msg.result.IsMaxCompletions || msg.result.IsRepeatCompletion {
			kind = statusWarning
		}
		m.setStatus(kind, cli.DescribeResult(msg.title, msg.result))
		return m, m.loadHabits()

	case uncompletionMsg:
		if errors.Is(msg.err, habits.ErrNoCompletion) {
			m.setStatus(statusWarning, fmt.Sprintf("%s: nothing to undo today", msg.title))
			return m, nil
		}
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Failed to remove completion: %v", msg.err))
			return m, nil
		}
		m.setStatus(statusInfo, fmt.Sprintf("%s: completion removed (%d today, level %d)",
			msg.title, msg.result.CompletionsToday, msg.result.Level))
		return m, m.loadHabits()

	case habitSavedMsg:
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Failed to add habit: %v", msg.err))
			return m, nil
		}
		m.setStatus(statusSuccess, fmt.Sprintf("Added habit %q", msg.habit.Title))
		return m, m.loadHabits()

	case habitDeletedMsg:
		if msg.err != nil {
			m.setStatus(statusError, fmt.Sprintf("Failed to delete habit: %v", msg.err))
			return m, nil
		}
		m.setStatus(statusInfo, fmt.Sprintf("Deleted habit %q", msg.title))
		return m, m.loadHabits()

	case habitlist.CompleteHabitMsg:
		return m, m.completeHabit(msg.ID, msg.Title)

	case habitlist.UncompleteHabitMsg:
		return m, m.uncompleteHabit(msg.ID, msg.Title)

	case habitlist.RefreshMsg:
		m.setStatus(statusInfo, "")
		return m, m.loadHabits()

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Frequency: string(constants.FrequencyDaily),
			PerDay:    "1",
		}
		m.form = newHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habitlist.DeleteHabitMsg:
		m.toDelete = &msg
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		if m.state == StateConfirmDelete {
			return m.updateConfirmDelete(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		target := m.toDelete
		m.toDelete = nil
		m.state = StateHabits
		if target == nil {
			return m, nil
		}
		return m, m.deleteHabit(target.ID, target.Title)
	case key.Matches(msg, m.keys.No):
		m.toDelete = nil
		m.state = StateHabits
	}
	return m, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateHabits
		perDay, _ := strconv.Atoi(m.habitForm.PerDay)
		in := habits.HabitInput{
			Title:             m.habitForm.Title,
			Frequency:         constants.Frequency(m.habitForm.Frequency),
			CompletionsPerDay: perDay,
		}
		return m, tea.Batch(cmd, m.createHabit(in))
	case huh.StateAborted:
		m.state = StateHabits
	}
	return m, cmd
}

func newHabitForm(f *HabitFormModel) *huh.Form {
	options := make([]huh.Option[string], 0, len(constants.ValidFrequencies))
	for _, freq := range constants.ValidFrequencies {
		options = append(options, huh.NewOption(string(freq), string(freq)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit title").
				Value(&f.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(options...).
				Value(&f.Frequency),
			huh.NewInput().
				Title("Completions per day").
				Value(&f.PerDay).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n < 1 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
		),
	).WithShowHelp(true)
}
