package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/habits"
	"github.com/julianstephens/tally/internal/models"
	habitlist "github.com/julianstephens/tally/internal/tui/components/habits"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateAddHabit
	StateConfirmDelete
)

type HabitFormModel struct {
	Title     string
	Frequency string
	PerDay    string
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type Model struct {
	ctx         context.Context
	recorder    *habits.Recorder
	habits      *habits.Service
	state       SessionState
	keys        KeyMap
	help        help.Model
	habitsModel habitlist.Model
	form        *huh.Form
	habitForm   *HabitFormModel
	toDelete    *habitlist.DeleteHabitMsg
	status      string
	statusKind  statusKind
	quitting    bool
	width       int
	height      int
}

// NewModel builds the habit view. Habits are loaded by Init so the first
// frame renders without waiting on the store.
func NewModel(ctx context.Context, recorder *habits.Recorder, svc *habits.Service) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{
		ctx:         ctx,
		recorder:    recorder,
		habits:      svc,
		state:       StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habitlist.New(nil, 0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	hk := m.habitsModel.Keys()
	return []key.Binding{hk.Complete, hk.Uncomplete, hk.Add, hk.Delete, hk.Refresh, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	hk := m.habitsModel.Keys()
	return [][]key.Binding{
		{m.keys.Quit, m.keys.Help, m.keys.Back},
		{m.keys.Up, m.keys.Down},
		{hk.Complete, hk.Uncomplete, hk.Add, hk.Delete, hk.Refresh},
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadHabits()
}

type habitsLoadedMsg struct {
	summaries []models.HabitSummary
	day       string
	err       error
}

type completionMsg struct {
	title  string
	result models.CompletionResult
	err    error
}

type uncompletionMsg struct {
	title  string
	result models.CompletionResult
	err    error
}

type habitSavedMsg struct {
	habit models.Habit
	err   error
}

type habitDeletedMsg struct {
	title string
	err   error
}

func (m Model) loadHabits() tea.Cmd {
	ctx, svc := m.ctx, m.habits
	return func() tea.Msg {
		summaries, err := svc.ListHabits(ctx)
		return habitsLoadedMsg{summaries: summaries, day: svc.Today(), err: err}
	}
}

func (m Model) completeHabit(id, title string) tea.Cmd {
	ctx, rec := m.ctx, m.recorder
	return func() tea.Msg {
		result, err := rec.RecordCompletion(ctx, id)
		return completionMsg{title: title, result: result, err: err}
	}
}

func (m Model) uncompleteHabit(id, title string) tea.Cmd {
	ctx, svc := m.ctx, m.habits
	return func() tea.Msg {
		result, err := svc.RemoveCompletion(ctx, id)
		return uncompletionMsg{title: title, result: result, err: err}
	}
}

func (m Model) createHabit(in habits.HabitInput) tea.Cmd {
	ctx, svc := m.ctx, m.habits
	return func() tea.Msg {
		h, err := svc.CreateHabit(ctx, in)
		return habitSavedMsg{habit: h, err: err}
	}
}

func (m Model) deleteHabit(id, title string) tea.Cmd {
	ctx, svc := m.ctx, m.habits
	return func() tea.Msg {
		return habitDeletedMsg{title: title, err: svc.DeleteHabit(ctx, id)}
	}
}

func (m *Model) setStatus(kind statusKind, msg string) {
	m.statusKind = kind
	m.status = msg
}
