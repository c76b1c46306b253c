package habits

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/models"
)

type AddHabitMsg struct{}

type RefreshMsg struct{}

type CompleteHabitMsg struct {
	ID    string
	Title string
}

type UncompleteHabitMsg struct {
	ID    string
	Title string
}

type DeleteHabitMsg struct {
	ID    string
	Title string
}

type Item struct {
	Summary models.HabitSummary
}

func (i Item) ID() string {
	return strconv.FormatInt(i.Summary.ID, 10)
}

func (i Item) Title() string {
	if i.Summary.IsDoneToday() {
		return "✓ " + i.Summary.Title
	}
	return "○ " + i.Summary.Title
}

func (i Item) Description() string {
	s := i.Summary
	if s.IsHighFrequency() {
		return fmt.Sprintf("%d today · level %d", s.CompletionsToday, s.Level)
	}
	return fmt.Sprintf("%d/%d today · level %d · %s", s.CompletionsToday, s.DailyTarget(), s.Level, s.Frequency)
}

func (i Item) FilterValue() string { return i.Summary.Title }

type KeyMap struct {
	Add        key.Binding
	Complete   key.Binding
	Uncomplete key.Binding
	Delete     key.Binding
	Refresh    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter/c", "complete"),
		),
		Uncomplete: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo today"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	day  string
}

func New(summaries []models.HabitSummary, width, height int) Model {
	l := list.New(toItems(summaries), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	// Quit is handled by the parent model.
	l.KeyMap.Quit.SetEnabled(false)

	return Model{
		list: l,
		keys: DefaultKeyMap(),
	}
}

func toItems(summaries []models.HabitSummary) []list.Item {
	items := make([]list.Item, len(summaries))
	for i, s := range summaries {
		items[i] = Item{Summary: s}
	}
	return items
}

// SetHabits replaces the list contents, keeping the cursor where possible.
func (m *Model) SetHabits(summaries []models.HabitSummary, day string) {
	m.day = day
	m.list.SetItems(toItems(summaries))
}

func (m Model) Day() string {
	return m.day
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Selected returns the highlighted item, if any.
func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return CompleteHabitMsg{ID: i.ID(), Title: i.Summary.Title} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Uncomplete):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return UncompleteHabitMsg{ID: i.ID(), Title: i.Summary.Title} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.ID(), Title: i.Summary.Title} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
