package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = docStyle.Render(m.habitsModel.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	header := titleStyle.Render("tally")
	if day := m.habitsModel.Day(); day != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, dayStyle.Render(day))
	}
	return header
}

func (m Model) viewStatus() string {
	switch m.statusKind {
	case statusSuccess:
		return successStyle.Render(m.status)
	case statusWarning:
		return warningStyle.Render(m.status)
	case statusError:
		return dangerStyle.Render(m.status)
	default:
		return m.status
	}
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if m.toDelete != nil {
		title = m.toDelete.Title
	}
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and all of its completions?", title)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
