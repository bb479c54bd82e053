package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is one screen of the dashboard. A screen hands control back to the menu
// by returning Back as a command.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(1, 1, 0)
	helpStyle  = lipgloss.NewStyle().Faint(true).PaddingLeft(1)
)

// Frame renders v between its title and its key help.
func Frame(v View) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(v.Title()),
		v.View(),
		helpStyle.Render(v.ShortHelp()),
	)
}
