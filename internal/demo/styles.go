package demo

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("212")
	muted   = lipgloss.Color("241")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary)
	mutedText  = lipgloss.NewStyle().Foreground(muted)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 2)

	buttonFocused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(primary).
			Bold(true).
			Padding(0, 2)

	buttonHover = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("245")).
			Padding(0, 2)
)
