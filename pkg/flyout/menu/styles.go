package menu

import "github.com/charmbracelet/lipgloss"

// Colors shared by the menu panel.
var (
	Primary      = lipgloss.Color("212")
	Muted        = lipgloss.Color("241")
	BorderNormal = lipgloss.Color("240")
)

// Panel and item styles.
var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	ItemNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	ItemActive = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	ItemDisabled = lipgloss.NewStyle().
			Foreground(Muted)

	Cursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	MutedText = lipgloss.NewStyle().Foreground(Muted)
)
