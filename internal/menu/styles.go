package menu

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("205")
	muted  = lipgloss.Color("241")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	PromptStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	HintStyle   = lipgloss.NewStyle().Foreground(muted)
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	frameStyle = lipgloss.NewStyle().Margin(1, 2)
)
