package tui

import "github.com/charmbracelet/lipgloss"

// theme collects every lipgloss style used by the view.
type theme struct {
	header       lipgloss.Style
	panel        lipgloss.Style
	panelFocused lipgloss.Style
	panelTitle   lipgloss.Style
	userLabel    lipgloss.Style
	botLabel     lipgloss.Style
	turnBody     lipgloss.Style
	sourceHeader lipgloss.Style
	sourceLink   lipgloss.Style
	sourceFile   lipgloss.Style
	typing       lipgloss.Style
	status       lipgloss.Style
	statusError  lipgloss.Style
	help         lipgloss.Style
}

func newTheme() theme {
	blue := lipgloss.Color("33")
	green := lipgloss.Color("35")
	gray := lipgloss.Color("245")
	red := lipgloss.Color("203")
	border := lipgloss.Color("240")

	return theme{
		header: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		panelFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		panelTitle:   lipgloss.NewStyle().Foreground(gray).Bold(true),
		userLabel:    lipgloss.NewStyle().Foreground(green).Bold(true),
		botLabel:     lipgloss.NewStyle().Foreground(blue).Bold(true),
		turnBody:     lipgloss.NewStyle(),
		sourceHeader: lipgloss.NewStyle().Foreground(gray).Bold(true),
		sourceLink:   lipgloss.NewStyle().Foreground(blue).Underline(true),
		sourceFile:   lipgloss.NewStyle().Foreground(gray),
		typing:       lipgloss.NewStyle().Foreground(gray).Italic(true),
		status:       lipgloss.NewStyle().Foreground(green),
		statusError:  lipgloss.NewStyle().Foreground(red),
		help:         lipgloss.NewStyle().Foreground(gray),
	}
}
