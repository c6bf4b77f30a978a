package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorHeader  lipgloss.Color = "#186cbf"
	colorText    lipgloss.Color = "#cdd6f4"
	colorMuted   lipgloss.Color = "#6c7086"
	colorAccent  lipgloss.Color = "#f9e2af"
	colorBar     lipgloss.Color = "#a6e3a1"
	colorError   lipgloss.Color = "#f38ba8"
	colorSurface lipgloss.Color = "#313244"
)

type styles struct {
	header   lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	button   lipgloss.Style
	buttonOn lipgloss.Style
	dateText lipgloss.Style
	chart    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	day      lipgloss.Style
	dayOff   lipgloss.Style
	dayOn    lipgloss.Style
	dayRange lipgloss.Style
	alert    lipgloss.Style
	status   lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(colorHeader).Padding(0, 1),
		tab:      lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1),
		tabOn:    lipgloss.NewStyle().Foreground(colorText).Bold(true).Underline(true).Padding(0, 1),
		button:   lipgloss.NewStyle().Foreground(colorText).Background(colorSurface).Padding(0, 1).MarginRight(1),
		buttonOn: lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(colorAccent).Bold(true).Padding(0, 1).MarginRight(1),
		dateText: lipgloss.NewStyle().Foreground(colorAccent),
		chart:    lipgloss.NewStyle().Foreground(colorBar),
		label:    lipgloss.NewStyle().Foreground(colorMuted),
		value:    lipgloss.NewStyle().Foreground(colorText).Bold(true),
		day:      lipgloss.NewStyle().Foreground(colorText),
		dayOff:   lipgloss.NewStyle().Foreground(colorMuted),
		dayOn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(colorAccent).Bold(true),
		dayRange: lipgloss.NewStyle().Foreground(colorAccent),
		alert:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorError).Padding(0, 1),
		status:   lipgloss.NewStyle().Foreground(colorError),
		help:     lipgloss.NewStyle().Foreground(colorMuted),
	}
}
