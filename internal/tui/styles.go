package tui

import "github.com/charmbracelet/lipgloss"

// Shared styles for progress glyphs and command output. Commands reuse
// these for their own summary lines so states look the same everywhere.
var (
	GoodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	RunningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	FaintStyle   = lipgloss.NewStyle().Faint(true)
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
)
