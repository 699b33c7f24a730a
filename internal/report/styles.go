package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPass      = lipgloss.Color("#04B575") // green
	ColorFail      = lipgloss.Color("#FF4040") // red
	ColorException = lipgloss.Color("#FFB800") // yellow
	ColorSnoozed   = lipgloss.Color("#00BFFF") // cyan
	ColorMuted     = lipgloss.Color("#666666") // gray
	ColorLabel     = lipgloss.Color("#AAAAAA") // light gray for labels
)

// Box styles
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	PassBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPass).
			Padding(0, 1)

	FailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFail).
			Padding(0, 1)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorLabel)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorLabel).
			Width(10)

	PassText = lipgloss.NewStyle().
			Foreground(ColorPass).
			Bold(true)

	FailText = lipgloss.NewStyle().
			Foreground(ColorFail).
			Bold(true)

	ExceptionText = lipgloss.NewStyle().
			Foreground(ColorException).
			Bold(true)

	SnoozedText = lipgloss.NewStyle().
			Foreground(ColorSnoozed)

	MutedText = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Indicators
const (
	IconPass      = "✓"
	IconFail      = "✗"
	IconException = "⚠"
	IconSnoozed   = "…"
	IconIgnored   = "·"
)
