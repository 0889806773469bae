// Package output renders command results, errors and progress for the
// terminal.
package output

import "github.com/charmbracelet/lipgloss"

var (
	White = lipgloss.Color("#E2E2E2")
	Gray  = lipgloss.Color("#888888")
	Muted = lipgloss.Color("#555555")
	Blue  = lipgloss.Color("#5FAFFF")

	Green  = lipgloss.Color("#5FD787")
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)

var (
	Title       = lipgloss.NewStyle().Bold(true).Foreground(White)
	Label       = lipgloss.NewStyle().Foreground(Gray).Bold(true)
	MutedText   = lipgloss.NewStyle().Foreground(Muted)
	AccentText  = lipgloss.NewStyle().Foreground(Blue)
	ErrorText   = lipgloss.NewStyle().Foreground(Red).Bold(true)
	SuccessText = lipgloss.NewStyle().Foreground(Green).Bold(true)
	WarningText = lipgloss.NewStyle().Foreground(Yellow).Bold(true)
)

// StatusStyle returns the style for a deployment or audit status.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "ready", "success":
		return lipgloss.NewStyle().Foreground(Green).Bold(true)
	case "pending", "building", "queued", "initializing":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "error", "canceled":
		return lipgloss.NewStyle().Foreground(Red)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// StatusIndicator returns a colored dot followed by the status text.
func StatusIndicator(status string) string {
	style := StatusStyle(status)
	return style.Render("●") + " " + style.Render(status)
}
