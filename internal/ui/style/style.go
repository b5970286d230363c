// Package style holds the brand colors and icons shared by terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Brand colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

var (
	// Heading renders section titles in CLI reports.
	Heading = lipgloss.NewStyle().Bold(true).Foreground(Iris)
	// Muted renders secondary details.
	Muted = lipgloss.NewStyle().Foreground(Slate)
	// Success renders positive outcomes.
	Success = lipgloss.NewStyle().Foreground(Green)
	// Failure renders errors.
	Failure = lipgloss.NewStyle().Foreground(Red)
	// Caution renders warnings.
	Caution = lipgloss.NewStyle().Foreground(Yellow)
)
