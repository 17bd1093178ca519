package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Done: green, the work is behind you
	colorDone = color.New(color.FgGreen)

	// In progress: yellow to make it pop
	colorActive = color.New(color.FgYellow)

	// Due reminders and failures: bold red
	colorAlert = color.New(color.FgRed, color.Bold)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: bold cyan
	colorStats = color.New(color.FgCyan, color.Bold)

	// Muted: for secondary information and past cells
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatDone(s string) string {
	return colorDone.Sprint(s)
}

func formatActive(s string) string {
	return colorActive.Sprint(s)
}

func formatAlert(s string) string {
	return colorAlert.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
