// Package tui holds the terminal UI pieces of vibediary.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI sets the lipgloss color profile when CLICOLOR_FORCE=1 or
// COLORTERM=truecolor asks for color on a stream that is not a terminal,
// as happens when the browser is driven by a test harness.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
