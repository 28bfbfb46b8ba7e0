package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestNewThemeWithName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"kanagawa", "kanagawa"},
		{"Kanagawa Dragon", "kanagawa"},
		{"terminal", "terminal"},
		{"ANSI", "terminal"},
		{"", "kanagawa"},
		{"solarized", "kanagawa"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewThemeWithName(tt.input).Name, tt.input)
	}
}

func TestTerminalPaletteUsesANSIColors(t *testing.T) {
	th := NewThemeWithName("terminal")
	assert.Equal(t, lipgloss.Color("1"), th.Colors.Red)
	assert.Equal(t, lipgloss.Color("208"), th.Colors.Orange)
}

func TestThemeFromEnv(t *testing.T) {
	t.Setenv(EnvTheme, "terminal")
	assert.Equal(t, "terminal", getThemeName())
}
