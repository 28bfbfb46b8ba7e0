// Package table renders the styled listings printed by the sessions and
// posts commands.
package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/vibediary/tui/theme"
)

// Options configures a rendered table.
type Options struct {
	Bordered bool
	Theme    *theme.Theme
}

// DefaultOptions returns a bordered table in the default theme.
func DefaultOptions() Options {
	return Options{
		Bordered: true,
		Theme:    theme.DefaultTheme,
	}
}

// Builder provides a fluent interface for creating styled tables
type Builder struct {
	headers []string
	rows    [][]string
	options Options
}

// NewBuilder creates a new table builder
func NewBuilder() *Builder {
	return &Builder{options: DefaultOptions()}
}

// WithTheme sets the theme
func (b *Builder) WithTheme(t *theme.Theme) *Builder {
	b.options.Theme = t
	return b
}

// WithBorder enables or disables the border
func (b *Builder) WithBorder(bordered bool) *Builder {
	b.options.Bordered = bordered
	return b
}

// WithHeaders sets the table headers
func (b *Builder) WithHeaders(headers ...string) *Builder {
	b.headers = headers
	return b
}

// WithRows appends rows
func (b *Builder) WithRows(rows ...[]string) *Builder {
	b.rows = append(b.rows, rows...)
	return b
}

// Build creates the styled table.
func (b *Builder) Build() *ltable.Table {
	t := b.options.Theme
	if t == nil {
		t = theme.DefaultTheme
	}

	table := ltable.New()
	if b.options.Bordered {
		table = table.
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border))
	} else {
		table = table.Border(lipgloss.HiddenBorder())
	}
	if len(b.headers) > 0 {
		table = table.Headers(b.headers...)
	}

	// Header row index is ltable.HeaderRow; data rows start at 0.
	table = table.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return t.Header.Padding(0, 1)
		}
		return lipgloss.NewStyle().Padding(0, 1)
	})

	for _, r := range b.rows {
		table = table.Row(r...)
	}
	return table
}

// String renders the table.
func (b *Builder) String() string {
	return b.Build().String()
}

// SimpleTable creates a basic table with headers and rows
func SimpleTable(headers []string, rows [][]string) string {
	return NewBuilder().WithHeaders(headers...).WithRows(rows...).String()
}

// StatusTable renders label/value pairs without a border, labels muted.
func StatusTable(items [][2]string) string {
	t := theme.DefaultTheme
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{t.Muted.Render(item[0] + ":"), item[1]})
	}
	return NewBuilder().WithBorder(false).WithRows(rows...).String()
}
