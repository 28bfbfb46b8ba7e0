package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DiagnosticPrefix starts every line the hooks write to the diagnostic channel.
const DiagnosticPrefix = "[Vibe Diary]"

// PrettyLogger provides pretty formatted console output
type PrettyLogger struct {
	writer io.Writer
	styles PrettyStyles
}

// PrettyStyles contains lipgloss styles for different log types
type PrettyStyles struct {
	Success lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Path    lipgloss.Style
}

func stylesFor(r *lipgloss.Renderer) PrettyStyles {
	return PrettyStyles{
		Success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),  // Green
		Key:     r.NewStyle().Foreground(lipgloss.Color("8")),              // Gray
		Value:   r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),  // Cyan
		Path:    r.NewStyle().Foreground(lipgloss.Color("6")).Italic(true), // Dark cyan
	}
}

// NewPrettyLogger creates a pretty logger wrapper writing to stderr
func NewPrettyLogger() *PrettyLogger {
	return NewPrettyLoggerFor(os.Stderr)
}

// NewPrettyLoggerFor creates a pretty logger writing to w. Colors follow the
// capabilities of w and are disabled entirely when NO_COLOR is set.
func NewPrettyLoggerFor(w io.Writer) *PrettyLogger {
	r := lipgloss.NewRenderer(w)
	if termenv.EnvNoColor() {
		r.SetColorProfile(termenv.Ascii)
	}
	return &PrettyLogger{writer: w, styles: stylesFor(r)}
}

// Writer returns the underlying writer.
func (p *PrettyLogger) Writer() io.Writer {
	return p.writer
}

// Diagnostic writes a single unstyled "[Vibe Diary] ..." line. Hook hosts
// may parse these, so the text is never decorated.
func (p *PrettyLogger) Diagnostic(format string, args ...interface{}) {
	fmt.Fprintf(p.writer, "%s %s\n", DiagnosticPrefix, fmt.Sprintf(format, args...))
}

// Success logs a success message with a checkmark
func (p *PrettyLogger) Success(message string) {
	fmt.Fprintf(p.writer, "%s %s\n",
		p.styles.Success.Render("✓"),
		p.styles.Success.Render(message))
}

// Field logs a key-value pair with pretty formatting
func (p *PrettyLogger) Field(key string, value interface{}) {
	fmt.Fprintf(p.writer, "%s: %s\n",
		p.styles.Key.Render(key),
		p.styles.Value.Render(fmt.Sprint(value)))
}

// Path logs a file path with special formatting
func (p *PrettyLogger) Path(label string, path string) {
	fmt.Fprintf(p.writer, "%s: %s\n",
		p.styles.Key.Render(label),
		p.styles.Path.Render(path))
}

