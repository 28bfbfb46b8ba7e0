package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/vibediary/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// AnnotationNotes is the command annotation rendered as the NOTES section of
// the help page. Blank lines separate paragraphs.
const AnnotationNotes = "vibediary.notes"

const (
	maxHelpWidth = 72
	minHelpWidth = 40
)

// SetStyledHelp installs the vibediary help page on cmd.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(renderHelp)
}

// ApplyStyledHelpRecursive installs the help page on cmd and every
// subcommand. Usage output is suppressed; errors go through ErrorHandler.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(renderHelp)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// helpWidth is the wrap width: the terminal width when w is one, capped at
// maxHelpWidth.
func helpWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return maxHelpWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < minHelpWidth || width > maxHelpWidth {
		return maxHelpWidth
	}
	return width
}

type helpPrinter struct {
	w       io.Writer
	t       *theme.Theme
	width   int
	title   lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	sub     lipgloss.Style
	flag    lipgloss.Style
}

func newHelpPrinter(w io.Writer) *helpPrinter {
	t := theme.DefaultTheme
	return &helpPrinter{
		w:       w,
		t:       t,
		width:   helpWidth(w) - 2,
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange),
		heading: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange),
		name:    lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue),
		sub:     lipgloss.NewStyle().Foreground(t.Colors.Cyan),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
	}
}

func (p *helpPrinter) line(s string) {
	fmt.Fprintln(p.w, " "+s)
}

func (p *helpPrinter) section(name string) {
	fmt.Fprintln(p.w)
	p.line(p.heading.Render(name))
}

func (p *helpPrinter) text(s string, style *lipgloss.Style) {
	for _, l := range strings.Split(wrapText(s, p.width), "\n") {
		if style != nil && l != "" {
			l = style.Render(l)
		}
		p.line(l)
	}
}

func renderHelp(cmd *cobra.Command, _ []string) {
	p := newHelpPrinter(cmd.OutOrStdout())
	p.line(p.title.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := splitExamples(cmd.Long)
	if cmd.Short != "" {
		p.text(cmd.Short, &p.t.Italic)
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(p.w)
		p.text(description, nil)
	}

	p.usage(cmd)
	p.commands(cmd)
	p.flags(cmd)

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		p.section("EXAMPLES")
		p.examples(examples, cmd.Root().Name())
	}

	if notes := strings.TrimSpace(cmd.Annotations[AnnotationNotes]); notes != "" {
		p.section("NOTES")
		p.text(notes, nil)
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(p.w)
		p.line(p.t.Muted.Render(fmt.Sprintf("Use \"%s [command] --help\" for more information.", cmd.CommandPath())))
	}
}

func (p *helpPrinter) usage(cmd *cobra.Command) {
	if !cmd.Runnable() && !cmd.HasAvailableSubCommands() {
		return
	}
	p.section("USAGE")
	if cmd.Runnable() {
		p.line(cmd.UseLine())
	}
	if cmd.HasAvailableSubCommands() {
		p.line(cmd.CommandPath() + " [command]")
	}
}

// commands lists the available subcommands with their aliases, since hook
// hosts are often configured with the alias.
func (p *helpPrinter) commands(cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	labels := map[*cobra.Command]string{}
	longest := 0
	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		label := sub.Name()
		if len(sub.Aliases) > 0 {
			label += " (" + strings.Join(sub.Aliases, ", ") + ")"
		}
		labels[sub] = label
		if len(label) > longest {
			longest = len(label)
		}
	}

	p.section("COMMANDS")
	for _, sub := range cmd.Commands() {
		label, ok := labels[sub]
		if !ok {
			continue
		}
		pad := strings.Repeat(" ", longest-len(label))
		p.line(p.name.Render(label) + pad + "  " + sub.Short)
	}
}

// flags lists the command's own flags in full. Flags inherited from a parent
// are summarised on one line so every page stays short.
func (p *helpPrinter) flags(cmd *cobra.Command) {
	var own, inherited []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			own = append(own, f)
		}
	})
	cmd.InheritedFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			inherited = append(inherited, f)
		}
	})

	if len(own) > 0 {
		p.section("FLAGS")
		longest := 0
		for _, f := range own {
			if n := len(flagLabel(f)); n > longest {
				longest = n
			}
		}
		for _, f := range own {
			label := flagLabel(f)
			usage := f.Usage
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
				usage += p.t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
			}
			p.line(p.flag.Render(label) + strings.Repeat(" ", longest-len(label)) + "  " + usage)
		}
	}

	if len(inherited) > 0 {
		names := make([]string, 0, len(inherited))
		for _, f := range inherited {
			names = append(names, "--"+f.Name)
		}
		fmt.Fprintln(p.w)
		p.line(p.t.Muted.Render("Global flags: " + strings.Join(names, ", ")))
	}
}

func (p *helpPrinter) examples(examples, root string) {
	for _, l := range strings.Split(examples, "\n") {
		trimmed := strings.TrimSpace(l)
		switch {
		case trimmed == "":
			fmt.Fprintln(p.w)
		case strings.HasPrefix(trimmed, "#"):
			p.line(p.t.Muted.Render(trimmed))
		default:
			p.line("  " + p.styleExample(trimmed, root))
		}
	}
}

// styleExample colours the binary, the first subcommand and the flags of an
// example invocation. Redirections and arguments stay plain.
func (p *helpPrinter) styleExample(example, root string) string {
	words := strings.Fields(example)
	for i, w := range words {
		switch {
		case i == 0 && w == root:
			words[i] = p.name.Render(w)
		case strings.HasPrefix(w, "-"):
			words[i] = p.flag.Render(w)
		case i == 1:
			words[i] = p.sub.Render(w)
		}
	}
	return strings.Join(words, " ")
}

func flagLabel(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}

// splitExamples separates a trailing "Examples:" block from a long
// description.
func splitExamples(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return strings.TrimSpace(long), ""
}

// wrapText wraps each paragraph of text at width, keeping existing line
// breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxHelpWidth
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if len(para) <= width {
			out = append(out, para)
			continue
		}
		var cur string
		for _, word := range strings.Fields(para) {
			switch {
			case cur == "":
				cur = word
			case len(cur)+1+len(word) <= width:
				cur += " " + word
			default:
				out = append(out, cur)
				cur = word
			}
		}
		if cur != "" {
			out = append(out, cur)
		}
	}
	return strings.Join(out, "\n")
}
