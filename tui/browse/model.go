// Package browse is the interactive list of diary posts.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/vibediary/pkg/diary"
	"github.com/grovetools/vibediary/tui/theme"
)

// KeyMap holds the bindings of the browser on top of the list defaults.
type KeyMap struct {
	Select key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "print path"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// postItem implements list.Item for a diary post.
type postItem struct {
	post diary.PostInfo
}

func (i postItem) FilterValue() string {
	return i.post.Metadata.Project + " " + i.post.Name
}

func (i postItem) Title() string {
	if i.post.Metadata.Title != "" {
		return i.post.Metadata.Title
	}
	return i.post.Name
}

func (i postItem) Description() string {
	var parts []string
	if i.post.Metadata.Date != "" {
		parts = append(parts, i.post.Metadata.Date)
	}
	if len(i.post.Metadata.Tags) > 0 {
		parts = append(parts, strings.Join(i.post.Metadata.Tags, ", "))
	}
	parts = append(parts, i.post.Name)
	return strings.Join(parts, " · ")
}

// Model lists posts and records the one chosen with Enter.
type Model struct {
	list     list.Model
	keys     KeyMap
	selected string
	quitting bool
}

// New creates the browser for posts.
func New(posts []diary.PostInfo) Model {
	t := theme.DefaultTheme

	items := make([]list.Item, 0, len(posts))
	for _, p := range posts {
		items = append(items, postItem{post: p})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(t.Colors.Orange).BorderForeground(t.Colors.Orange)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(t.Colors.Violet).BorderForeground(t.Colors.Orange)

	keys := DefaultKeyMap()
	l := list.New(items, delegate, 80, 20)
	l.Title = fmt.Sprintf("Diary posts (%d)", len(posts))
	l.Styles.Title = t.Header
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select}
	}

	return Model{list: l, keys: keys}
}

// Selected returns the path chosen with Enter, or "".
func (m Model) Selected() string {
	return m.selected
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// While the filter input is active keys belong to it.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Select):
			if item, ok := m.list.SelectedItem().(postItem); ok {
				m.selected = item.post.Path
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}
