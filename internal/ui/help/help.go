package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// Section is a titled group of key bindings
type Section struct {
	Title string
	Keys  []KeyBinding
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"[ / ]", "Back / forward through visited views"},
		{"y", "Copy view location"},
		{"m", "Bookmark this view"},
		{"b", "Open bookmarks"},
	}
}

// GetNavigationKeys returns table and page key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k ↓/j", "Move row cursor"},
		{"←/h →/l", "Move column cursor"},
		{"PgUp/PgDn", "Scroll one screen"},
		{"n / p", "Next / previous page"},
		{"g / G", "First / last page"},
		{"+ / -", "More / fewer rows per page"},
		{"o", "Load more rows"},
	}
}

// GetFilterKeys returns search, filter and sort key bindings
func GetFilterKeys() []KeyBinding {
	return []KeyBinding{
		{"/", "Search"},
		{"f", "Add filter"},
		{"x", "Remove last filter"},
		{"1-9", "Toggle checkbox filter"},
		{"s", "Cycle sort on column"},
	}
}

// GetDataKeys returns editing and export key bindings
func GetDataKeys() []KeyBinding {
	return []KeyBinding{
		{"v", "Show cell value"},
		{"i", "Edit cell"},
		{"space", "Toggle checkbox cell"},
		{"w", "Save row"},
		{"r", "Toggle read-only mode"},
		{"L", "Lock / unlock row"},
		{"e / E", "Export page as CSV / JSON"},
	}
}

// Sections returns every help section in display order
func Sections() []Section {
	return []Section{
		{"Global", GetGlobalKeys()},
		{"Navigation", GetNavigationKeys()},
		{"Search & Filters", GetFilterKeys()},
		{"Data", GetDataKeys()},
	}
}

// ShortHelp is the one-line hint shown in the help bar
func ShortHelp() string {
	return "/ search  f filter  s sort  n/p page  [ ] history  m bookmark  ? help  q quit"
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	var b strings.Builder

	b.WriteString(titleStyle.Render("datalist - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, s := range Sections() {
		b.WriteString(sectionStyle.Render(s.Title))
		b.WriteString("\n")
		for _, kb := range s.Keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(max(width-4, 20))

	return boxStyle.Render(b.String())
}
