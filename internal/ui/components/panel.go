package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/jsonb"
	"github.com/rebelice/datalist/internal/ui/theme"
)

// Panel shows the full value of one cell. JSON values are pretty-printed.
type Panel struct {
	Title  string
	Width  int
	Height int
	Theme  theme.Theme

	kind   string
	lines  []string
	offset int
}

// NewPanel creates an empty panel
func NewPanel(th theme.Theme) *Panel {
	return &Panel{Width: 70, Height: 20, Theme: th}
}

// SetContent replaces the panel content and scrolls to the top
func (p *Panel) SetContent(title, value string) {
	p.Title = title
	p.offset = 0
	p.kind = "text"
	if jsonb.IsJSON(value) {
		if pretty, err := jsonb.Format(value); err == nil {
			value = pretty
			p.kind = jsonb.Type(value)
		}
	}
	p.lines = strings.Split(value, "\n")
}

// Kind returns the detected type of the content
func (p *Panel) Kind() string { return p.kind }

// Lines returns the content lines
func (p *Panel) Lines() []string { return p.lines }

func (p *Panel) visibleLines() int {
	return max(p.Height-6, 1)
}

// Scroll moves the view by delta lines
func (p *Panel) Scroll(delta int) {
	p.offset = min(max(p.offset+delta, 0), max(len(p.lines)-p.visibleLines(), 0))
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Theme.Foreground).
		Background(p.Theme.Info).
		Padding(0, 1).
		Render(p.Title)
	kind := lipgloss.NewStyle().Foreground(p.Theme.Metadata).Render(" " + p.kind)

	end := min(p.offset+p.visibleLines(), len(p.lines))
	body := make([]string, 0, end-p.offset)
	for _, line := range p.lines[p.offset:end] {
		body = append(body, jsonb.Truncate(line, max(p.Width-4, 4)))
	}

	hint := lipgloss.NewStyle().Foreground(p.Theme.Metadata).Render("↑↓: Scroll  Esc: Close")
	sections := []string{title + kind, "", strings.Join(body, "\n"), "", hint}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Theme.BorderFocused).
		Width(p.Width).
		Padding(0, 1).
		Render(strings.Join(sections, "\n"))
}
