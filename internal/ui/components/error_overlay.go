package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/ui/theme"
)

// ErrorOverlay shows one error until dismissed
type ErrorOverlay struct {
	Width   int
	Theme   theme.Theme
	title   string
	message string
}

// NewErrorOverlay creates an error overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{Width: 60, Theme: th}
}

// SetError replaces the shown error
func (e *ErrorOverlay) SetError(title, message string) {
	e.title = title
	e.message = message
}

// Title returns the title of the shown error
func (e *ErrorOverlay) Title() string { return e.title }

// Message returns the text of the shown error
func (e *ErrorOverlay) Message() string { return e.message }

// View renders the overlay
func (e *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Error).
		Bold(true)
	hintStyle := lipgloss.NewStyle().
		Foreground(e.Theme.Metadata).
		Italic(true)

	body := lipgloss.NewStyle().Width(e.Width - 4).Render(e.message)
	content := titleStyle.Render("✗ "+e.title) + "\n\n" + body + "\n\n" + hintStyle.Render("Enter/Esc: dismiss")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(e.Theme.Error).
		Padding(1, 2).
		Width(e.Width).
		Render(content)
}
