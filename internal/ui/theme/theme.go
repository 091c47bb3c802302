// Package theme holds the color palettes of the data browser.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps each browser surface to a color
type Theme struct {
	Name string

	Background lipgloss.Color
	Foreground lipgloss.Color
	Metadata   lipgloss.Color

	// Dialog and panel frames
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	Selection     lipgloss.Color

	// Status line and overlays
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
	Loading lipgloss.Color

	// Item table. Locked rows carry an item read-only mark.
	TableHeader          lipgloss.Color
	TableRowSelected     lipgloss.Color
	TableRowSelectedText lipgloss.Color
	TableLocked          lipgloss.Color

	// Filter chips and checkbox bar
	Chip            lipgloss.Color
	ChipText        lipgloss.Color
	ChipLocked      lipgloss.Color
	CheckboxChecked lipgloss.Color

	// Paginator slots
	PageCurrent lipgloss.Color
	PageLink    lipgloss.Color

	// Widget-wide read-only badge
	ReadOnlyBadge lipgloss.Color
}

// Names lists the built-in themes
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}

// GetTheme returns a theme by name. Unknown names fall back to the default theme.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha", "catppuccin":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
