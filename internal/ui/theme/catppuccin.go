package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns a theme on the Catppuccin Mocha palette
// (https://github.com/catppuccin/catppuccin)
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Metadata:   lipgloss.Color("#7f849c"), // Overlay1

		Border:        lipgloss.Color("#585b70"), // Surface2
		BorderFocused: lipgloss.Color("#b4befe"), // Lavender
		Selection:     lipgloss.Color("#313244"), // Surface0

		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#fab387"), // Peach
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#74c7ec"), // Sapphire
		Loading: lipgloss.Color("#f5c2e7"), // Pink

		TableHeader:          lipgloss.Color("#89b4fa"), // Blue
		TableRowSelected:     lipgloss.Color("#45475a"), // Surface1
		TableRowSelectedText: lipgloss.Color("#f5e0dc"), // Rosewater
		TableLocked:          lipgloss.Color("#6c7086"), // Overlay0

		Chip:            lipgloss.Color("#cba6f7"), // Mauve
		ChipText:        lipgloss.Color("#11111b"), // Crust
		ChipLocked:      lipgloss.Color("#313244"), // Surface0
		CheckboxChecked: lipgloss.Color("#94e2d5"), // Teal

		PageCurrent: lipgloss.Color("#f9e2af"), // Yellow
		PageLink:    lipgloss.Color("#89dceb"), // Sky

		ReadOnlyBadge: lipgloss.Color("#eba0ac"), // Maroon
	}
}
