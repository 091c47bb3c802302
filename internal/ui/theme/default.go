package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the 256-color dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		Background: lipgloss.Color("234"),
		Foreground: lipgloss.Color("252"),
		Metadata:   lipgloss.Color("245"),

		Border:        lipgloss.Color("239"),
		BorderFocused: lipgloss.Color("69"),
		Selection:     lipgloss.Color("237"),

		Success: lipgloss.Color("78"),
		Warning: lipgloss.Color("214"),
		Error:   lipgloss.Color("203"),
		Info:    lipgloss.Color("74"),
		Loading: lipgloss.Color("141"),

		TableHeader:          lipgloss.Color("111"),
		TableRowSelected:     lipgloss.Color("24"),
		TableRowSelectedText: lipgloss.Color("231"),
		TableLocked:          lipgloss.Color("243"),

		Chip:            lipgloss.Color("60"),
		ChipText:        lipgloss.Color("230"),
		ChipLocked:      lipgloss.Color("238"),
		CheckboxChecked: lipgloss.Color("114"),

		PageCurrent: lipgloss.Color("222"),
		PageLink:    lipgloss.Color("153"),

		ReadOnlyBadge: lipgloss.Color("172"),
	}
}
