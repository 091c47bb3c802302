package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/provider"
	"github.com/rebelice/datalist/internal/readonly"
	"github.com/rebelice/datalist/internal/ui/theme"
	"github.com/rebelice/datalist/internal/ui/tree"
)

// ChipBar draws the filter chips of a chip container
type ChipBar struct {
	Theme theme.Theme
}

// Chips returns the visible chip nodes of container
func Chips(container tree.Node) []tree.Node {
	if container == nil {
		return nil
	}
	var chips []tree.Node
	for _, n := range container.Children() {
		if n.HasClass(provider.ClassChip) && !n.HasClass(tree.ClassHidden) {
			chips = append(chips, n)
		}
	}
	return chips
}

// View renders the chips of container, numbered from the oldest filter
func (c ChipBar) View(container tree.Node) string {
	chips := Chips(container)
	if len(chips) == 0 {
		return ""
	}
	style := lipgloss.NewStyle().
		Foreground(c.Theme.ChipText).
		Background(c.Theme.Chip).
		Padding(0, 1)
	locked := style.Background(c.Theme.ChipLocked).Foreground(c.Theme.TableLocked)

	parts := make([]string, len(chips))
	for i, chip := range chips {
		if readonly.Locked(chip) {
			parts[i] = locked.Render(chip.Text())
			continue
		}
		parts[i] = style.Render(chip.Text() + " ✕")
	}
	return strings.Join(parts, " ")
}
