package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/pagination"
	"github.com/rebelice/datalist/internal/ui/theme"
)

// Paginator draws a pagination window on one line
type Paginator struct {
	Theme theme.Theme
}

// View renders w. Placeholder slots keep their width so the line does not
// shift near the first and last page.
func (p Paginator) View(w pagination.Window) string {
	if len(w.Slots) == 0 {
		return ""
	}

	enabled := lipgloss.NewStyle().Foreground(p.Theme.PageLink)
	disabled := lipgloss.NewStyle().Foreground(p.Theme.Metadata).Faint(true)
	current := lipgloss.NewStyle().Foreground(p.Theme.PageCurrent).Bold(true).Underline(true)

	pick := func(off bool) lipgloss.Style {
		if off {
			return disabled
		}
		return enabled
	}

	width := 1
	for _, s := range w.Slots {
		if s.Kind == pagination.SlotPage {
			width = max(width, len(strconv.Itoa(s.Page)))
		}
	}

	parts := make([]string, 0, len(w.Slots)+2)
	parts = append(parts, pick(w.PrevDisabled).Render("‹"))
	for _, s := range w.Slots {
		switch s.Kind {
		case pagination.SlotEllipsis:
			parts = append(parts, disabled.Render(padLeft("…", width)))
		case pagination.SlotPlaceholder:
			parts = append(parts, strings.Repeat(" ", width))
		default:
			label := padLeft(strconv.Itoa(s.Page), width)
			if s.Current {
				parts = append(parts, current.Render(label))
			} else {
				parts = append(parts, enabled.Render(label))
			}
		}
	}
	parts = append(parts, pick(w.NextDisabled).Render("›"))
	return strings.Join(parts, " ")
}

func padLeft(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
