package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/ui/help"
	"github.com/rebelice/datalist/internal/ui/tree"
)

// frame is the part of the screen rendered from the tree
type frame struct {
	header     string
	checkboxes string
	chips      string
	table      string
	footer     string
}

func (a *App) layout() {
	a.tableView.Width = max(a.width-2, 20)
	// header, checkboxes, chips, footer and help bar
	a.tableView.Height = max(a.height-6, 4)
	a.search.Width = min(max(a.width-10, 30), 80)
	a.filterBuilder.Width = min(max(a.width-20, 40), 70)
	a.bookmarksDialog.Width = min(max(a.width-20, 40), 80)
	a.bookmarksDialog.Height = max(a.height-10, 10)
	a.prompt.Width = min(max(a.width-20, 40), 80)
	a.errorOverlay.Width = min(max(a.width-20, 40), 80)
	a.detail.Width = min(max(a.width-10, 40), 100)
	a.detail.Height = max(a.height-4, 8)
}

// renderFrame reads the tree; callers make sure no command is running
func (a *App) renderFrame() frame {
	return frame{
		header:     a.renderHeader(),
		checkboxes: a.renderCheckboxes(),
		chips:      a.chipBar.View(a.chips),
		table:      a.tableView.View(),
		footer:     a.renderFooter(),
	}
}

func (a *App) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.theme.BorderFocused).
		Render("datalist · " + a.widget.ID())

	var badges []string
	if a.widget.Readonly() {
		badges = append(badges, lipgloss.NewStyle().
			Foreground(a.theme.Background).
			Background(a.theme.ReadOnlyBadge).
			Padding(0, 1).
			Render("READ-ONLY"))
	}
	if term := a.widget.State().SearchTerm; term != "" {
		badges = append(badges, lipgloss.NewStyle().
			Foreground(a.theme.Info).
			Render(fmt.Sprintf("search: %q", term)))
	}
	return strings.Join(append([]string{title}, badges...), "  ")
}

func (a *App) renderCheckboxes() string {
	if len(a.checkboxes) == 0 {
		return ""
	}
	parts := make([]string, len(a.checkboxes))
	faint := lipgloss.NewStyle().Foreground(a.theme.Metadata).Faint(true)
	checked := lipgloss.NewStyle().Foreground(a.theme.CheckboxChecked)
	for i, cb := range a.checkboxes {
		mark := "[ ]"
		if cb.Checked() {
			mark = checked.Render("[x]")
		}
		label := fmt.Sprintf("%d %s %s", i+1, mark, a.checkLabels[i])
		if _, disabled := cb.Node.Attr(tree.AttrDisabled); disabled {
			label = faint.Render(label)
		}
		parts[i] = label
	}
	return strings.Join(parts, "   ")
}

func (a *App) renderFooter() string {
	state := a.widget.State()
	pages := "?"
	if state.TotalPages > 0 {
		pages = fmt.Sprintf("%d", state.TotalPages)
	}
	info := lipgloss.NewStyle().
		Foreground(a.theme.Metadata).
		Render(fmt.Sprintf("page %d/%s · %d per page", state.Page, pages, state.PerPage))

	line := a.paginator.View(a.widget.Window()) + "  " + info
	if a.status != "" {
		line += "  " + lipgloss.NewStyle().Foreground(a.theme.Success).Render(a.status)
	}
	return line
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return a.place(a.errorOverlay.View())
	}

	switch a.mode {
	case HelpMode:
		return help.Render(a.width, a.height, a.theme)
	case FilterMode:
		return a.place(a.filterBuilder.View())
	case BookmarksMode:
		return a.place(a.bookmarksDialog.View())
	case PromptMode:
		return a.place(a.prompt.View())
	case DetailMode:
		return a.place(a.detail.View())
	}

	header := a.frame.header
	if a.busy {
		header += "  " + a.spinner.View() + " loading"
	}

	sections := []string{header}
	if a.frame.checkboxes != "" {
		sections = append(sections, a.frame.checkboxes)
	}
	if a.frame.chips != "" {
		sections = append(sections, a.frame.chips)
	}
	sections = append(sections, a.frame.table, a.frame.footer)
	if a.mode == SearchMode {
		sections = append(sections, a.search.View())
	} else if a.config.UI.ShowHelpBar {
		sections = append(sections, lipgloss.NewStyle().Foreground(a.theme.Metadata).Render(help.ShortHelp()))
	}
	return strings.Join(sections, "\n")
}

func (a *App) place(content string) string {
	if a.width == 0 || a.height == 0 {
		return content
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}
