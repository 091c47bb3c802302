package app

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebelice/datalist/internal/export"
	"github.com/rebelice/datalist/internal/provider"
	"github.com/rebelice/datalist/internal/readonly"
	"github.com/rebelice/datalist/internal/ui/components"
	"github.com/rebelice/datalist/internal/ui/tree"
)

func writeClipboard(s string) error {
	return clipboard.WriteAll(s)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case HelpMode:
		switch key {
		case "?", "esc", "q":
			a.mode = NormalMode
		}
		return a, nil
	case DetailMode:
		switch key {
		case "esc", "q", "v", "enter":
			a.mode = NormalMode
		case "up", "k":
			a.detail.Scroll(-1)
		case "down", "j":
			a.detail.Scroll(1)
		case "pgup":
			a.detail.Scroll(-10)
		case "pgdown":
			a.detail.Scroll(10)
		}
		return a, nil
	case SearchMode, FilterMode, BookmarksMode, PromptMode:
		return a.handleModeMsg(msg)
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.mode = HelpMode
		return a, nil
	}

	// everything below reads or changes the tree
	if a.busy {
		a.log.Debug().Str("key", key).Msg("key ignored while a command runs")
		return a, nil
	}

	switch key {
	case "up", "k":
		a.tableView.MoveSelection(-1)
	case "down", "j":
		a.tableView.MoveSelection(1)
	case "left", "h":
		a.tableView.MoveColumn(-1)
	case "right", "l":
		a.tableView.MoveColumn(1)
	case "pgup", "ctrl+u":
		a.tableView.PageUp()
	case "pgdown", "ctrl+d":
		a.tableView.PageDown()

	case "/":
		a.mode = SearchMode
		return a, a.search.Open(a.widget.State().SearchTerm)
	case "f":
		a.filterBuilder.SetColumns(a.columns())
		a.mode = FilterMode
	case "x":
		return a, a.removeLastFilter()
	case "s":
		return a, a.toggleSort()

	case "n":
		return a, a.run("next page", a.widget.NextPage)
	case "p":
		return a, a.run("previous page", a.widget.PrevPage)
	case "g":
		return a, a.run("first page", func(ctx context.Context) error {
			return a.widget.GoToPage(ctx, 1)
		})
	case "G":
		return a, a.run("last page", a.widget.LastPage)
	case "+", "=":
		return a, a.stepPerPage(1)
	case "-":
		return a, a.stepPerPage(-1)
	case "o":
		return a, a.run("load more", a.widget.LoadMore)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return a, a.toggleCheckbox(int(key[0] - '1'))

	case "r":
		if a.widget.Readonly() {
			a.widget.DisableReadonlyMode()
			a.status = "read-only mode off"
		} else {
			a.widget.EnableReadonlyMode()
			a.status = "read-only mode on"
		}
		a.refresh()
	case "L":
		a.toggleItemLock()

	case "[":
		if a.stack.Back() {
			return a, a.run("navigate", a.widget.Navigated)
		}
		a.status = "no earlier view"
	case "]":
		if a.stack.Forward() {
			return a, a.run("navigate", a.widget.Navigated)
		}
		a.status = "no later view"

	case "y":
		loc := a.stack.Current().String()
		if err := a.clipboard(loc); err != nil {
			a.showErr("Clipboard Error", err)
			return a, nil
		}
		a.status = "copied " + loc
	case "m":
		if a.bookmarks == nil {
			a.status = "bookmarks are not available"
			return a, nil
		}
		a.bookmarksDialog.SetBookmarks(a.bookmarks.GetAll())
		a.mode = BookmarksMode
		return a, a.bookmarksDialog.StartAdd()
	case "b":
		if a.bookmarks == nil {
			a.status = "bookmarks are not available"
			return a, nil
		}
		a.bookmarksDialog.SetBookmarks(a.bookmarks.GetAll())
		a.mode = BookmarksMode
	case "e":
		a.exportPage(export.FormatCSV)
	case "E":
		a.exportPage(export.FormatJSON)

	case "v":
		a.showDetail()
	case "i":
		return a, a.startEditCell()
	case " ":
		a.toggleCheckboxCell()
	case "w":
		return a, a.saveRow()
	}
	return a, nil
}

func (a *App) removeLastFilter() tea.Cmd {
	stored := a.widget.Filters().Stored()
	if len(stored) == 0 {
		a.status = "no filters to remove"
		return nil
	}
	last := stored[len(stored)-1]
	return a.run("remove filter", func(ctx context.Context) error {
		return a.widget.RemoveFilter(ctx, last)
	})
}

func (a *App) toggleSort() tea.Cmd {
	col, ok := a.tableView.SelectedColumn()
	if !ok {
		return nil
	}
	if !col.Sortable {
		a.status = col.Title + " is not sortable"
		return nil
	}
	return a.run("sort", func(ctx context.Context) error {
		_, err := a.widget.ToggleSort(ctx, col.Name)
		return err
	})
}

// stepPerPage moves to the next or previous configured page size
func (a *App) stepPerPage(delta int) tea.Cmd {
	options := a.config.Provider.PerPageOptions
	if len(options) == 0 {
		return nil
	}
	current := a.widget.State().PerPage
	idx := -1
	for i, n := range options {
		if n == current {
			idx = i
			break
		}
	}
	next := idx + delta
	if idx < 0 {
		next = 0
	}
	if next < 0 || next >= len(options) {
		return nil
	}
	perPage := options[next]
	return a.run("per page", func(ctx context.Context) error {
		return a.widget.SetPerPage(ctx, perPage)
	})
}

func (a *App) toggleCheckbox(i int) tea.Cmd {
	if i < 0 || i >= len(a.checkboxes) {
		return nil
	}
	cb := a.checkboxes[i]
	if _, disabled := cb.Node.Attr(tree.AttrDisabled); disabled {
		a.status = "read-only"
		return nil
	}
	cb.Toggle()
	return a.run("checkbox", a.widget.CheckboxChanged)
}

func (a *App) toggleItemLock() {
	row := a.tableView.SelectedNode()
	if row == nil {
		return
	}
	if row.HasClass(readonly.ClassItem) {
		a.widget.EnableItem(row, false)
	} else {
		a.widget.DisableItem(row, false)
	}
	a.refresh()
}

// editable reports whether a control accepts edits, i.e. it is a data input
// that carries no disabled or readonly attribute
func editable(n tree.Node) bool {
	if n == nil || !n.HasClass(provider.ClassDataInput) || n.HasClass(tree.ClassHidden) {
		return false
	}
	if _, ok := n.Attr(tree.AttrDisabled); ok {
		return false
	}
	_, ok := n.Attr(tree.AttrReadonly)
	return !ok
}

func (a *App) showDetail() {
	cell := a.tableView.SelectedCell()
	if cell == nil {
		return
	}
	col, _ := a.tableView.SelectedColumn()
	a.detail.SetContent(col.Title, components.CellText(cell))
	a.mode = DetailMode
}

func (a *App) startEditCell() tea.Cmd {
	cell := a.tableView.SelectedCell()
	if cell == nil || cell.Kind() != tree.KindTextInput {
		a.status = "cell is not editable"
		return nil
	}
	if !editable(cell) {
		a.status = "read-only"
		return nil
	}
	col, _ := a.tableView.SelectedColumn()
	value, _ := cell.Attr(tree.AttrValue)
	a.mode = PromptMode
	return a.prompt.Open(promptEditCell, col.Title+":", value)
}

func (a *App) editCell(value string) {
	cell := a.tableView.SelectedCell()
	if a.busy || !editable(cell) {
		return
	}
	cell.SetAttr(tree.AttrValue, value)
	a.status = "row modified, w to save"
	a.refresh()
}

func (a *App) toggleCheckboxCell() {
	cell := a.tableView.SelectedCell()
	if cell == nil || cell.Kind() != tree.KindCheckbox || !editable(cell) {
		return
	}
	if _, ok := cell.Attr(tree.AttrChecked); ok {
		cell.RemoveAttr(tree.AttrChecked)
	} else {
		cell.SetAttr(tree.AttrChecked, tree.AttrChecked)
	}
	a.status = "row modified, w to save"
	a.refresh()
}

func (a *App) saveRow() tea.Cmd {
	row := a.tableView.SelectedNode()
	if row == nil {
		return nil
	}
	if components.RowLocked(row) {
		a.status = "read-only"
		return nil
	}
	return a.runWithStatus("save", "row saved", func(ctx context.Context) error {
		if _, err := a.widget.SaveRow(ctx, row); err != nil {
			return err
		}
		return a.widget.Load(ctx, false, false)
	})
}

func (a *App) exportPage(format export.Format) {
	if a.exportDir == "" {
		a.status = "export directory is not set"
		return
	}
	path, err := export.Export(a.widget.Records(), a.exportDir, a.widget.ID(), format, time.Now())
	if err != nil {
		a.showErr("Export Failed", err)
		return
	}
	a.status = fmt.Sprintf("exported %d rows to %s", len(a.widget.Records()), path)
}
