package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/provider"
	"github.com/rebelice/datalist/internal/readonly"
	"github.com/rebelice/datalist/internal/ui/theme"
	"github.com/rebelice/datalist/internal/ui/tree"
)

const (
	minColumnWidth = 6
	maxColumnWidth = 40
	lockMarker     = "🔒"
)

// TableView displays the item rows of a widget body with virtual scrolling
type TableView struct {
	Columns []Column
	Width   int
	Height  int
	Style   lipgloss.Style
	Theme   theme.Theme
	Sort    models.SortSpec

	// Virtual scrolling state
	TopRow      int
	VisibleRows int
	SelectedRow int
	SelectedCol int

	ColumnWidths []int

	rows  []tree.Node
	empty string
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{Theme: th}
}

// SetBody reads the rows and the empty message from a widget body
func (tv *TableView) SetBody(body tree.Node, columns []Column, sort models.SortSpec) {
	tv.Columns = columns
	tv.Sort = sort
	tv.rows = tv.rows[:0]
	tv.empty = ""
	for _, n := range body.Children() {
		switch {
		case n.HasClass(tree.ClassHidden):
		case n.HasClass(provider.ClassItem):
			tv.rows = append(tv.rows, n)
		case n.HasClass(provider.ClassEmpty):
			tv.empty = n.Text()
		}
	}
	tv.clampSelection()
	tv.calculateColumnWidths()
}

// Rows returns the number of item rows
func (tv *TableView) Rows() int {
	return len(tv.rows)
}

// SelectedNode returns the item under the cursor, nil without rows
func (tv *TableView) SelectedNode() tree.Node {
	if tv.SelectedRow < 0 || tv.SelectedRow >= len(tv.rows) {
		return nil
	}
	return tv.rows[tv.SelectedRow]
}

// SelectedColumn returns the column under the cursor
func (tv *TableView) SelectedColumn() (Column, bool) {
	if tv.SelectedCol < 0 || tv.SelectedCol >= len(tv.Columns) {
		return Column{}, false
	}
	return tv.Columns[tv.SelectedCol], true
}

// SelectedCell returns the node of the selected row in the selected column
func (tv *TableView) SelectedCell() tree.Node {
	row := tv.SelectedNode()
	if row == nil {
		return nil
	}
	return cellAt(row, tv.SelectedCol)
}

func cellAt(row tree.Node, i int) tree.Node {
	cells := row.Children()
	if i < 0 || i >= len(cells) {
		return nil
	}
	return cells[i]
}

// CellText is the text shown for one cell node
func CellText(n tree.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case tree.KindCheckbox:
		if _, ok := n.Attr(tree.AttrChecked); ok {
			return "[x]"
		}
		return "[ ]"
	case tree.KindTextInput, tree.KindTextarea:
		v, _ := n.Attr(tree.AttrValue)
		return v
	}
	return n.Text()
}

// RowLocked reports whether any node of row carries a read-only mark
func RowLocked(row tree.Node) bool {
	locked := false
	tree.Walk(row, func(n tree.Node) bool {
		if readonly.Locked(n) {
			locked = true
		}
		return !locked
	})
	return locked
}

func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))
	for i, col := range tv.Columns {
		if col.Width > 0 {
			tv.ColumnWidths[i] = col.Width
			continue
		}
		w := lipgloss.Width(tv.headerLabel(col))
		for _, row := range tv.rows {
			if cw := lipgloss.Width(CellText(cellAt(row, i))); cw > w {
				w = cw
			}
		}
		tv.ColumnWidths[i] = min(max(w, minColumnWidth), maxColumnWidth)
	}
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.rows) == 0 {
		msg := tv.empty
		if msg == "" {
			msg = provider.DefaultEmptyBody
		}
		return tv.Style.Render(lipgloss.NewStyle().Foreground(tv.Theme.Metadata).Italic(true).Render(msg))
	}

	var b strings.Builder
	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	tv.VisibleRows = max(tv.Height-3, 1) // header, separator, status
	endRow := min(tv.TopRow+tv.VisibleRows, len(tv.rows))
	for i := tv.TopRow; i < endRow; i++ {
		b.WriteString(tv.renderRow(tv.rows[i], i == tv.SelectedRow))
		b.WriteString("\n")
	}
	b.WriteString(tv.renderStatus())

	return tv.Style.Width(tv.Width).Render(b.String())
}

func (tv *TableView) headerLabel(col Column) string {
	switch tv.Sort.Get(col.Name) {
	case models.SortAscending:
		return col.Title + " ▲"
	case models.SortDescending:
		return col.Title + " ▼"
	}
	return col.Title
}

func (tv *TableView) renderHeader() string {
	parts := make([]string, len(tv.Columns))
	for i, col := range tv.Columns {
		label := pad(tv.headerLabel(col), tv.ColumnWidths[i])
		if i == tv.SelectedCol {
			label = lipgloss.NewStyle().Underline(true).Render(label)
		}
		parts[i] = label
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader).
		Background(tv.Theme.Selection)
	return headerStyle.Render("   " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator() string {
	parts := make([]string, len(tv.ColumnWidths))
	for i, width := range tv.ColumnWidths {
		parts[i] = strings.Repeat("─", width)
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("───" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row tree.Node, selected bool) string {
	parts := make([]string, len(tv.Columns))
	for i := range tv.Columns {
		parts[i] = pad(CellText(cellAt(row, i)), tv.ColumnWidths[i])
	}

	locked := RowLocked(row)
	marker := "  "
	if locked {
		marker = lockMarker
	}
	line := marker + " " + strings.Join(parts, " │ ") + " "

	style := lipgloss.NewStyle()
	if locked {
		style = style.Foreground(tv.Theme.TableLocked).Faint(true)
	}
	if selected {
		style = style.Background(tv.Theme.TableRowSelected).Bold(true)
		if !locked {
			style = style.Foreground(tv.Theme.TableRowSelectedText)
		}
	}
	return style.Render(line)
}

func (tv *TableView) renderStatus() string {
	endRow := min(tv.TopRow+tv.VisibleRows, len(tv.rows))
	showing := fmt.Sprintf(" rows %d-%d of %d", tv.TopRow+1, endRow, len(tv.rows))
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Metadata).
		Italic(true).
		Render(showing)
}

func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		for lipgloss.Width(string(r)) > width-1 && len(r) > 0 {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", width-w)
}

func (tv *TableView) clampSelection() {
	if tv.SelectedRow >= len(tv.rows) {
		tv.SelectedRow = len(tv.rows) - 1
	}
	if tv.SelectedRow < 0 {
		tv.SelectedRow = 0
	}
	if tv.TopRow > tv.SelectedRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.SelectedCol >= len(tv.Columns) {
		tv.SelectedCol = len(tv.Columns) - 1
	}
	if tv.SelectedCol < 0 {
		tv.SelectedCol = 0
	}
}

// MoveSelection moves the selection up or down
func (tv *TableView) MoveSelection(delta int) {
	tv.SelectedRow += delta
	tv.clampSelection()

	if tv.SelectedRow < tv.TopRow {
		tv.TopRow = tv.SelectedRow
	}
	if tv.VisibleRows > 0 && tv.SelectedRow >= tv.TopRow+tv.VisibleRows {
		tv.TopRow = tv.SelectedRow - tv.VisibleRows + 1
	}
}

// MoveColumn moves the column cursor left or right
func (tv *TableView) MoveColumn(delta int) {
	tv.SelectedCol += delta
	tv.clampSelection()
}

// AtBottom reports whether the last row is selected
func (tv *TableView) AtBottom() bool {
	return len(tv.rows) > 0 && tv.SelectedRow == len(tv.rows)-1
}

// PageUp/PageDown
func (tv *TableView) PageUp() {
	tv.SelectedRow -= tv.VisibleRows
	tv.clampSelection()
	tv.TopRow = tv.SelectedRow
}

func (tv *TableView) PageDown() {
	tv.SelectedRow += tv.VisibleRows
	tv.clampSelection()
	tv.TopRow = tv.SelectedRow
	if tv.TopRow+tv.VisibleRows > len(tv.rows) {
		tv.TopRow = max(len(tv.rows)-tv.VisibleRows, 0)
	}
}
