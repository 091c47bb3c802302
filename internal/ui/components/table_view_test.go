package components

import (
	"strings"
	"testing"

	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/provider"
	"github.com/rebelice/datalist/internal/readonly"
	"github.com/rebelice/datalist/internal/ui/theme"
	"github.com/rebelice/datalist/internal/ui/tree"
)

func bodyWithRows(t *testing.T, names ...string) (*tree.Element, []Column) {
	t.Helper()
	cols := []Column{{Name: "name", Title: "Name", Sortable: true, Type: ColumnText}}
	r := NewTableRenderer("t", cols)
	body := tree.New(tree.KindContainer, "body")
	for _, n := range names {
		node, err := r.Render(models.NewRecord(models.Field{Name: "name", Value: models.String(n)}))
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		node.AddClass(provider.ClassItem)
		body.Append(node)
	}
	return body, cols
}

func TestSetBodyCollectsItems(t *testing.T) {
	body, cols := bodyWithRows(t, "ada", "grace")
	body.Append(tree.NewText("hidden", tree.ClassHidden, provider.ClassItem))

	tv := NewTableView(theme.DefaultTheme())
	tv.SetBody(body, cols, models.SortSpec{})

	if tv.Rows() != 2 {
		t.Fatalf("expected 2 rows, got %d", tv.Rows())
	}
	tv.MoveSelection(1)
	if got := CellText(tv.SelectedCell()); got != "grace" {
		t.Errorf("expected grace, got %q", got)
	}
	tv.MoveSelection(5)
	if tv.SelectedRow != 1 {
		t.Errorf("expected selection clamped to 1, got %d", tv.SelectedRow)
	}
	if !tv.AtBottom() {
		t.Error("expected cursor at bottom")
	}
}

func TestViewShowsEmptyMessage(t *testing.T) {
	body := tree.New(tree.KindContainer, "body")
	body.Append(tree.NewText("Nothing here", provider.ClassEmpty))

	tv := NewTableView(theme.DefaultTheme())
	tv.SetBody(body, nil, models.SortSpec{})
	if !strings.Contains(tv.View(), "Nothing here") {
		t.Errorf("expected empty message, got %q", tv.View())
	}
	if tv.SelectedNode() != nil {
		t.Error("expected no selected node")
	}
}

func TestHeaderShowsSortDirection(t *testing.T) {
	body, cols := bodyWithRows(t, "ada")
	var sort models.SortSpec
	sort.Set("name", models.SortDescending)

	tv := NewTableView(theme.DefaultTheme())
	tv.Height = 10
	tv.SetBody(body, cols, sort)
	if !strings.Contains(tv.View(), "Name ▼") {
		t.Errorf("expected descending marker in %q", tv.View())
	}
}

func TestRowLocked(t *testing.T) {
	body, cols := bodyWithRows(t, "ada")
	row := body.Children()[0]
	if RowLocked(row) {
		t.Fatal("expected row to start unlocked")
	}

	readonly.New().Apply(row, readonly.LevelItem)
	if !RowLocked(row) {
		t.Error("expected row to be locked")
	}

	tv := NewTableView(theme.DefaultTheme())
	tv.Height = 10
	tv.SetBody(body, cols, models.SortSpec{})
	if !strings.Contains(tv.View(), lockMarker) {
		t.Error("expected lock marker in view")
	}
}

func TestPad(t *testing.T) {
	if got := pad("abc", 5); got != "abc  " {
		t.Errorf("expected padded string, got %q", got)
	}
	if got := pad("abcdefgh", 5); got != "abcd…" {
		t.Errorf("expected truncated string, got %q", got)
	}
}
