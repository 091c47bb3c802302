package components

import (
	"fmt"

	"github.com/rebelice/datalist/internal/config"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/provider"
	"github.com/rebelice/datalist/internal/readonly"
	"github.com/rebelice/datalist/internal/ui/tree"
)

// Column types understood by the table renderer
const (
	ColumnText     = "text"
	ColumnCheckbox = "checkbox"
)

// KeyColumn is carried as a hidden input so saved rows can be matched
const KeyColumn = "id"

// Column is one column of the table view
type Column struct {
	Name     string
	Title    string
	Width    int
	Sortable bool
	Editable bool
	Type     string
	DataType string
}

// ColumnsFromConfig converts configured columns
func ColumnsFromConfig(cfg []config.ColumnConfig) []Column {
	cols := make([]Column, 0, len(cfg))
	for _, c := range cfg {
		col := Column{
			Name:     c.Name,
			Title:    c.Title,
			Width:    c.Width,
			Sortable: c.Sortable,
			Editable: c.Editable,
			Type:     c.Type,
			DataType: c.DataType,
		}
		if col.Title == "" {
			col.Title = col.Name
		}
		if col.Type == "" {
			col.Type = ColumnText
		}
		if col.DataType == "" {
			col.DataType = "text"
		}
		cols = append(cols, col)
	}
	return cols
}

// TableRenderer renders records into row nodes. Without configured columns
// every field of the record becomes a sortable text column.
type TableRenderer struct {
	columns []Column
	prefix  string
	seq     int
}

// NewTableRenderer creates a renderer whose node ids start with prefix
func NewTableRenderer(prefix string, columns []Column) *TableRenderer {
	return &TableRenderer{columns: columns, prefix: prefix}
}

// Columns returns the columns of rec, the configured ones when set
func (r *TableRenderer) Columns(rec *models.Record) []Column {
	if len(r.columns) > 0 || rec == nil {
		return r.columns
	}
	names := rec.Names()
	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Title: name, Sortable: true, Type: ColumnText, DataType: "text"}
	}
	return cols
}

// Render implements provider.Renderer
func (r *TableRenderer) Render(rec models.Record) (tree.Node, error) {
	if rec.Len() == 0 {
		return nil, fmt.Errorf("record has no fields")
	}

	r.seq++
	rowID := fmt.Sprintf("%s-row-%d", r.prefix, r.seq)
	row := tree.New(tree.KindRow, rowID)

	hasKey := false
	for _, col := range r.Columns(&rec) {
		if col.Name == KeyColumn {
			hasKey = true
		}
		v, _ := rec.Get(col.Name)
		row.Append(r.cell(rowID, col, v))
	}

	if key, ok := rec.Get(KeyColumn); ok && !hasKey {
		n := r.input(rowID, KeyColumn, key)
		n.AddClass(tree.ClassHidden)
		row.Append(n)
	}
	return row, nil
}

func (r *TableRenderer) cell(rowID string, col Column, v models.Value) tree.Node {
	switch {
	case col.Type == ColumnCheckbox:
		n := tree.New(tree.KindCheckbox, rowID+"-"+col.Name)
		n.SetAttr(tree.AttrName, col.Name)
		if v.Truthy() {
			n.SetAttr(tree.AttrChecked, tree.AttrChecked)
		}
		if col.Editable {
			n.AddClass(provider.ClassDataInput, readonly.ClassSensitive)
		}
		return n
	case col.Editable:
		n := r.input(rowID, col.Name, v)
		n.AddClass(readonly.ClassSensitive)
		return n
	default:
		n := tree.New(tree.KindCell, rowID+"-"+col.Name)
		n.SetText(v.String())
		return n
	}
}

func (r *TableRenderer) input(rowID, name string, v models.Value) *tree.Element {
	n := tree.New(tree.KindTextInput, rowID+"-"+name)
	n.AddClass(provider.ClassDataInput)
	n.SetAttr(tree.AttrName, name)
	n.SetAttr(tree.AttrValue, v.String())
	return n
}
