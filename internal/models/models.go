package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SortDirection is the direction a column is sorted in
type SortDirection string

const (
	SortNeutral    SortDirection = ""
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Next returns the next direction in the header toggle cycle:
// neutral -> desc -> asc -> neutral
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortNeutral:
		return SortDescending
	case SortDescending:
		return SortAscending
	default:
		return SortNeutral
	}
}

// ColumnSort is one sorted column
type ColumnSort struct {
	Column    string
	Direction SortDirection
}

// SortSpec is an ordered mapping from column to direction. Insertion order is
// the tie-break order for multi-column sorting.
type SortSpec struct {
	columns []ColumnSort
}

// Get returns the direction a column is sorted in, SortNeutral when unsorted
func (s SortSpec) Get(column string) SortDirection {
	for _, c := range s.columns {
		if c.Column == column {
			return c.Direction
		}
	}
	return SortNeutral
}

// Set sorts a column. SortNeutral removes it; an existing column keeps its position.
func (s *SortSpec) Set(column string, dir SortDirection) {
	for i, c := range s.columns {
		if c.Column != column {
			continue
		}
		if dir == SortNeutral {
			s.columns = append(s.columns[:i], s.columns[i+1:]...)
			return
		}
		s.columns[i].Direction = dir
		return
	}
	if dir != SortNeutral {
		s.columns = append(s.columns, ColumnSort{Column: column, Direction: dir})
	}
}

// Columns returns the sorted columns in tie-break order
func (s SortSpec) Columns() []ColumnSort {
	out := make([]ColumnSort, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s SortSpec) Len() int     { return len(s.columns) }
func (s SortSpec) IsZero() bool { return len(s.columns) == 0 }

// Clone returns an independent copy
func (s SortSpec) Clone() SortSpec {
	return SortSpec{columns: s.Columns()}
}

func (s SortSpec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		dir, err := json.Marshal(string(c.Direction))
		if err != nil {
			return nil, err
		}
		buf.Write(dir)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *SortSpec) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		s.columns = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("sort: expected object, got %v", tok)
	}

	var spec SortSpec
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		column, _ := keyTok.(string)
		var dir string
		if err := dec.Decode(&dir); err != nil {
			return fmt.Errorf("sort %q: %w", column, err)
		}
		switch SortDirection(dir) {
		case SortAscending, SortDescending:
			spec.Set(column, SortDirection(dir))
		case SortNeutral, "neutral":
		default:
			return fmt.Errorf("sort %q: invalid direction %q", column, dir)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = spec
	return nil
}

// ViewState holds the navigation state of one data provider
type ViewState struct {
	Page       int
	PerPage    int
	TotalPages int // 0 until the first page count is known

	SearchTerm string
	Sort       SortSpec

	// BlockLoading is set while the request template is incomplete
	BlockLoading bool
}

// NewViewState creates a ViewState with defaults
func NewViewState(perPage int) ViewState {
	if perPage < 1 {
		perPage = 10
	}
	return ViewState{
		Page:    1,
		PerPage: perPage,
	}
}

// Clone returns an independent copy
func (v ViewState) Clone() ViewState {
	v.Sort = v.Sort.Clone()
	return v
}

// ColumnInfo holds metadata about a column
type ColumnInfo struct {
	Name       string
	DataType   string
	UdtName    string // int4, varchar, _text, ...
	Nullable   bool
	PrimaryKey bool
	IsArray    bool
	IsJsonb    bool
}
