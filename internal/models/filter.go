package models

import "github.com/rebelice/datalist/internal/ui/tree"

// FilterOperator represents a filter comparison operator
type FilterOperator string

const (
	OpEqual          FilterOperator = "="
	OpNotEqual       FilterOperator = "!="
	OpGreaterThan    FilterOperator = ">"
	OpGreaterOrEqual FilterOperator = ">="
	OpLessThan       FilterOperator = "<"
	OpLessOrEqual    FilterOperator = "<="
	OpLike           FilterOperator = "LIKE"
	OpILike          FilterOperator = "ILIKE"
	OpIn             FilterOperator = "IN"
	OpNotIn          FilterOperator = "NOT IN"
	OpIsNull         FilterOperator = "IS NULL"
	OpIsNotNull      FilterOperator = "IS NOT NULL"
	OpContains       FilterOperator = "@>" // JSONB contains
	OpContainedBy    FilterOperator = "<@" // JSONB contained by
	OpHasKey         FilterOperator = "?"  // JSONB has key
	OpArrayOverlap   FilterOperator = "&&" // Array overlap
)

// NeedsValue reports whether the operator takes a right-hand value
func (op FilterOperator) NeedsValue() bool {
	return op != OpIsNull && op != OpIsNotNull
}

// FilterOrigin is the mechanism that produced a filter
type FilterOrigin string

const (
	OriginCheckbox       FilterOrigin = "checkbox"
	OriginForm           FilterOrigin = "form"
	OriginManual         FilterOrigin = "manual"
	OriginLinkedSelector FilterOrigin = "linked-selector"
)

// Valid reports whether o is a known origin
func (o FilterOrigin) Valid() bool {
	switch o {
	case OriginCheckbox, OriginForm, OriginManual, OriginLinkedSelector:
		return true
	}
	return false
}

// Filter is one active filter of a data provider.
// Operators are opaque to the client side and only validated by the server.
type Filter struct {
	Origin   FilterOrigin
	Key      string
	Operator string
	Value    *string
	Display  string

	// Chip is the node displaying this filter, if any. It is a back-reference
	// and is never owned by the filter.
	Chip tree.Node
}

// Param returns the wire representation of the filter
func (f *Filter) Param() FilterParam {
	return FilterParam{
		Filter:   f.Key,
		Operator: f.Operator,
		Value:    f.Value,
	}
}

// FilterParam is the wire form of a filter sent in the `filters` request parameter
// and stored in history entries
type FilterParam struct {
	Filter   string       `json:"filter"`
	Operator string       `json:"operator"`
	Value    *string      `json:"value,omitempty"`
	Display  string       `json:"display,omitempty"`
	Origin   FilterOrigin `json:"origin,omitempty"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
