package filter

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rebelice/datalist/internal/models"
)

// Builder generates SQL WHERE clauses from wire filters for one table
type Builder struct {
	columns       map[string]models.ColumnInfo
	searchColumns []string
}

// NewBuilder creates a builder that only accepts the given columns.
// searchColumns are matched with ILIKE against the search term.
func NewBuilder(columns []models.ColumnInfo, searchColumns []string) *Builder {
	b := &Builder{columns: make(map[string]models.ColumnInfo, len(columns))}
	for _, c := range columns {
		b.columns[c.Name] = c
	}
	for _, name := range searchColumns {
		if _, ok := b.columns[name]; ok {
			b.searchColumns = append(b.searchColumns, name)
		}
	}
	return b
}

// HasColumn reports whether a column may be used in the generated SQL
func (b *Builder) HasColumn(name string) bool {
	_, ok := b.columns[name]
	return ok
}

// Quote returns the quoted identifier of a known column
func (b *Builder) Quote(name string) (string, error) {
	if !b.HasColumn(name) {
		return "", fmt.Errorf("unknown column: %s", name)
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

// BuildWhere generates a WHERE clause from filters and a search term.
// Placeholders start at $1.
func (b *Builder) BuildWhere(filters []models.FilterParam, search string) (string, []interface{}, error) {
	var clauses []string
	var args []interface{}

	for _, f := range filters {
		clause, condArgs, err := b.buildCondition(f, len(args)+1)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, clause)
		args = append(args, condArgs...)
	}

	if search != "" && len(b.searchColumns) > 0 {
		args = append(args, "%"+search+"%")
		var ors []string
		for _, col := range b.searchColumns {
			ors = append(ors, fmt.Sprintf("%s::text ILIKE $%d", pgx.Identifier{col}.Sanitize(), len(args)))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, nil
}

// buildCondition builds a single filter condition
func (b *Builder) buildCondition(f models.FilterParam, paramIndex int) (string, []interface{}, error) {
	column, err := b.Quote(f.Filter)
	if err != nil {
		return "", nil, err
	}
	info := b.columns[f.Filter]

	op := models.FilterOperator(strings.ToUpper(strings.TrimSpace(f.Operator)))
	if op.NeedsValue() && f.Value == nil {
		return "", nil, fmt.Errorf("filter %s %s requires a value", f.Filter, f.Operator)
	}

	switch op {
	case models.OpIsNull:
		return fmt.Sprintf("%s IS NULL", column), nil, nil
	case models.OpIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", column), nil, nil
	case models.OpEqual, models.OpNotEqual, models.OpGreaterThan, models.OpGreaterOrEqual,
		models.OpLessThan, models.OpLessOrEqual:
		return fmt.Sprintf("%s %s %s", column, op, scalarParam(info, paramIndex)), []interface{}{*f.Value}, nil
	case models.OpLike, models.OpILike:
		return fmt.Sprintf("%s::text %s $%d", column, op, paramIndex), []interface{}{*f.Value}, nil
	case models.OpIn:
		return fmt.Sprintf("%s = ANY(%s)", column, listParam(info, paramIndex)), []interface{}{splitList(*f.Value)}, nil
	case models.OpNotIn:
		return fmt.Sprintf("NOT (%s = ANY(%s))", column, listParam(info, paramIndex)), []interface{}{splitList(*f.Value)}, nil
	case models.OpContains, models.OpContainedBy:
		// jsonb or array containment, the right side has the column type
		return fmt.Sprintf("%s %s %s", column, op, containerParam(info, paramIndex)), []interface{}{containerArg(info, *f.Value)}, nil
	case models.OpHasKey:
		return fmt.Sprintf("%s ? $%d::text", column, paramIndex), []interface{}{*f.Value}, nil
	case models.OpArrayOverlap:
		return fmt.Sprintf("%s && %s", column, containerParam(info, paramIndex)), []interface{}{splitList(*f.Value)}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator: %s", f.Operator)
	}
}

// scalarParam casts a text argument to the column type. Arguments are always
// sent as text, so the server does the conversion.
func scalarParam(c models.ColumnInfo, n int) string {
	if c.UdtName == "" || strings.HasPrefix(c.UdtName, "_") {
		return fmt.Sprintf("$%d", n)
	}
	return fmt.Sprintf("$%d::text::%s", n, pgx.Identifier{c.UdtName}.Sanitize())
}

// listParam casts a text array argument to an array of the column type
func listParam(c models.ColumnInfo, n int) string {
	if c.UdtName == "" || strings.HasPrefix(c.UdtName, "_") {
		return fmt.Sprintf("$%d", n)
	}
	return fmt.Sprintf("$%d::text[]::%s[]", n, pgx.Identifier{c.UdtName}.Sanitize())
}

func containerParam(c models.ColumnInfo, n int) string {
	switch {
	case c.UdtName == "":
		return fmt.Sprintf("$%d", n)
	case c.IsArray:
		return fmt.Sprintf("$%d::text[]::%s", n, pgx.Identifier{c.UdtName}.Sanitize())
	default:
		return fmt.Sprintf("$%d::text::%s", n, pgx.Identifier{c.UdtName}.Sanitize())
	}
}

func containerArg(c models.ColumnInfo, value string) interface{} {
	if c.IsArray {
		return splitList(value)
	}
	return value
}

// splitList turns "a, b,c" into a text array argument
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// OperatorsForType returns available operators for a given PostgreSQL type
func OperatorsForType(dataType string) []models.FilterOperator {
	switch {
	case strings.Contains(dataType, "int") || strings.Contains(dataType, "numeric") ||
		strings.Contains(dataType, "real") || strings.Contains(dataType, "double"):
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpGreaterThan, models.OpGreaterOrEqual,
			models.OpLessThan, models.OpLessOrEqual,
			models.OpIn, models.OpNotIn,
			models.OpIsNull, models.OpIsNotNull,
		}
	case strings.Contains(dataType, "char") || strings.Contains(dataType, "text"):
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpLike, models.OpILike,
			models.OpIn, models.OpNotIn,
			models.OpIsNull, models.OpIsNotNull,
		}
	case strings.Contains(dataType, "jsonb"):
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpContains, models.OpContainedBy, models.OpHasKey,
			models.OpIsNull, models.OpIsNotNull,
		}
	case strings.Contains(dataType, "ARRAY"):
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpArrayOverlap, models.OpContains, models.OpContainedBy,
			models.OpIsNull, models.OpIsNotNull,
		}
	case strings.Contains(dataType, "bool"):
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpIsNull, models.OpIsNotNull,
		}
	case strings.Contains(dataType, "date") || strings.Contains(dataType, "time"):
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpGreaterThan, models.OpGreaterOrEqual,
			models.OpLessThan, models.OpLessOrEqual,
			models.OpIsNull, models.OpIsNotNull,
		}
	default:
		return []models.FilterOperator{
			models.OpEqual, models.OpNotEqual,
			models.OpIsNull, models.OpIsNotNull,
		}
	}
}
