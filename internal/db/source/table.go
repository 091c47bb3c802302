// Package source serves widget queries from Postgres tables.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/rebelice/datalist/internal/db/connection"
	"github.com/rebelice/datalist/internal/db/metadata"
	"github.com/rebelice/datalist/internal/filter"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/pagination"
	"github.com/rebelice/datalist/internal/query"
)

var (
	// ErrUnknownTable is returned for tables outside the served schema
	ErrUnknownTable = errors.New("unknown table")
	// ErrInvalidQuery is matched by QueryError
	ErrInvalidQuery = errors.New("invalid query")
)

// QueryError reports a request the table cannot answer, such as a filter on
// an unknown column
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string { return e.Err.Error() }
func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool {
	return target == ErrInvalidQuery
}

// Options configures a Tables source
type Options struct {
	Schema         string
	MaxPerPage     int
	DefaultPerPage int
	SearchColumns  []string
}

// Tables answers page, count and insert requests for the tables of one schema
type Tables struct {
	db   connection.Querier
	opts Options

	mu      sync.Mutex
	columns map[string][]models.ColumnInfo
}

// NewTables creates a source over db
func NewTables(db connection.Querier, opts Options) *Tables {
	if opts.Schema == "" {
		opts.Schema = "public"
	}
	if opts.DefaultPerPage < 1 {
		opts.DefaultPerPage = 10
	}
	return &Tables{
		db:      db,
		opts:    opts,
		columns: make(map[string][]models.ColumnInfo),
	}
}

// List returns the names of the served tables
func (t *Tables) List(ctx context.Context) ([]string, error) {
	return metadata.ListTables(ctx, t.db, t.opts.Schema)
}

// Columns returns the column metadata of a table, cached after the first call
func (t *Tables) Columns(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	t.mu.Lock()
	cols, ok := t.columns[table]
	t.mu.Unlock()
	if ok {
		return cols, nil
	}

	cols, err := metadata.GetTableColumns(ctx, t.db, t.opts.Schema, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	t.mu.Lock()
	t.columns[table] = cols
	t.mu.Unlock()
	return cols, nil
}

// Page returns the records of one page
func (t *Tables) Page(ctx context.Context, table string, q query.Decoded) ([]models.Record, error) {
	b, err := t.builder(ctx, table)
	if err != nil {
		return nil, err
	}
	sql, args, err := BuildSelect(t.opts.Schema, table, b, q, t.limit(q))
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	records, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return records, nil
}

// Pages returns the number of pages the query spans
func (t *Tables) Pages(ctx context.Context, table string, q query.Decoded) (int, error) {
	b, err := t.builder(ctx, table)
	if err != nil {
		return 0, err
	}
	sql, args, err := BuildCount(t.opts.Schema, table, b, q)
	if err != nil {
		return 0, &QueryError{Err: err}
	}
	rows, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	count, _ := rows[0].Get("count")
	return pagination.PageCount(int64(count.Num), t.limit(q)), nil
}

// Insert adds a row built from form values and returns it as stored
func (t *Tables) Insert(ctx context.Context, table string, form url.Values) (models.Record, error) {
	cols, err := t.Columns(ctx, table)
	if err != nil {
		return models.Record{}, err
	}
	sql, args, err := BuildInsert(t.opts.Schema, table, cols, form)
	if err != nil {
		return models.Record{}, &QueryError{Err: err}
	}
	rows, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		return models.Record{}, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	if len(rows) == 0 {
		return models.Record{}, nil
	}
	return rows[0], nil
}

func (t *Tables) builder(ctx context.Context, table string) (*filter.Builder, error) {
	cols, err := t.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	return filter.NewBuilder(cols, t.opts.SearchColumns), nil
}

func (t *Tables) limit(q query.Decoded) int {
	n := q.PerPage
	if n < 1 {
		n = t.opts.DefaultPerPage
	}
	if t.opts.MaxPerPage > 0 && n > t.opts.MaxPerPage {
		n = t.opts.MaxPerPage
	}
	return n
}

func qualified(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}

// BuildSelect generates the page query. The offset counts rows past the start of the page.
func BuildSelect(schema, table string, b *filter.Builder, q query.Decoded, limit int) (string, []interface{}, error) {
	where, args, err := b.BuildWhere(q.Filters, q.Search)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(qualified(schema, table))
	if where != "" {
		sb.WriteString(" ")
		sb.WriteString(where)
	}

	if cols := q.Sort.Columns(); len(cols) > 0 {
		order := make([]string, 0, len(cols))
		for _, c := range cols {
			name, err := b.Quote(c.Column)
			if err != nil {
				return "", nil, err
			}
			order = append(order, name+" "+strings.ToUpper(string(c.Direction)))
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(order, ", "))
	}

	// offset counts the items already shown on the requested page
	offset := max(q.Page-1, 0)*limit + max(q.Offset, 0)
	fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", limit, offset)
	return sb.String(), args, nil
}

// BuildCount generates the row count query of the filtered table
func BuildCount(schema, table string, b *filter.Builder, q query.Decoded) (string, []interface{}, error) {
	where, args, err := b.BuildWhere(q.Filters, q.Search)
	if err != nil {
		return "", nil, err
	}
	sql := "SELECT COUNT(*) AS count FROM " + qualified(schema, table)
	if where != "" {
		sql += " " + where
	}
	return sql, args, nil
}

// BuildInsert generates an INSERT for the form fields naming known columns.
// Values are cast from text to the column type.
func BuildInsert(schema, table string, cols []models.ColumnInfo, form url.Values) (string, []interface{}, error) {
	known := make(map[string]models.ColumnInfo, len(cols))
	for _, c := range cols {
		known[c.Name] = c
	}

	names := make([]string, 0, len(form))
	for name := range form {
		if _, ok := known[name]; !ok {
			return "", nil, fmt.Errorf("unknown column: %s", name)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", nil, fmt.Errorf("no values to insert")
	}
	sort.Strings(names)

	quoted := make([]string, len(names))
	params := make([]string, len(names))
	args := make([]interface{}, len(names))
	for i, name := range names {
		quoted[i] = pgx.Identifier{name}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
		if udt := known[name].UdtName; udt != "" {
			params[i] = fmt.Sprintf("$%d::text::%s", i+1, pgx.Identifier{udt}.Sanitize())
		}
		args[i] = form.Get(name)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		qualified(schema, table), strings.Join(quoted, ", "), strings.Join(params, ", "))
	return sql, args, nil
}
