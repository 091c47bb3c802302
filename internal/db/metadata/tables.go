package metadata

import (
	"context"
	"fmt"

	"github.com/rebelice/datalist/internal/db/connection"
	"github.com/rebelice/datalist/internal/models"
)

// toString reads a field as text
func toString(row models.Record, name string) string {
	v, ok := row.Get(name)
	if !ok {
		return ""
	}
	return v.String()
}

func toBool(row models.Record, name string) bool {
	v, ok := row.Get(name)
	return ok && v.Truthy()
}

// ListTables returns the base tables of a schema
func ListTables(ctx context.Context, db connection.Querier, schema string) ([]string, error) {
	query := `
		SELECT tablename AS name
		FROM pg_catalog.pg_tables
		WHERE schemaname = $1
		ORDER BY tablename;
	`

	rows, err := db.Query(ctx, query, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, toString(row, "name"))
	}
	return tables, nil
}
