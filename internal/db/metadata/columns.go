package metadata

import (
	"context"
	"fmt"

	"github.com/rebelice/datalist/internal/db/connection"
	"github.com/rebelice/datalist/internal/models"
)

// GetTableColumns retrieves column metadata for a table
func GetTableColumns(ctx context.Context, db connection.Querier, schema, table string) ([]models.ColumnInfo, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			c.is_nullable = 'YES' AS nullable,
			CASE WHEN c.data_type = 'ARRAY' THEN true ELSE false END AS is_array,
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON kcu.constraint_name = tc.constraint_name
					AND kcu.table_schema = tc.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
					AND tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND kcu.column_name = c.column_name
			) AS primary_key
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := db.Query(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	columns := make([]models.ColumnInfo, 0, len(rows))
	for _, row := range rows {
		col := models.ColumnInfo{
			Name:       toString(row, "column_name"),
			DataType:   toString(row, "data_type"),
			Nullable:   toBool(row, "nullable"),
			PrimaryKey: toBool(row, "primary_key"),
			IsArray:    toBool(row, "is_array"),
		}
		col.UdtName = toString(row, "udt_name")
		col.IsJsonb = col.UdtName == "jsonb"
		columns = append(columns, col)
	}

	return columns, nil
}
