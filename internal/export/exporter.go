// Package export writes records to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebelice/datalist/internal/models"
)

// Format names an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Columns returns the field names of records in order of first appearance
func Columns(records []models.Record) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		for _, name := range rec.Names() {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	return columns
}

// ExportToCSV writes records to a CSV file with a header row. Missing and
// null fields are written as empty cells.
func ExportToCSV(records []models.Record, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	columns := Columns(records)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			v, _ := rec.Get(col)
			row[i] = v.String()
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportToJSON writes records to an indented JSON array, field order kept
func ExportToJSON(records []models.Record, path string) error {
	if records == nil {
		records = []models.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records to JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// Export writes records into dir under a timestamped name and returns the path
func Export(records []models.Record, dir, name string, format Format, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' || r == ':' {
			return '_'
		}
		return r
	}, name)
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.%s", name, now.Format("20060102-150405"), format))

	switch format {
	case FormatCSV:
		return path, ExportToCSV(records, path)
	case FormatJSON:
		return path, ExportToJSON(records, path)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}
