// Package jsonb formats JSON cell values for the detail panel.
package jsonb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// IsJSON reports whether a cell value holds a JSON object or array. Scalars
// are shown as they are.
func IsJSON(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || (value[0] != '{' && value[0] != '[') {
		return false
	}
	return json.Valid([]byte(value))
}

// Type returns the JSON type of value: object, array, string, number, boolean
// or null. Invalid JSON is "text".
func Type(value string) string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		return "text"
	}
	switch parsed.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return "null"
}

// Format pretty-prints a JSON value with two-space indentation, keeping the
// key order of the input
func Format(value string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(value)), "", "  "); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	return buf.String(), nil
}

// Truncate shortens s to at most maxLen runes, cutting at a JSON boundary in
// the second half when there is one
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return string(r[:maxLen])
	}
	cut := string(r[:maxLen-3])
	if i := strings.LastIndexAny(cut, " ,{}[]"); i > len(cut)/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
