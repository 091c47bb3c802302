package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ValueKind tags the variant held by a Value
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// Value is one field value of a data record
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

func Null() Value            { return Value{Kind: KindNull} }
func String(s string) Value  { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }

// IsNull reports whether the value is null
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value for display. Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// Truthy follows the loose checkbox semantics of the card templates:
// true, "true" and 1 are checked.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num == 1
	case KindString:
		return v.Str == "true" || v.Str == "1"
	}
	return false
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	}
	return []byte("null"), nil
}

// Field is one named value of a record
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered mapping from field name to value
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields, later duplicates overwrite earlier ones
func NewRecord(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Get returns the value of a field
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Null(), false
}

// Set sets a field, keeping its original position if it already exists
func (r *Record) Set(name string, v Value) {
	for i, f := range r.fields {
		if f.Name == name {
			r.fields[i].Value = v
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Fields returns the fields in document order
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Names returns the field names in document order
func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

func (r Record) Len() int { return len(r.fields) }

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	rec, err := decodeRecord(dec)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// DecodeRecords validates a response body and converts it into records.
// The body is either an array of objects or an object whose values are objects;
// in both cases document order is kept.
func DecodeRecords(data []byte) ([]Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, fmt.Errorf("invalid response: expected array or object, got %v", tok)
	}

	var records []Record
	for dec.More() {
		if delim == '{' {
			// keys of an object-of-records are only positional
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("invalid response: %w", err)
			}
		}
		rec, err := decodeRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("invalid record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return records, nil
}

func decodeRecord(dec *json.Decoder) (Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return Record{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Record{}, fmt.Errorf("expected object, got %v", tok)
	}

	var rec Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Record{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Record{}, fmt.Errorf("expected field name, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Record{}, err
		}
		v, err := parseValue(raw)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", key, err)
		}
		rec.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// parseValue narrows a raw JSON value to the scalar union. Nested objects and
// arrays are kept as compact JSON text, the same way the table view shows JSONB.
func parseValue(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Null(), nil
	}
	switch raw[0] {
	case 'n':
		return Null(), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return String(s), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Value{}, err
		}
		return String(buf.String()), nil
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %s", raw)
		}
		return Number(n), nil
	}
}

// ValueOf converts a Go value returned by a database driver into a Value
func ValueOf(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case []byte:
		return String(string(t))
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return String(fmt.Sprintf("%v", t))
		}
		return String(string(b))
	case [16]byte:
		return String(uuid.UUID(t).String())
	case time.Time:
		return String(t.Format(time.RFC3339Nano))
	case json.Marshaler:
		b, err := t.MarshalJSON()
		if err != nil {
			return String(fmt.Sprintf("%v", t))
		}
		if v, err := parseValue(b); err == nil {
			return v
		}
		return String(string(b))
	default:
		return String(fmt.Sprintf("%v", t))
	}
}
