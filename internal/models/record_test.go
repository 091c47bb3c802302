package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestDecodeRecordsArray(t *testing.T) {
	records, err := DecodeRecords([]byte(`[{"b":1,"a":"x","c":null,"d":true}]`))
	if err != nil {
		t.Fatalf("DecodeRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	want := []Field{
		{Name: "b", Value: Number(1)},
		{Name: "a", Value: String("x")},
		{Name: "c", Value: Null()},
		{Name: "d", Value: Bool(true)},
	}
	if diff := cmp.Diff(want, records[0].Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRecordsObjectKeepsDocumentOrder(t *testing.T) {
	records, err := DecodeRecords([]byte(`{"9":{"id":9},"1":{"id":1},"5":{"id":5}}`))
	if err != nil {
		t.Fatalf("DecodeRecords failed: %v", err)
	}

	var ids []string
	for _, r := range records {
		v, _ := r.Get("id")
		ids = append(ids, v.String())
	}
	if diff := cmp.Diff([]string{"9", "1", "5"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRecordsNested(t *testing.T) {
	records, err := DecodeRecords([]byte(`[{"tags":["a", "b"],"meta":{"k": 1}}]`))
	if err != nil {
		t.Fatalf("DecodeRecords failed: %v", err)
	}
	tags, _ := records[0].Get("tags")
	meta, _ := records[0].Get("meta")
	if tags.String() != `["a","b"]` {
		t.Errorf("expected compact array, got %s", tags.String())
	}
	if meta.String() != `{"k":1}` {
		t.Errorf("expected compact object, got %s", meta.String())
	}
}

func TestDecodeRecordsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"scalar", `42`},
		{"array of scalars", `[1, 2]`},
		{"truncated", `[{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeRecords([]byte(tt.body)); err == nil {
				t.Errorf("expected error for %s", tt.body)
			}
		})
	}
}

func TestDecodeRecordsEmpty(t *testing.T) {
	for _, body := range []string{"", "null", "[]", "{}"} {
		records, err := DecodeRecords([]byte(body))
		if err != nil {
			t.Errorf("unexpected error for %q: %v", body, err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records for %q, got %d", body, len(records))
		}
	}
}

func TestRecordMarshalKeepsOrder(t *testing.T) {
	r := NewRecord(
		Field{Name: "z", Value: Number(1.5)},
		Field{Name: "a", Value: Null()},
	)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"z":1.5,"a":null}` {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestValueTruthy(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Bool(true), true},
		{String("true"), true},
		{Number(1), true},
		{Number(0), false},
		{String("yes"), false},
		{Null(), false},
	}
	for _, tt := range tests {
		if got := tt.v.Truthy(); got != tt.want {
			t.Errorf("Truthy(%+v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestValueOf(t *testing.T) {
	if v := ValueOf(int32(7)); v.Kind != KindNumber || v.Num != 7 {
		t.Errorf("expected number 7, got %+v", v)
	}
	if v := ValueOf(nil); !v.IsNull() {
		t.Errorf("expected null, got %+v", v)
	}
	if v := ValueOf(map[string]interface{}{"a": 1}); v.String() != `{"a":1}` {
		t.Errorf("expected JSON text, got %s", v.String())
	}

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if v := ValueOf(ts); v.String() != "2024-03-01T12:00:00Z" {
		t.Errorf("expected RFC3339 time, got %s", v.String())
	}

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if v := ValueOf([16]byte(id)); v.String() != id.String() {
		t.Errorf("expected uuid text, got %s", v.String())
	}
}
