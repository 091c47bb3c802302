package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortDirectionNext(t *testing.T) {
	dir := SortNeutral
	var got []SortDirection
	for i := 0; i < 4; i++ {
		dir = dir.Next()
		got = append(got, dir)
	}
	want := []SortDirection{SortDescending, SortAscending, SortNeutral, SortDescending}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("toggle cycle mismatch (-want +got):\n%s", diff)
	}
}

func TestSortSpecSet(t *testing.T) {
	var s SortSpec
	s.Set("name", SortAscending)
	s.Set("id", SortDescending)
	s.Set("name", SortDescending)

	want := []ColumnSort{
		{Column: "name", Direction: SortDescending},
		{Column: "id", Direction: SortDescending},
	}
	if diff := cmp.Diff(want, s.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	s.Set("name", SortNeutral)
	if s.Len() != 1 || s.Get("name") != SortNeutral {
		t.Errorf("expected name to be removed, got %v", s.Columns())
	}
}

func TestSortSpecJSONKeepsOrder(t *testing.T) {
	var s SortSpec
	s.Set("zeta", SortAscending)
	s.Set("alpha", SortDescending)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"zeta":"asc","alpha":"desc"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var back SortSpec
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(s.Columns(), back.Columns()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSortSpecUnmarshalRejectsDirection(t *testing.T) {
	var s SortSpec
	if err := json.Unmarshal([]byte(`{"a":"up"}`), &s); err == nil {
		t.Error("expected error for invalid direction")
	}
	if err := json.Unmarshal([]byte(`{"a":"neutral","b":"asc"}`), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 1 || s.Get("b") != SortAscending {
		t.Errorf("expected only b to be sorted, got %v", s.Columns())
	}
}

func TestViewStateDefaults(t *testing.T) {
	v := NewViewState(0)
	if v.Page != 1 || v.PerPage != 10 || v.TotalPages != 0 {
		t.Errorf("unexpected defaults: %+v", v)
	}
}

func TestViewStateCloneIsIndependent(t *testing.T) {
	v := NewViewState(25)
	v.Sort.Set("id", SortAscending)
	c := v.Clone()
	c.Sort.Set("id", SortDescending)

	if v.Sort.Get("id") != SortAscending {
		t.Error("expected clone to not share sort state")
	}
}
