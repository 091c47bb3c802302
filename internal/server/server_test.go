package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/rebelice/datalist/internal/db/source"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/query"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	records  []models.Record
	pages    int
	err      error
	lastQ    query.Decoded
	lastForm url.Values
}

func (f *fakeStore) List(ctx context.Context) ([]string, error) {
	return []string{"people"}, f.err
}

func (f *fakeStore) Page(ctx context.Context, table string, q query.Decoded) ([]models.Record, error) {
	if table != "people" {
		return nil, fmt.Errorf("%w: %s", source.ErrUnknownTable, table)
	}
	f.lastQ = q
	return f.records, f.err
}

func (f *fakeStore) Pages(ctx context.Context, table string, q query.Decoded) (int, error) {
	f.lastQ = q
	return f.pages, f.err
}

func (f *fakeStore) Insert(ctx context.Context, table string, form url.Values) (models.Record, error) {
	f.lastForm = form
	if f.err != nil {
		return models.Record{}, f.err
	}
	return models.NewRecord(models.Field{Name: "id", Value: models.Number(1)}), nil
}

func do(t *testing.T, store Store, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	New(store, nil).Router().ServeHTTP(rec, req)
	return rec
}

func TestPage(t *testing.T) {
	store := &fakeStore{records: []models.Record{
		models.NewRecord(
			models.Field{Name: "name", Value: models.String("ada")},
			models.Field{Name: "id", Value: models.Number(1)},
		),
	}}
	target := "/api/people?page=2&perpage=5&search=ad&sort=" + url.QueryEscape(`{"name":"desc"}`)
	rec := do(t, store, httptest.NewRequest(http.MethodGet, target, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); got != `[{"name":"ada","id":1}]` {
		t.Errorf("unexpected body %s", got)
	}
	if store.lastQ.Page != 2 || store.lastQ.PerPage != 5 || store.lastQ.Search != "ad" {
		t.Errorf("unexpected query %+v", store.lastQ)
	}
	if store.lastQ.Sort.Get("name") != models.SortDescending {
		t.Errorf("expected name desc, got %v", store.lastQ.Sort.Columns())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func TestPageEmptyIsArray(t *testing.T) {
	rec := do(t, &fakeStore{}, httptest.NewRequest(http.MethodGet, "/api/people", nil))
	if rec.Body.String() != "[]" {
		t.Errorf("expected [], got %s", rec.Body.String())
	}
}

func TestPages(t *testing.T) {
	store := &fakeStore{pages: 7}
	filters := url.QueryEscape(`[{"filter":"id","operator":">","value":"3"}]`)
	rec := do(t, store, httptest.NewRequest(http.MethodGet, "/api/people/pages?filters="+filters, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "7" {
		t.Errorf("expected 7, got %s", rec.Body.String())
	}
	want := []models.FilterParam{{Filter: "id", Operator: ">", Value: models.StringPtr("3")}}
	if diff := cmp.Diff(want, store.lastQ.Filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		store  *fakeStore
		target string
		want   int
	}{
		{"bad page", &fakeStore{}, "/api/people?page=0", http.StatusBadRequest},
		{"bad filters", &fakeStore{}, "/api/people?filters=nope", http.StatusBadRequest},
		{"unknown table", &fakeStore{}, "/api/ghost", http.StatusNotFound},
		{"invalid query", &fakeStore{err: &source.QueryError{Err: errors.New("unknown column: x")}}, "/api/people", http.StatusBadRequest},
		{"internal", &fakeStore{err: errors.New("connection reset")}, "/api/people", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, tt.store, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Errorf("expected an error body, got %s", rec.Body.String())
			}
		})
	}
}

func TestInternalErrorIsHidden(t *testing.T) {
	rec := do(t, &fakeStore{err: errors.New("password authentication failed")}, httptest.NewRequest(http.MethodGet, "/api/people", nil))
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

func TestInsert(t *testing.T) {
	store := &fakeStore{}
	req := httptest.NewRequest(http.MethodPost, "/api/people", strings.NewReader("name=ada&id=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(t, store, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.lastForm.Get("name") != "ada" {
		t.Errorf("expected name=ada, got %v", store.lastForm)
	}
	if rec.Body.String() != `{"id":1}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestListTables(t *testing.T) {
	rec := do(t, &fakeStore{}, httptest.NewRequest(http.MethodGet, "/api", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != `["people"]` {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
