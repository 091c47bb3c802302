package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rebelice/datalist/internal/filter"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/navigation"
	"github.com/rebelice/datalist/internal/query"
	"github.com/rebelice/datalist/internal/readonly"
	"github.com/rebelice/datalist/internal/ui/tree"
)

type fakeFetcher struct {
	mu     sync.Mutex
	gets   []string
	posts  []url.Values
	data   string
	pages  int
	getErr error

	// block, when set, holds data requests until it is closed
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeFetcher) Get(ctx context.Context, rawURL string) (json.RawMessage, error) {
	f.mu.Lock()
	f.gets = append(f.gets, rawURL)
	block, entered, err := f.block, f.entered, f.getErr
	f.mu.Unlock()

	if strings.Contains(rawURL, "/pages") {
		return json.RawMessage(fmt.Sprintf("%d", f.pages)), nil
	}
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(f.data), nil
}

func (f *fakeFetcher) Post(ctx context.Context, rawURL string, form url.Values) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, "POST "+rawURL)
	f.posts = append(f.posts, form)
	return json.RawMessage(`{"ok":true}`), nil
}

func (f *fakeFetcher) dataRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, g := range f.gets {
		if !strings.Contains(g, "/pages") {
			out = append(out, g)
		}
	}
	return out
}

func (f *fakeFetcher) lastData(t *testing.T) url.Values {
	t.Helper()
	reqs := f.dataRequests()
	if len(reqs) == 0 {
		t.Fatal("expected a data request")
	}
	u, err := url.Parse(reqs[len(reqs)-1])
	if err != nil {
		t.Fatalf("invalid request url: %v", err)
	}
	return u.Query()
}

// rowRenderer renders a row with a checkbox bound to the "done" field
var rowRenderer = RendererFunc(func(rec models.Record) (tree.Node, error) {
	id, _ := rec.Get("id")
	row := tree.New(tree.KindRow, "row-"+id.String())
	cb := tree.New(tree.KindCheckbox, "done-"+id.String())
	if done, _ := rec.Get("done"); done.Truthy() {
		cb.SetAttr(tree.AttrChecked, tree.AttrChecked)
	}
	row.Append(cb)
	return row, nil
})

func newTestWidget(t *testing.T, f *fakeFetcher, mutate func(*Options)) (*Widget, *tree.Element) {
	t.Helper()
	body := tree.New(tree.KindContainer, "body")
	opts := Options{
		ID:       "users",
		DataURL:  "http://api.test/users",
		Body:     body,
		Fetcher:  f,
		Renderer: rowRenderer,
		Features: Features{Pagination: true, Search: true, Sort: true, Filters: true},
	}
	if mutate != nil {
		mutate(&opts)
	}
	w, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return w, body
}

func TestNewConstructionErrors(t *testing.T) {
	valid := Options{
		ID:       "w",
		DataURL:  "http://x",
		Body:     tree.New(tree.KindContainer, "b"),
		Fetcher:  &fakeFetcher{},
		Renderer: rowRenderer,
	}
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"id", func(o *Options) { o.ID = "" }},
		{"data url", func(o *Options) { o.DataURL = "" }},
		{"body", func(o *Options) { o.Body = nil }},
		{"fetcher", func(o *Options) { o.Fetcher = nil }},
		{"renderer", func(o *Options) { o.Renderer = nil }},
		{"navigator", func(o *Options) { o.Features.History = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			var reported error
			opts.OnError = func(err error) { reported = err }
			tt.mutate(&opts)

			_, err := New(opts)
			if !errors.Is(err, ErrConstruction) {
				t.Fatalf("expected ErrConstruction, got %v", err)
			}
			if reported != err {
				t.Errorf("expected OnError to see the construction error")
			}
		})
	}
}

func TestLoadRendersRecords(t *testing.T) {
	f := &fakeFetcher{data: `[{"id":1,"done":true},{"id":2,"done":false}]`, pages: 4}
	w, body := newTestWidget(t, f, nil)

	if err := w.Load(context.Background(), false, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if body.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", body.Len())
	}
	if !body.Children()[0].HasClass(ClassItem) {
		t.Error("expected rendered items to carry the item class")
	}
	if w.State().TotalPages != 4 {
		t.Errorf("expected 4 total pages, got %d", w.State().TotalPages)
	}
	if !w.Window().PrevDisabled || w.Window().NextDisabled {
		t.Errorf("unexpected paginator controls: %+v", w.Window())
	}
	if len(w.Records()) != 2 {
		t.Errorf("expected 2 records, got %d", len(w.Records()))
	}
	if w.Loading() {
		t.Error("expected loading to be cleared")
	}
}

func TestLoadIsMutuallyExclusive(t *testing.T) {
	f := &fakeFetcher{
		data:    `[{"id":1}]`,
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	w, _ := newTestWidget(t, f, func(o *Options) { o.Features.Pagination = false })

	done := make(chan error, 1)
	go func() { done <- w.Load(context.Background(), false, false) }()

	select {
	case <-f.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first load never reached the fetcher")
	}

	if !w.Loading() {
		t.Error("expected loading while the fetch is outstanding")
	}
	if err := w.Load(context.Background(), false, false); err != nil {
		t.Errorf("expected dropped load to return nil, got %v", err)
	}
	if got := len(f.dataRequests()); got != 1 {
		t.Errorf("expected exactly one in-flight fetch, got %d", got)
	}

	close(f.block)
	if err := <-done; err != nil {
		t.Fatalf("first load failed: %v", err)
	}
	if w.Loading() {
		t.Error("expected loading to be cleared after the first load")
	}
}

func TestLoadResetsPageBeforeBuildingRequest(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 9}
	w, _ := newTestWidget(t, f, nil)

	if err := w.GoToPage(context.Background(), 5); err != nil {
		t.Fatalf("GoToPage failed: %v", err)
	}
	if got := f.lastData(t).Get("page"); got != "5" {
		t.Fatalf("expected page=5, got %s", got)
	}

	if err := w.Load(context.Background(), true, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := f.lastData(t).Get("page"); got != "1" {
		t.Errorf("expected page=1 after reset, got %s", got)
	}
	if w.State().Page != 1 {
		t.Errorf("expected state page 1, got %d", w.State().Page)
	}
}

func TestLoadErrorResetsLoading(t *testing.T) {
	f := &fakeFetcher{data: `[{"id":1}]`, pages: 1}
	spinner := tree.New(tree.KindText, "spinner")
	container := tree.New(tree.KindContainer, "controls")
	var reported []error
	w, body := newTestWidget(t, f, func(o *Options) {
		o.Spinner = spinner
		o.DisableContainer = container
		o.HideBodyDuringLoad = true
		o.OnError = func(err error) { reported = append(reported, err) }
	})

	if err := w.Load(context.Background(), false, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	f.getErr = errors.New("connection refused")
	err := w.Load(context.Background(), false, false)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
	var lerr *LoadError
	if !errors.As(err, &lerr) || lerr.Op != "fetch" {
		t.Errorf("expected fetch LoadError, got %v", err)
	}
	if w.Loading() {
		t.Error("expected loading to be reset after a failure")
	}
	if body.Len() != 1 {
		t.Errorf("expected last good content to be kept, got %d items", body.Len())
	}
	if !spinner.HasClass(tree.ClassHidden) || body.HasClass(tree.ClassHidden) {
		t.Error("expected loading affordances to be restored")
	}
	if _, ok := container.Attr(tree.AttrDisabled); ok {
		t.Error("expected disable container to be re-enabled")
	}
	if len(reported) != 1 || reported[0] != err {
		t.Errorf("expected OnError to see the load error, got %v", reported)
	}

	f.getErr = nil
	if err := w.Load(context.Background(), false, false); err != nil {
		t.Errorf("expected the widget to load again, got %v", err)
	}
}

func TestRenderErrorDoesNotAbortBatch(t *testing.T) {
	f := &fakeFetcher{data: `[{"id":1},{"id":2},{"id":3}]`}
	var reported []error
	w, body := newTestWidget(t, f, func(o *Options) {
		o.Features.Pagination = false
		o.Renderer = RendererFunc(func(rec models.Record) (tree.Node, error) {
			if id, _ := rec.Get("id"); id.String() == "2" {
				return nil, errors.New("unknown template")
			}
			return rowRenderer(rec)
		})
		o.OnError = func(err error) { reported = append(reported, err) }
	})

	if err := w.Load(context.Background(), false, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if body.Len() != 2 {
		t.Errorf("expected 2 rendered items, got %d", body.Len())
	}
	var rerr *RenderError
	if len(reported) != 1 || !errors.As(reported[0], &rerr) || rerr.Index != 1 {
		t.Errorf("expected one RenderError for item 1, got %v", reported)
	}
}

func TestEmptyBody(t *testing.T) {
	f := &fakeFetcher{data: `[]`}
	w, body := newTestWidget(t, f, func(o *Options) { o.Features.Pagination = false })

	if err := w.Load(context.Background(), false, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if body.Len() != 1 {
		t.Fatalf("expected the empty placeholder, got %d children", body.Len())
	}
	empty := body.Children()[0]
	if !empty.HasClass(ClassEmpty) || empty.Text() != DefaultEmptyBody {
		t.Errorf("unexpected placeholder: %q", empty.Text())
	}

	if err := w.LoadMore(context.Background()); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if body.Len() != 1 {
		t.Errorf("expected no second placeholder when content is kept, got %d", body.Len())
	}
}

func TestLoadMoreAppendsWithOffset(t *testing.T) {
	f := &fakeFetcher{data: `[{"id":1},{"id":2}]`}
	w, body := newTestWidget(t, f, func(o *Options) {
		o.Features = Features{InfiniteScroll: true}
	})

	ctx := context.Background()
	if err := w.Load(ctx, false, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := f.lastData(t).Get("offset"); got != "0" {
		t.Errorf("expected offset 0, got %s", got)
	}
	if err := w.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if got := f.lastData(t).Get("offset"); got != "2" {
		t.Errorf("expected offset 2, got %s", got)
	}
	if body.Len() != 4 {
		t.Errorf("expected 4 items, got %d", body.Len())
	}
}

func TestLoadMoreOffsetCountsUnrenderedRecords(t *testing.T) {
	f := &fakeFetcher{data: `[{"id":1},{"id":2},{"id":3}]`}
	w, body := newTestWidget(t, f, func(o *Options) {
		o.Features = Features{InfiniteScroll: true}
		o.Renderer = RendererFunc(func(rec models.Record) (tree.Node, error) {
			if id, _ := rec.Get("id"); id.String() == "2" {
				return nil, errors.New("unknown template")
			}
			return rowRenderer(rec)
		})
	})

	ctx := context.Background()
	if err := w.Load(ctx, false, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if body.Len() != 2 {
		t.Fatalf("expected 2 rendered items, got %d", body.Len())
	}
	if err := w.LoadMore(ctx); err != nil {
		t.Fatalf("LoadMore failed: %v", err)
	}
	if got := f.lastData(t).Get("offset"); got != "3" {
		t.Errorf("expected offset 3, got %s", got)
	}
}

func TestPreAndPostLoadHooks(t *testing.T) {
	f := &fakeFetcher{data: `[{"id":1},{"id":2}]`}
	var created []int
	w, body := newTestWidget(t, f, func(o *Options) {
		o.Features.Pagination = false
		o.PreLoad = func(req *query.Request) { req.Set("tenant", "7") }
		o.PostLoad = func(records []models.Record) []models.Record { return records[:1] }
		o.OnItemCreated = func(index int, rec models.Record, node tree.Node) tree.Node {
			created = append(created, index)
			return tree.NewText("replaced")
		}
	})

	if err := w.Load(context.Background(), false, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := f.lastData(t).Get("tenant"); got != "7" {
		t.Errorf("expected PreLoad parameter, got %q", got)
	}
	if body.Len() != 1 || body.Children()[0].Text() != "replaced" {
		t.Errorf("expected one replaced node, got %d", body.Len())
	}
	if diff := cmp.Diff([]int{0}, created); diff != "" {
		t.Errorf("OnItemCreated mismatch (-want +got):\n%s", diff)
	}
}

func TestCountURLDefault(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 2}
	w, _ := newTestWidget(t, f, func(o *Options) { o.DataURL = "http://api.test/users/?tenant=1" })

	if err := w.Load(context.Background(), false, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, count, _ := w.URLs()
	if count != "http://api.test/users/pages?tenant=1" {
		t.Errorf("unexpected count url: %s", count)
	}
}

func TestFilterCommands(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 1}
	chips := tree.New(tree.KindContainer, "chips")
	var added []string
	w, _ := newTestWidget(t, f, func(o *Options) {
		o.ChipContainer = chips
		o.OnFilterAdded = func(f *models.Filter) { added = append(added, f.Key) }
	})
	ctx := context.Background()

	status, err := w.AddFilter(ctx, "status", "=", models.StringPtr("active"), "Status = active")
	if err != nil {
		t.Fatalf("AddFilter failed: %v", err)
	}
	if _, err := w.AddFilter(ctx, "status", "=", models.StringPtr("inactive"), "Status = inactive"); !errors.Is(err, filter.ErrDuplicateFilter) {
		t.Fatalf("expected duplicate filter error, got %v", err)
	}
	if chips.Len() != 1 || status.Chip == nil || status.Chip.Text() != "Status = active" {
		t.Errorf("expected one chip bound to the filter")
	}

	want := `[{"filter":"status","operator":"=","value":"active"}]`
	if got := f.lastData(t).Get("filters"); got != want {
		t.Errorf("expected filters %s, got %s", want, got)
	}

	if err := w.RemoveFilter(ctx, status); err != nil {
		t.Fatalf("RemoveFilter failed: %v", err)
	}
	if chips.Len() != 0 {
		t.Error("expected chip to be removed with its filter")
	}
	if got := f.lastData(t).Get("filters"); got != "" {
		t.Errorf("expected no filters parameter, got %s", got)
	}
	if diff := cmp.Diff([]string{"status"}, added); diff != "" {
		t.Errorf("OnFilterAdded mismatch (-want +got):\n%s", diff)
	}
}

func TestLinkedFilterReplaces(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 1}
	w, _ := newTestWidget(t, f, nil)
	ctx := context.Background()

	if err := w.SetLinkedFilter(ctx, "team", "=", models.StringPtr("1")); err != nil {
		t.Fatalf("SetLinkedFilter failed: %v", err)
	}
	if err := w.SetLinkedFilter(ctx, "team", "=", models.StringPtr("2")); err != nil {
		t.Fatalf("SetLinkedFilter failed: %v", err)
	}
	active := w.ActiveFilters()
	if len(active) != 1 || *active[0].Value != "2" || active[0].Origin != models.OriginLinkedSelector {
		t.Errorf("unexpected active filters: %+v", active)
	}

	if _, err := w.AddManualFilter(ctx, "owner", "=", models.StringPtr("me"), ""); err != nil {
		t.Fatalf("AddManualFilter failed: %v", err)
	}
	if err := w.SetLinkedFilter(ctx, "owner", "=", models.StringPtr("x")); !errors.Is(err, filter.ErrDuplicateFilter) {
		t.Errorf("expected linked filter to not replace a manual one, got %v", err)
	}

	if err := w.SetLinkedFilter(ctx, "team", "=", nil); err != nil {
		t.Fatalf("SetLinkedFilter failed: %v", err)
	}
	if len(w.ActiveFilters()) != 1 {
		t.Errorf("expected the linked filter to be removed")
	}
}

func TestCheckboxFilterIsSentLive(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 1}
	cb := filter.NewNodeCheckbox("active-cb", "active", &filter.Rule{Operator: "=", Value: models.StringPtr("1")}, nil)
	w, _ := newTestWidget(t, f, func(o *Options) { o.Checkboxes = []filter.Checkbox{cb} })
	ctx := context.Background()

	cb.Toggle()
	if err := w.CheckboxChanged(ctx); err != nil {
		t.Fatalf("CheckboxChanged failed: %v", err)
	}
	if got := f.lastData(t).Get("filters"); got != `[{"filter":"active","operator":"=","value":"1"}]` {
		t.Errorf("unexpected filters: %s", got)
	}
	if w.Filters().Len() != 0 {
		t.Errorf("expected checkbox filters to not be stored")
	}
}

func TestToggleSortCycle(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 1}
	w, _ := newTestWidget(t, f, nil)
	ctx := context.Background()

	var dirs []models.SortDirection
	for i := 0; i < 3; i++ {
		dir, err := w.ToggleSort(ctx, "name")
		if err != nil {
			t.Fatalf("ToggleSort failed: %v", err)
		}
		dirs = append(dirs, dir)
		if i == 0 {
			if got := f.lastData(t).Get("sort"); got != `{"name":"desc"}` {
				t.Errorf("unexpected sort parameter: %s", got)
			}
		}
	}
	want := []models.SortDirection{models.SortDescending, models.SortAscending, models.SortNeutral}
	if diff := cmp.Diff(want, dirs); diff != "" {
		t.Errorf("sort cycle mismatch (-want +got):\n%s", diff)
	}
	if got := f.lastData(t).Get("sort"); got != "" {
		t.Errorf("expected neutral sort to be omitted, got %s", got)
	}
}

func TestPaging(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 3}
	w, _ := newTestWidget(t, f, nil)
	ctx := context.Background()

	if err := w.PrevPage(ctx); err != nil {
		t.Fatal(err)
	}
	if len(f.dataRequests()) != 0 {
		t.Error("expected previous on page 1 to do nothing")
	}

	_ = w.Load(ctx, false, false)
	_ = w.NextPage(ctx)
	_ = w.LastPage(ctx)
	if w.State().Page != 3 {
		t.Errorf("expected page 3, got %d", w.State().Page)
	}
	before := len(f.dataRequests())
	_ = w.NextPage(ctx)
	if len(f.dataRequests()) != before {
		t.Error("expected next on the last page to do nothing")
	}

	if err := w.SetPerPage(ctx, 0); err == nil {
		t.Error("expected error for per page 0")
	}
	_ = w.SetPerPage(ctx, 50)
	if got := f.lastData(t).Get("perpage"); got != "50" {
		t.Errorf("expected perpage=50, got %s", got)
	}
}

func TestSearch(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 5}
	w, _ := newTestWidget(t, f, nil)
	ctx := context.Background()

	_ = w.GoToPage(ctx, 3)
	if err := w.Search(ctx, "  bob "); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	q := f.lastData(t)
	if q.Get("search") != "bob" || q.Get("page") != "1" {
		t.Errorf("unexpected query: %v", q)
	}
}

func TestDynamicURL(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 1}
	w, _ := newTestWidget(t, f, func(o *Options) {
		o.DataURL = "http://api.test/teams/{team}/users"
		o.SaveURL = "http://api.test/teams/{team}/users"
		o.Features.DynamicURL = true
	})
	ctx := context.Background()

	if err := w.Load(ctx, false, false); err != nil {
		t.Fatal(err)
	}
	if len(f.dataRequests()) != 0 {
		t.Fatal("expected load to be blocked until the url is filled")
	}

	if err := w.ModifyURL(ctx, map[string]string{"{team}": "42"}); err != nil {
		t.Fatalf("ModifyURL failed: %v", err)
	}
	data, count, save := w.URLs()
	if data != "http://api.test/teams/42/users" || count != "http://api.test/teams/42/users/pages" || save != data {
		t.Errorf("unexpected urls: %s %s %s", data, count, save)
	}
	if len(f.dataRequests()) != 1 {
		t.Errorf("expected one data request after ModifyURL, got %d", len(f.dataRequests()))
	}
}

func TestHistoryPersistAndRestore(t *testing.T) {
	f := &fakeFetcher{data: `[]`, pages: 9}
	start, _ := url.Parse("datalist://browse")
	nav := navigation.NewStack(start)
	w, _ := newTestWidget(t, f, func(o *Options) {
		o.Features.History = true
		o.Navigator = nav
	})
	ctx := context.Background()

	if err := w.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := w.AddFilter(ctx, "status", "=", models.StringPtr("open"), "Status = open"); err != nil {
		t.Fatal(err)
	}
	_ = w.GoToPage(ctx, 4)
	_ = w.Search(ctx, "bob")
	_, _ = w.ToggleSort(ctx, "name")
	if nav.Len() != 6 {
		t.Fatalf("expected one location per load, got %d", nav.Len())
	}

	// a fresh widget mounted on the same location reproduces the state
	w2, _ := newTestWidget(t, &fakeFetcher{data: `[]`, pages: 9}, func(o *Options) {
		o.Features.History = true
		o.Navigator = nav
	})
	if err := w2.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if nav.Len() != 6 {
		t.Errorf("expected restoring Init to not push, got %d locations", nav.Len())
	}
	s1, s2 := w.State(), w2.State()
	if s1.Page != s2.Page || s1.PerPage != s2.PerPage || s1.SearchTerm != s2.SearchTerm {
		t.Errorf("paging mismatch: %+v vs %+v", s1, s2)
	}
	if diff := cmp.Diff(s1.Sort.Columns(), s2.Sort.Columns()); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(w.Filters().Serialize(), w2.Filters().Serialize()); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}

	// back navigation restores the previous location without pushing
	nav.Back()
	if err := w.Navigated(ctx); err != nil {
		t.Fatalf("Navigated failed: %v", err)
	}
	if w.State().SearchTerm != "bob" || w.State().Sort.Len() != 0 {
		t.Errorf("expected the state before sorting, got %+v", w.State())
	}
	if !nav.CanForward() {
		t.Error("expected forward history to survive back navigation")
	}

	// back to the location without state resets to defaults
	for nav.Back() {
	}
	_ = w.Navigated(ctx)
	if w.State().Page != 1 || w.State().SearchTerm != "" || w.Filters().Len() != 0 {
		t.Errorf("expected defaults, got %+v with %d filters", w.State(), w.Filters().Len())
	}
}

func TestReadonlyCascade(t *testing.T) {
	f := &fakeFetcher{data: `[{"id":1},{"id":2}]`, pages: 1}
	var disabled []string
	w, _ := newTestWidget(t, f, func(o *Options) {
		o.OnItemDisabled = func(item tree.Node) { disabled = append(disabled, item.ID()) }
	})
	ctx := context.Background()

	w.EnableReadonlyMode()
	if err := w.Load(ctx, false, false); err != nil {
		t.Fatal(err)
	}
	items := w.Items()
	cb := items[0].Children()[0]
	if !readonly.Locked(cb) {
		t.Fatal("expected newly loaded items to inherit the global lock")
	}

	w.DisableItem(items[0], false)
	w.DisableItem(items[1], true)
	w.DisableReadonlyMode()
	if !readonly.Locked(cb) {
		t.Error("expected the item lock to survive the global unlock")
	}
	if !readonly.Locked(items[1].Children()[0]) {
		t.Error("expected suppressed item lock to apply")
	}

	w.EnableItem(items[0], false)
	if readonly.Locked(cb) {
		t.Error("expected the item to be unlocked")
	}
	if diff := cmp.Diff([]string{"row-1"}, disabled); diff != "" {
		t.Errorf("OnItemDisabled mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveRow(t *testing.T) {
	f := &fakeFetcher{data: `[]`}
	w, _ := newTestWidget(t, f, func(o *Options) {
		o.SaveURL = "http://api.test/users"
		o.Features.Pagination = false
	})

	row := tree.New(tree.KindRow, "r")
	name := tree.New(tree.KindTextInput, "name")
	name.AddClass(ClassDataInput)
	name.SetAttr(tree.AttrName, "name")
	name.SetAttr(tree.AttrValue, "Ada")
	done := tree.New(tree.KindCheckbox, "done")
	done.AddClass(ClassDataInput)
	done.SetAttr(tree.AttrName, "done")
	row.Append(name, done)

	if _, err := w.SaveRow(context.Background(), row); err != nil {
		t.Fatalf("SaveRow failed: %v", err)
	}
	want := url.Values{"name": {"Ada"}, "done": {"false"}}
	if diff := cmp.Diff(want, f.posts[0]); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}

	unnamed := tree.New(tree.KindTextInput, "x")
	unnamed.AddClass(ClassDataInput)
	row.Append(unnamed)
	if _, err := w.SaveRow(context.Background(), row); err == nil {
		t.Error("expected error for an unnamed data input")
	}
}

func TestSaveWithoutURL(t *testing.T) {
	w, _ := newTestWidget(t, &fakeFetcher{}, nil)
	if _, err := w.Save(context.Background(), url.Values{}); !errors.Is(err, ErrNoSaveURL) {
		t.Errorf("expected ErrNoSaveURL, got %v", err)
	}
}
