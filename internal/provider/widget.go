package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/rebelice/datalist/internal/filter"
	"github.com/rebelice/datalist/internal/history"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/pagination"
	"github.com/rebelice/datalist/internal/query"
	"github.com/rebelice/datalist/internal/readonly"
	"github.com/rebelice/datalist/internal/ui/tree"
)

// Widget is one data provider: it loads pages of records from a remote
// endpoint and renders them into its body.
//
// Command methods are meant to be called from a single event loop. The only
// guard is the loading flag: a Load issued while another one is in flight is
// dropped.
type Widget struct {
	opts Options
	log  zerolog.Logger

	state   models.ViewState
	loading atomic.Bool

	filters  *filter.Store
	pager    *pagination.Engine
	codec    *history.Codec
	readonly *readonly.Controller

	globalReadonly bool

	dataURL  string
	countURL string
	saveURL  string

	records []models.Record
	items   []tree.Node
	empty   tree.Node
	window  pagination.Window

	ownsDisable bool
	ownsHidden  bool
	chipSeq     int
}

// New creates a widget. It fails with a ConstructionError when required
// options are missing; OnError sees the error first.
func New(opts Options) (*Widget, error) {
	if err := opts.validate(); err != nil {
		if opts.OnError != nil {
			opts.OnError(err)
		}
		return nil, err
	}
	opts.applyDefaults()

	w := &Widget{
		opts:     opts,
		log:      zerolog.Nop(),
		state:    models.NewViewState(opts.PerPage),
		filters:  filter.NewStore(opts.Checkboxes...),
		readonly: readonly.New(),
		dataURL:  opts.DataURL,
		countURL: opts.CountURL,
		saveURL:  opts.SaveURL,
	}
	if opts.Logger != nil {
		w.log = opts.Logger.With().Str("widget", opts.ID).Logger()
	}

	w.pager = pagination.NewEngine(&w.state)
	w.window = w.pager.Window(opts.PaginationSize)
	if opts.Features.History {
		w.codec = history.NewCodec(opts.ID, opts.Navigator)
	}
	w.state.BlockLoading = opts.Features.DynamicURL

	w.filters.OnAdded = func(f *models.Filter) {
		w.attachChip(f)
		if w.opts.OnFilterAdded != nil {
			w.opts.OnFilterAdded(f)
		}
	}
	w.filters.OnRemoved = w.detachChip

	w.readonly.OnItemDisabled = opts.OnItemDisabled
	w.readonly.OnItemEnabled = opts.OnItemEnabled

	if opts.Readonly {
		w.globalReadonly = true
		w.readonly.Apply(w.opts.Root, readonly.LevelGlobal)
	}
	return w, nil
}

// ID returns the widget id
func (w *Widget) ID() string { return w.opts.ID }

// Loading reports whether a load cycle is in flight
func (w *Widget) Loading() bool { return w.loading.Load() }

// Load runs one load cycle. A call made while the widget is blocked or
// already loading returns nil without doing anything.
func (w *Widget) Load(ctx context.Context, resetPage, keepContent bool) error {
	return w.load(ctx, resetPage, keepContent, true)
}

func (w *Widget) load(ctx context.Context, resetPage, keepContent, persist bool) error {
	if w.state.BlockLoading {
		w.log.Debug().Msg("load blocked until the url templates are filled")
		return nil
	}
	if !w.loading.CompareAndSwap(false, true) {
		w.log.Debug().Msg("load dropped, another load is in flight")
		return nil
	}
	defer w.loading.Store(false)

	w.showLoading()
	affordances := true
	defer func() {
		if affordances {
			w.hideLoading()
		}
	}()

	if resetPage {
		w.state.Page = 1
	}

	offset := 0
	if keepContent {
		offset = len(w.records)
	}
	req, err := w.request(w.dataURL, offset)
	if err != nil {
		return w.fail(&LoadError{Op: "build request", URL: w.dataURL, Err: err})
	}
	if w.opts.PreLoad != nil {
		w.opts.PreLoad(&req)
	}
	target, err := req.URL()
	if err != nil {
		return w.fail(&LoadError{Op: "build request", URL: w.dataURL, Err: err})
	}

	w.log.Debug().Str("url", target).Int("page", w.state.Page).Msg("loading")
	raw, err := w.opts.Fetcher.Get(ctx, target)
	if err != nil {
		return w.fail(&LoadError{Op: "fetch", URL: target, Err: err})
	}
	records, err := models.DecodeRecords(raw)
	if err != nil {
		return w.fail(&LoadError{Op: "decode", URL: target, Err: err})
	}
	if w.opts.PostLoad != nil {
		records = w.opts.PostLoad(records)
	}

	if !keepContent {
		w.clearBody()
	}
	w.render(records, !keepContent)

	w.hideLoading()
	affordances = false

	if w.opts.Features.Pagination {
		if err := w.pager.Refresh(ctx, w.countPages); err != nil {
			return w.fail(&LoadError{Op: "count pages", URL: w.countURL, Err: err})
		}
		w.window = w.pager.Window(w.opts.PaginationSize)
	}

	if w.opts.Features.History && persist {
		if err := w.codec.Persist(w.entry()); err != nil {
			return w.fail(&LoadError{Op: "persist history", Err: err})
		}
	}

	w.loading.Store(false)

	if w.globalReadonly {
		w.readonly.Apply(w.opts.Root, readonly.LevelGlobal)
	}

	w.log.Debug().Int("items", len(records)).Int("total_pages", w.state.TotalPages).Msg("loaded")
	return nil
}

func (w *Widget) request(base string, offset int) (query.Request, error) {
	return query.Build(query.Input{
		BaseURL:  base,
		Features: w.opts.Features.query(),
		State:    w.state,
		Filters:  w.filters.Params(),
		Offset:   offset,
	})
}

// countPages asks the count URL for the number of pages of the current query
func (w *Widget) countPages(ctx context.Context) (int, error) {
	req, err := w.request(w.countURL, 0)
	if err != nil {
		return 0, err
	}
	target, err := req.URL()
	if err != nil {
		return 0, err
	}
	raw, err := w.opts.Fetcher.Get(ctx, target)
	if err != nil {
		return 0, err
	}
	var pages json.Number
	if err := json.Unmarshal(raw, &pages); err != nil {
		return 0, fmt.Errorf("invalid page count %s: %w", raw, err)
	}
	n, err := pages.Int64()
	if err != nil {
		f, ferr := pages.Float64()
		if ferr != nil {
			return 0, fmt.Errorf("invalid page count %s: %w", raw, err)
		}
		n = int64(f)
	}
	return int(n), nil
}

func (w *Widget) fail(err error) error {
	w.log.Error().Err(err).Msg("load failed")
	if w.opts.OnError != nil {
		w.opts.OnError(err)
	}
	return err
}

func (w *Widget) render(records []models.Record, cleared bool) {
	for _, rec := range records {
		index := len(w.records)
		w.records = append(w.records, rec)

		node, err := w.opts.Renderer.Render(rec)
		if err != nil {
			rerr := &RenderError{Index: index, Err: err}
			w.log.Warn().Err(rerr).Msg("skipping item")
			if w.opts.OnError != nil {
				w.opts.OnError(rerr)
			}
			continue
		}
		if w.opts.OnItemCreated != nil {
			node = w.opts.OnItemCreated(index, rec, node)
		}
		if node == nil {
			continue
		}
		node.AddClass(ClassItem)
		w.opts.Body.Append(node)
		w.items = append(w.items, node)
	}

	if cleared && len(records) == 0 {
		w.empty = tree.NewText(w.opts.EmptyBody, ClassEmpty)
		w.opts.Body.Append(w.empty)
	}
}

func (w *Widget) clearBody() {
	w.opts.Body.Clear()
	w.records = nil
	w.items = nil
	w.empty = nil
}

func (w *Widget) showLoading() {
	if w.opts.Spinner != nil {
		w.opts.Spinner.RemoveClass(tree.ClassHidden)
	}
	if c := w.opts.DisableContainer; c != nil {
		if _, set := c.Attr(tree.AttrDisabled); !set {
			c.SetAttr(tree.AttrDisabled, tree.AttrDisabled)
			w.ownsDisable = true
		}
	}
	if w.opts.HideBodyDuringLoad && !w.opts.Body.HasClass(tree.ClassHidden) {
		w.opts.Body.AddClass(tree.ClassHidden)
		w.ownsHidden = true
	}
}

func (w *Widget) hideLoading() {
	if w.opts.Spinner != nil {
		w.opts.Spinner.AddClass(tree.ClassHidden)
	}
	if w.ownsDisable {
		w.opts.DisableContainer.RemoveAttr(tree.AttrDisabled)
		w.ownsDisable = false
	}
	if w.ownsHidden {
		w.opts.Body.RemoveClass(tree.ClassHidden)
		w.ownsHidden = false
	}
}

func (w *Widget) entry() history.Entry {
	return history.NewEntry(w.state, w.filters.Serialize())
}

// pagesURL appends /pages to the path of a URL template, keeping its query
func pagesURL(dataURL string) string {
	base, rawQuery, hasQuery := strings.Cut(dataURL, "?")
	base = strings.TrimSuffix(base, "/") + "/pages"
	if hasQuery {
		return base + "?" + rawQuery
	}
	return base
}
