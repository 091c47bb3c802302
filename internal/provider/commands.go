package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/rebelice/datalist/internal/filter"
	"github.com/rebelice/datalist/internal/history"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/pagination"
	"github.com/rebelice/datalist/internal/readonly"
	"github.com/rebelice/datalist/internal/ui/tree"
)

// Init restores the state stored in the current location, if any, and runs
// the first load. An unreadable entry is reported and the defaults are used.
func (w *Widget) Init(ctx context.Context) error {
	restored, err := w.restore(false)
	if err != nil {
		_ = w.fail(err)
	}
	return w.load(ctx, false, false, !restored)
}

// Navigated is the back/forward entry point: it restores the state of the new
// current location and reloads without pushing another location.
func (w *Widget) Navigated(ctx context.Context) error {
	if _, err := w.restore(true); err != nil {
		_ = w.fail(err)
	}
	return w.load(ctx, false, false, false)
}

// restore applies the history entry of the current location. With reset set,
// a location without an entry resets the widget to its defaults.
func (w *Widget) restore(reset bool) (bool, error) {
	if w.codec == nil {
		return false, nil
	}
	entry, ok, err := w.codec.Restore()
	if err != nil {
		return false, &LoadError{Op: "restore history", Err: err}
	}
	if !ok {
		if reset {
			w.apply(history.Entry{Page: 1, PerPage: w.opts.PerPage})
		}
		return false, nil
	}
	w.apply(*entry)
	return true, nil
}

func (w *Widget) apply(e history.Entry) {
	w.state.Page = e.Page
	if e.PerPage > 0 {
		w.state.PerPage = e.PerPage
	}
	w.state.SearchTerm = e.SearchTerm
	w.state.Sort = e.Sort.Clone()

	for _, f := range w.filters.Stored() {
		w.detachChip(f)
	}
	stored, err := w.filters.Restore(e.Filters)
	if err != nil {
		w.log.Warn().Err(err).Msg("some filters could not be restored")
	}
	for _, f := range stored {
		w.attachChip(f)
	}
}

// Search sets the search term and reloads from the first page
func (w *Widget) Search(ctx context.Context, term string) error {
	w.state.SearchTerm = strings.TrimSpace(term)
	return w.Load(ctx, true, false)
}

// SetPerPage changes the page size and reloads
func (w *Widget) SetPerPage(ctx context.Context, perPage int) error {
	if perPage < 1 {
		return fmt.Errorf("per page must be positive, got %d", perPage)
	}
	w.state.PerPage = perPage
	return w.Load(ctx, false, false)
}

// GoToPage loads page n. Out-of-range pages are sent as they are.
func (w *Widget) GoToPage(ctx context.Context, n int) error {
	w.pager.GoTo(n, false)
	return w.Load(ctx, false, false)
}

// NextPage loads the next page unless the current one is the last
func (w *Widget) NextPage(ctx context.Context) error {
	if w.state.Page >= w.state.TotalPages {
		return nil
	}
	w.pager.GoTo(1, true)
	return w.Load(ctx, false, false)
}

// PrevPage loads the previous page unless the current one is the first
func (w *Widget) PrevPage(ctx context.Context) error {
	if w.state.Page <= 1 {
		return nil
	}
	w.pager.GoTo(-1, true)
	return w.Load(ctx, false, false)
}

// LastPage loads the last known page
func (w *Widget) LastPage(ctx context.Context) error {
	if w.state.TotalPages == 0 || w.state.Page == w.state.TotalPages {
		return nil
	}
	w.pager.GoToLast()
	return w.Load(ctx, false, false)
}

// LoadMore appends the next items to the body
func (w *Widget) LoadMore(ctx context.Context) error {
	return w.Load(ctx, false, true)
}

// ToggleSort moves a column to the next direction of the
// neutral, descending, ascending cycle and reloads from the first page.
func (w *Widget) ToggleSort(ctx context.Context, column string) (models.SortDirection, error) {
	dir := w.state.Sort.Get(column).Next()
	w.state.Sort.Set(column, dir)
	return dir, w.Load(ctx, true, false)
}

// SetSort sorts a column in the given direction and reloads from the first page
func (w *Widget) SetSort(ctx context.Context, column string, dir models.SortDirection) error {
	w.state.Sort.Set(column, dir)
	return w.Load(ctx, true, false)
}

// AddFilter adds a filter built with the filter form and reloads
func (w *Widget) AddFilter(ctx context.Context, key, operator string, value *string, display string) (*models.Filter, error) {
	return w.addFilter(ctx, models.OriginForm, key, operator, value, display)
}

// AddManualFilter adds a programmatic filter and reloads
func (w *Widget) AddManualFilter(ctx context.Context, key, operator string, value *string, display string) (*models.Filter, error) {
	return w.addFilter(ctx, models.OriginManual, key, operator, value, display)
}

func (w *Widget) addFilter(ctx context.Context, origin models.FilterOrigin, key, operator string, value *string, display string) (*models.Filter, error) {
	f, err := w.filters.Add(origin, key, operator, value, display, false)
	if err != nil {
		return nil, err
	}
	return f, w.Load(ctx, true, false)
}

// SetLinkedFilter replaces the filter a linked selector contributes for key
// and operator. A nil value only removes it.
func (w *Widget) SetLinkedFilter(ctx context.Context, key, operator string, value *string) error {
	if existing := w.filters.Find(key, operator); existing != nil {
		if existing.Origin != models.OriginLinkedSelector {
			return &filter.DuplicateFilterError{Key: key, Operator: operator}
		}
		w.filters.Remove(existing)
	}
	if value != nil {
		if _, err := w.filters.Add(models.OriginLinkedSelector, key, operator, value, "", true); err != nil {
			return err
		}
	}
	return w.Load(ctx, true, false)
}

// RemoveFilter removes a filter and reloads
func (w *Widget) RemoveFilter(ctx context.Context, f *models.Filter) error {
	if !w.filters.Remove(f) {
		return nil
	}
	return w.Load(ctx, true, false)
}

// CheckboxChanged reloads after a filter checkbox was toggled
func (w *Widget) CheckboxChanged(ctx context.Context) error {
	return w.Load(ctx, true, false)
}

// ActiveFilters returns the effective filters, checkbox filters included
func (w *Widget) ActiveFilters() []*models.Filter {
	return w.filters.Effective()
}

// Filters returns the filter store
func (w *Widget) Filters() *filter.Store {
	return w.filters
}

// EnableReadonlyMode locks the whole widget
func (w *Widget) EnableReadonlyMode() {
	w.globalReadonly = true
	w.readonly.Apply(w.opts.Root, readonly.LevelGlobal)
}

// DisableReadonlyMode lifts the global lock. Items locked on their own stay locked.
func (w *Widget) DisableReadonlyMode() {
	w.globalReadonly = false
	w.readonly.Remove(w.opts.Root, readonly.LevelGlobal)
}

// Readonly reports whether the widget is globally locked
func (w *Widget) Readonly() bool {
	return w.globalReadonly
}

// DisableItem locks one rendered item
func (w *Widget) DisableItem(item tree.Node, suppress bool) {
	w.readonly.Suppress = suppress
	w.readonly.Apply(item, readonly.LevelItem)
	w.readonly.Suppress = false
}

// EnableItem lifts the lock of one rendered item
func (w *Widget) EnableItem(item tree.Node, suppress bool) {
	w.readonly.Suppress = suppress
	w.readonly.Remove(item, readonly.LevelItem)
	w.readonly.Suppress = false
}

// ModifyURL fills the placeholders of the URL templates, unblocks loading and
// reloads from the first page.
func (w *Widget) ModifyURL(ctx context.Context, replacers map[string]string) error {
	w.state.BlockLoading = false
	w.dataURL = replaceAll(w.opts.DataURL, replacers)
	w.countURL = replaceAll(w.opts.CountURL, replacers)
	if w.opts.SaveURL != "" {
		w.saveURL = replaceAll(w.opts.SaveURL, replacers)
	}
	return w.Load(ctx, true, false)
}

// replaceAll substitutes placeholders, longest first so that overlapping
// placeholders resolve the same way every time
func replaceAll(template string, replacers map[string]string) string {
	keys := make([]string, 0, len(replacers))
	for k := range replacers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		template = strings.ReplaceAll(template, k, replacers[k])
	}
	return template
}

// Save posts form values to the save URL
func (w *Widget) Save(ctx context.Context, form url.Values) (json.RawMessage, error) {
	if w.saveURL == "" {
		return nil, ErrNoSaveURL
	}
	raw, err := w.opts.Fetcher.Post(ctx, w.saveURL, form)
	if err != nil {
		return nil, w.fail(&LoadError{Op: "save", URL: w.saveURL, Err: err})
	}
	return raw, nil
}

// SaveRow collects the named data inputs of a rendered row and saves them
func (w *Widget) SaveRow(ctx context.Context, row tree.Node) (json.RawMessage, error) {
	form, err := RowValues(row)
	if err != nil {
		return nil, err
	}
	return w.Save(ctx, form)
}

// RowValues collects the values of the data inputs below row
func RowValues(row tree.Node) (url.Values, error) {
	form := url.Values{}
	var missing tree.Node
	tree.Walk(row, func(n tree.Node) bool {
		if missing != nil || !n.HasClass(ClassDataInput) {
			return missing == nil
		}
		name, ok := n.Attr(tree.AttrName)
		if !ok || name == "" {
			missing = n
			return false
		}
		if n.Kind() == tree.KindCheckbox {
			_, checked := n.Attr(tree.AttrChecked)
			form.Set(name, fmt.Sprintf("%t", checked))
			return true
		}
		value, _ := n.Attr(tree.AttrValue)
		form.Set(name, value)
		return true
	})
	if missing != nil {
		return nil, fmt.Errorf("data input %q has no name", missing.ID())
	}
	return form, nil
}

// Records returns the records currently shown
func (w *Widget) Records() []models.Record {
	out := make([]models.Record, len(w.records))
	copy(out, w.records)
	return out
}

// Items returns the rendered item nodes in body order
func (w *Widget) Items() []tree.Node {
	out := make([]tree.Node, len(w.items))
	copy(out, w.items)
	return out
}

// State returns a copy of the view state
func (w *Widget) State() models.ViewState {
	return w.state.Clone()
}

// Window returns the paginator window computed by the last load
func (w *Widget) Window() pagination.Window {
	return w.window
}

// URLs returns the data, count and save URLs in effect
func (w *Widget) URLs() (data, count, save string) {
	return w.dataURL, w.countURL, w.saveURL
}

func (w *Widget) attachChip(f *models.Filter) {
	if w.opts.ChipContainer == nil {
		return
	}
	w.chipSeq++
	chip := tree.New(tree.KindChip, fmt.Sprintf("%s-filter-%d", w.opts.ID, w.chipSeq))
	chip.SetText(f.Display)
	chip.AddClass(ClassChip, readonly.ClassSensitive)
	w.opts.ChipContainer.Append(chip)
	f.Chip = chip
	if w.globalReadonly {
		w.readonly.Apply(chip, readonly.LevelGlobal)
	}
}

func (w *Widget) detachChip(f *models.Filter) {
	if f.Chip == nil {
		return
	}
	tree.Detach(f.Chip)
	f.Chip = nil
}
