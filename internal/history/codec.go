package history

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rebelice/datalist/internal/models"
)

// Navigator is the navigation history collaborator
type Navigator interface {
	// Current returns the current location
	Current() *url.URL
	// Push adds a new location on top of the history
	Push(u *url.URL)
}

// Entry is the view state of one widget as stored in a navigation location
type Entry struct {
	Page       int
	PerPage    int
	SearchTerm string
	Sort       models.SortSpec
	Filters    []models.FilterParam
}

// NewEntry projects a view state and its serialized filters into an entry
func NewEntry(state models.ViewState, filters []models.FilterParam) Entry {
	return Entry{
		Page:       state.Page,
		PerPage:    state.PerPage,
		SearchTerm: state.SearchTerm,
		Sort:       state.Sort.Clone(),
		Filters:    filters,
	}
}

type wireEntry struct {
	Page       int                  `json:"page"`
	PerPage    int                  `json:"perpage"`
	SearchTerm string               `json:"searchterm,omitempty"`
	Sort       *models.SortSpec     `json:"sort,omitempty"`
	Filters    []models.FilterParam `json:"filters"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	w := wireEntry{
		Page:       e.Page,
		PerPage:    e.PerPage,
		SearchTerm: e.SearchTerm,
		Filters:    e.Filters,
	}
	if !e.Sort.IsZero() {
		w.Sort = &e.Sort
	}
	if w.Filters == nil {
		w.Filters = []models.FilterParam{}
	}
	return json.Marshal(w)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Entry{
		Page:       w.Page,
		PerPage:    w.PerPage,
		SearchTerm: w.SearchTerm,
		Filters:    w.Filters,
	}
	if w.Sort != nil {
		e.Sort = *w.Sort
	}
	return nil
}

// Codec stores the entry of one widget under its id in the navigation location
type Codec struct {
	id  string
	nav Navigator
}

// NewCodec creates a codec for the widget with the given id
func NewCodec(id string, nav Navigator) *Codec {
	return &Codec{id: id, nav: nav}
}

// Persist pushes a new location carrying e. It never replaces the current one.
func (c *Codec) Persist(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	next := &url.URL{}
	if cur := c.nav.Current(); cur != nil {
		copied := *cur
		next = &copied
	}
	q := next.Query()
	q.Set(c.id, string(data))
	next.RawQuery = q.Encode()

	c.nav.Push(next)
	return nil
}

// Restore reads the entry of this widget from the current location. It
// returns false when the location carries none and defaults should be used.
func (c *Codec) Restore() (*Entry, bool, error) {
	cur := c.nav.Current()
	if cur == nil {
		return nil, false, nil
	}
	raw := cur.Query().Get(c.id)
	if raw == "" {
		return nil, false, nil
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, false, fmt.Errorf("invalid history entry for %s: %w", c.id, err)
	}
	if e.Page < 1 {
		e.Page = 1
	}
	return &e, true, nil
}
