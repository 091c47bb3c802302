package pagination

import (
	"context"
	"fmt"

	"github.com/rebelice/datalist/internal/models"
)

// SlotKind is the kind of one paginator slot
type SlotKind int

const (
	SlotPage SlotKind = iota
	SlotEllipsis
	// SlotPlaceholder is an empty, non-clickable slot that keeps the
	// paginator width constant near the first and last page
	SlotPlaceholder
)

// Slot is one position of the paginator
type Slot struct {
	Kind    SlotKind
	Page    int
	Current bool
	// Jump marks the "first page" and "last page" buttons
	Jump bool
}

// Window is the derived paginator layout
type Window struct {
	Slots        []Slot
	PrevDisabled bool
	NextDisabled bool
}

// Pages returns the page numbers of the numbered slots, jumps included
func (w Window) Pages() []int {
	var pages []int
	for _, s := range w.Slots {
		if s.Kind == SlotPage {
			pages = append(pages, s.Page)
		}
	}
	return pages
}

// CountFunc returns the total number of pages of the current query
type CountFunc func(ctx context.Context) (int, error)

// Engine tracks the paging part of a ViewState
type Engine struct {
	state *models.ViewState

	prevDisabled bool
	nextDisabled bool
}

// NewEngine creates an engine operating on state
func NewEngine(state *models.ViewState) *Engine {
	e := &Engine{state: state}
	e.updateControls()
	return e
}

func (e *Engine) Page() int       { return e.state.Page }
func (e *Engine) TotalPages() int { return e.state.TotalPages }

func (e *Engine) PrevDisabled() bool { return e.prevDisabled }
func (e *Engine) NextDisabled() bool { return e.nextDisabled }

// Refresh asks count for the total page count and updates the
// previous and next controls
func (e *Engine) Refresh(ctx context.Context, count CountFunc) error {
	total, err := count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pages: %w", err)
	}
	if total < 0 {
		total = 0
	}
	e.state.TotalPages = total
	e.updateControls()
	return nil
}

func (e *Engine) updateControls() {
	e.prevDisabled = e.state.Page <= 1
	e.nextDisabled = e.state.Page >= e.state.TotalPages
}

// GoTo moves to an absolute page, or by n pages when relative is set.
// Out-of-range pages are not clamped: the remote source is the authority on
// the page count and answers with an empty page.
func (e *Engine) GoTo(n int, relative bool) {
	if relative {
		e.state.Page += n
	} else {
		e.state.Page = n
	}
	e.updateControls()
}

// GoToLast moves to the last known page
func (e *Engine) GoToLast() {
	if e.state.TotalPages > 0 {
		e.GoTo(e.state.TotalPages, false)
	}
}

// Window computes the paginator layout around the current page. It always has
// 2*radius+5 slots: a leading pair, radius slots on the left, the current
// page, radius slots on the right and a trailing pair.
func (e *Engine) Window(radius int) Window {
	return Compute(e.state.Page, e.state.TotalPages, radius)
}

// Compute is Window for an explicit page and page count
func Compute(page, total, radius int) Window {
	if radius < 0 {
		radius = 0
	}
	slots := make([]Slot, 0, 2*radius+5)
	placeholder := Slot{Kind: SlotPlaceholder}

	if page > radius+1 {
		slots = append(slots, Slot{Kind: SlotPage, Page: 1, Jump: true})
		if page-radius == 2 {
			slots = append(slots, placeholder)
		} else {
			slots = append(slots, Slot{Kind: SlotEllipsis})
		}
	} else {
		slots = append(slots, placeholder, placeholder)
	}

	for p := page - radius; p < page; p++ {
		if p >= 1 {
			slots = append(slots, Slot{Kind: SlotPage, Page: p})
		} else {
			slots = append(slots, placeholder)
		}
	}

	slots = append(slots, Slot{Kind: SlotPage, Page: page, Current: true})

	for p := page + 1; p <= page+radius; p++ {
		if p <= total {
			slots = append(slots, Slot{Kind: SlotPage, Page: p})
		} else {
			slots = append(slots, placeholder)
		}
	}

	if total-page > radius {
		if page+radius+1 == total {
			slots = append(slots, placeholder)
		} else {
			slots = append(slots, Slot{Kind: SlotEllipsis})
		}
		slots = append(slots, Slot{Kind: SlotPage, Page: total, Jump: true})
	} else {
		slots = append(slots, placeholder, placeholder)
	}

	return Window{
		Slots:        slots,
		PrevDisabled: page <= 1,
		NextDisabled: page >= total,
	}
}

// PageCount returns the number of pages needed for total rows
func PageCount(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
