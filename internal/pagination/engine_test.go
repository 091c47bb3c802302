package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rebelice/datalist/internal/models"
)

var (
	ph  = Slot{Kind: SlotPlaceholder}
	ell = Slot{Kind: SlotEllipsis}
)

func page(n int) Slot    { return Slot{Kind: SlotPage, Page: n} }
func current(n int) Slot { return Slot{Kind: SlotPage, Page: n, Current: true} }
func jump(n int) Slot    { return Slot{Kind: SlotPage, Page: n, Jump: true} }

func TestCompute(t *testing.T) {
	tests := []struct {
		name              string
		page, total, r    int
		want              []Slot
		wantPrev, wantNxt bool
	}{
		{
			name: "middle of twenty",
			page: 10, total: 20, r: 3,
			want: []Slot{jump(1), ell, page(7), page(8), page(9), current(10), page(11), page(12), page(13), ell, jump(20)},
		},
		{
			name: "first page",
			page: 1, total: 20, r: 3,
			want:     []Slot{ph, ph, ph, ph, ph, current(1), page(2), page(3), page(4), ell, jump(20)},
			wantPrev: true,
		},
		{
			name: "last page",
			page: 20, total: 20, r: 3,
			want:    []Slot{jump(1), ell, page(17), page(18), page(19), current(20), ph, ph, ph, ph, ph},
			wantNxt: true,
		},
		{
			name: "jump adjacent to left run",
			page: 5, total: 20, r: 3,
			want: []Slot{jump(1), ph, page(2), page(3), page(4), current(5), page(6), page(7), page(8), ell, jump(20)},
		},
		{
			name: "jump adjacent to right run",
			page: 16, total: 20, r: 3,
			want: []Slot{jump(1), ell, page(13), page(14), page(15), current(16), page(17), page(18), page(19), ph, jump(20)},
		},
		{
			name: "no jumps within radius",
			page: 4, total: 7, r: 3,
			want: []Slot{ph, ph, page(1), page(2), page(3), current(4), page(5), page(6), page(7), ph, ph},
		},
		{
			name: "single page",
			page: 1, total: 1, r: 2,
			want:     []Slot{ph, ph, ph, ph, current(1), ph, ph, ph, ph},
			wantPrev: true, wantNxt: true,
		},
		{
			name: "unknown total",
			page: 2, total: 0, r: 1,
			want:    []Slot{ph, ph, page(1), current(2), ph, ph, ph},
			wantNxt: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Compute(tt.page, tt.total, tt.r)
			if diff := cmp.Diff(tt.want, w.Slots); diff != "" {
				t.Errorf("slots mismatch (-want +got):\n%s", diff)
			}
			if len(w.Slots) != 2*tt.r+5 {
				t.Errorf("expected %d slots, got %d", 2*tt.r+5, len(w.Slots))
			}
			if w.PrevDisabled != tt.wantPrev {
				t.Errorf("expected PrevDisabled=%v, got %v", tt.wantPrev, w.PrevDisabled)
			}
			if w.NextDisabled != tt.wantNxt {
				t.Errorf("expected NextDisabled=%v, got %v", tt.wantNxt, w.NextDisabled)
			}
		})
	}
}

func TestWindowAroundCurrentPage(t *testing.T) {
	state := models.NewViewState(10)
	state.Page = 10
	state.TotalPages = 20
	w := NewEngine(&state).Window(3)

	// leading jump + ellipsis, seven slots around 10, trailing ellipsis + jump
	around := w.Slots[2:9]
	if diff := cmp.Diff([]int{7, 8, 9, 10, 11, 12, 13}, Window{Slots: around}.Pages()); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
	if w.Slots[0] != jump(1) || w.Slots[1] != ell {
		t.Errorf("expected leading jump and ellipsis, got %+v %+v", w.Slots[0], w.Slots[1])
	}
	if w.Slots[9] != ell || w.Slots[10] != jump(20) {
		t.Errorf("expected trailing ellipsis and jump, got %+v %+v", w.Slots[9], w.Slots[10])
	}
}

func TestFirstPageHasNoLeadingEllipsis(t *testing.T) {
	state := models.NewViewState(10)
	state.TotalPages = 20
	e := NewEngine(&state)
	w := e.Window(3)

	if !e.PrevDisabled() || !w.PrevDisabled {
		t.Error("expected previous to be disabled on page 1")
	}
	for _, s := range w.Slots[:5] {
		if s.Kind == SlotEllipsis {
			t.Errorf("unexpected leading ellipsis: %+v", w.Slots)
		}
	}
}

func TestRefresh(t *testing.T) {
	state := models.NewViewState(10)
	state.Page = 3
	e := NewEngine(&state)

	err := e.Refresh(context.Background(), func(context.Context) (int, error) { return 3, nil })
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if state.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", state.TotalPages)
	}
	if e.PrevDisabled() || !e.NextDisabled() {
		t.Errorf("expected prev enabled and next disabled, got prev=%v next=%v", e.PrevDisabled(), e.NextDisabled())
	}

	boom := errors.New("boom")
	err = e.Refresh(context.Background(), func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped count error, got %v", err)
	}
	if state.TotalPages != 3 {
		t.Errorf("expected total pages to be kept on error, got %d", state.TotalPages)
	}
}

func TestGoTo(t *testing.T) {
	state := models.NewViewState(10)
	state.TotalPages = 8
	e := NewEngine(&state)

	e.GoTo(4, false)
	e.GoTo(2, true)
	if e.Page() != 6 {
		t.Errorf("expected page 6, got %d", e.Page())
	}

	e.GoTo(50, false)
	if e.Page() != 50 {
		t.Errorf("expected unclamped page 50, got %d", e.Page())
	}

	e.GoToLast()
	if e.Page() != 8 {
		t.Errorf("expected last page 8, got %d", e.Page())
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.perPage); got != tt.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}
