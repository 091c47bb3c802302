package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/pagination"
	"github.com/rebelice/datalist/internal/ui/theme"
)

func TestPaginatorView(t *testing.T) {
	p := Paginator{Theme: theme.DefaultTheme()}
	out := p.View(pagination.Compute(5, 10, 1))
	for _, want := range []string{"‹", " 1", " 4", " 5", " 6", "10", "…", "›"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestPaginatorWidthIsStable(t *testing.T) {
	p := Paginator{Theme: theme.DefaultTheme()}
	first := lipgloss.Width(p.View(pagination.Compute(1, 10, 1)))
	for page := 2; page <= 10; page++ {
		if got := lipgloss.Width(p.View(pagination.Compute(page, 10, 1))); got != first {
			t.Errorf("page %d: expected width %d, got %d", page, first, got)
		}
	}
}

func TestPaginatorEmptyWindow(t *testing.T) {
	if got := (Paginator{}).View(pagination.Window{}); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}
