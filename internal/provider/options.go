package provider

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/rebelice/datalist/internal/filter"
	"github.com/rebelice/datalist/internal/history"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/query"
	"github.com/rebelice/datalist/internal/ui/tree"
)

// Fetcher is the network transport. It fails on transport errors and non-2xx
// responses; the widget never retries.
type Fetcher interface {
	Get(ctx context.Context, url string) (json.RawMessage, error)
	Post(ctx context.Context, url string, form url.Values) (json.RawMessage, error)
}

// Renderer turns one record into a UI node
type Renderer interface {
	Render(rec models.Record) (tree.Node, error)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(rec models.Record) (tree.Node, error)

func (f RendererFunc) Render(rec models.Record) (tree.Node, error) {
	return f(rec)
}

// Features toggles the optional parts of a widget
type Features struct {
	Pagination     bool
	Search         bool
	Sort           bool
	Filters        bool
	History        bool
	InfiniteScroll bool
	// DynamicURL blocks loading until ModifyURL fills the URL templates
	DynamicURL bool
}

func (f Features) query() query.Features {
	return query.Features{
		Pagination:     f.Pagination,
		InfiniteScroll: f.InfiniteScroll,
		Search:         f.Search,
		Sort:           f.Sort,
		Filters:        f.Filters,
	}
}

// Defaults
const (
	DefaultPerPage        = 10
	DefaultPaginationSize = 3
	DefaultEmptyBody      = "No results"
)

// Class names set by the widget
const (
	ClassItem  = "datalist-item"
	ClassEmpty = "datalist-empty"
	ClassChip  = "datalist-filter-chip"
	// ClassDataInput marks the controls collected by SaveRow
	ClassDataInput = "data-input"
)

// Options configures a Widget
type Options struct {
	ID       string
	DataURL  string
	CountURL string // defaults to DataURL + "/pages"
	SaveURL  string

	PerPage        int
	PaginationSize int
	EmptyBody      string

	// HideBodyDuringLoad hides the body while a load is in flight
	HideBodyDuringLoad bool
	// Readonly starts the widget globally locked
	Readonly bool

	Features Features

	// Body receives the rendered items. Root is the whole widget and
	// defaults to Body; the global read-only lock covers it.
	Body             tree.Node
	Root             tree.Node
	Spinner          tree.Node
	DisableContainer tree.Node
	ChipContainer    tree.Node

	Fetcher    Fetcher
	Renderer   Renderer
	Navigator  history.Navigator
	Checkboxes []filter.Checkbox

	Logger *zerolog.Logger

	// OnItemCreated may replace the node rendered for a record
	OnItemCreated  func(index int, rec models.Record, node tree.Node) tree.Node
	OnItemEnabled  func(item tree.Node)
	OnItemDisabled func(item tree.Node)
	OnFilterAdded  func(f *models.Filter)
	OnError        func(err error)
	// PreLoad may rewrite the request before it is sent
	PreLoad func(req *query.Request)
	// PostLoad may rewrite the decoded records before they are rendered
	PostLoad func(records []models.Record) []models.Record
}

func (o *Options) validate() error {
	switch {
	case o.ID == "":
		return &ConstructionError{Field: "id"}
	case o.DataURL == "":
		return &ConstructionError{Field: "data url"}
	case o.Body == nil:
		return &ConstructionError{Field: "body"}
	case o.Fetcher == nil:
		return &ConstructionError{Field: "fetcher"}
	case o.Renderer == nil:
		return &ConstructionError{Field: "renderer"}
	case o.Features.History && o.Navigator == nil:
		return &ConstructionError{Field: "navigator", Reason: "required when history is enabled"}
	case o.PerPage < 0:
		return &ConstructionError{Field: "per page", Reason: "must be positive"}
	case o.PaginationSize < 0:
		return &ConstructionError{Field: "pagination size", Reason: "must not be negative"}
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.PerPage == 0 {
		o.PerPage = DefaultPerPage
	}
	if o.PaginationSize == 0 {
		o.PaginationSize = DefaultPaginationSize
	}
	if o.EmptyBody == "" {
		o.EmptyBody = DefaultEmptyBody
	}
	if o.CountURL == "" {
		o.CountURL = pagesURL(o.DataURL)
	}
	if o.Root == nil {
		o.Root = o.Body
	}
}
