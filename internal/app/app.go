package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebelice/datalist/internal/bookmarks"
	"github.com/rebelice/datalist/internal/config"
	"github.com/rebelice/datalist/internal/filter"
	"github.com/rebelice/datalist/internal/history"
	"github.com/rebelice/datalist/internal/logging"
	"github.com/rebelice/datalist/internal/models"
	"github.com/rebelice/datalist/internal/navigation"
	"github.com/rebelice/datalist/internal/provider"
	"github.com/rebelice/datalist/internal/ui/components"
	"github.com/rebelice/datalist/internal/ui/theme"
	"github.com/rebelice/datalist/internal/ui/tree"
)

// ViewMode is the input mode of the browser
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	SearchMode
	FilterMode
	BookmarksMode
	PromptMode
	DetailMode
)

const (
	promptEditCell = "edit-cell"

	// commandTimeout bounds one widget command, retries included
	commandTimeout = 2 * time.Minute
)

// Options wires the browser to its collaborators
type Options struct {
	Config  *config.Config
	Logger  *logging.Logger
	Fetcher provider.Fetcher

	// Start is the initial location, a bookmark or a resumed visit. It
	// defaults to datalist://<provider id>.
	Start *url.URL

	// Visits records every pushed location when set
	Visits *history.Store

	Bookmarks *bookmarks.Manager
	ExportDir string

	// Replacers fill the URL templates of a dynamic provider
	Replacers map[string]string

	// Clipboard defaults to atotto/clipboard
	Clipboard func(string) error
}

// commandDoneMsg is sent when a widget command finished
type commandDoneMsg struct {
	name   string
	status string
	err    error
}

// App is the main application model. Widget commands run as tea.Cmds off the
// event loop; while one runs the tree is not read and View shows the last
// rendered frame.
type App struct {
	config    *config.Config
	theme     theme.Theme
	log       *logging.Logger
	width     int
	height    int
	mode      ViewMode
	showError bool
	busy      bool
	status    string

	widget    *provider.Widget
	renderer  *components.TableRenderer
	stack     *navigation.Stack
	visits    *history.Store
	bookmarks *bookmarks.Manager
	exportDir string
	replacers map[string]string
	clipboard func(string) error

	root        *tree.Element
	body        *tree.Element
	spinnerNode *tree.Element
	chips       *tree.Element
	checkboxBar *tree.Element
	checkboxes  []*filter.NodeCheckbox
	checkLabels []string
	unsubscribe func()
	pendingMu   sync.Mutex
	pendingErrs []error
	lastCommand string

	tableView       *components.TableView
	paginator       components.Paginator
	chipBar         components.ChipBar
	search          *components.SearchInput
	filterBuilder   *components.FilterBuilder
	bookmarksDialog *components.BookmarksDialog
	prompt          *components.Prompt
	errorOverlay    *components.ErrorOverlay
	detail          *components.Panel
	spinner         spinner.Model

	frame frame
}

// New creates the browser and its widget
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	if opts.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}

	th := theme.GetTheme(cfg.UI.Theme)
	pc := cfg.Provider

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(th.Loading)

	a := &App{
		config:          cfg,
		theme:           th,
		log:             log,
		bookmarks:       opts.Bookmarks,
		visits:          opts.Visits,
		exportDir:       opts.ExportDir,
		replacers:       opts.Replacers,
		clipboard:       opts.Clipboard,
		renderer:        components.NewTableRenderer(pc.ID, components.ColumnsFromConfig(pc.Columns)),
		tableView:       components.NewTableView(th),
		paginator:       components.Paginator{Theme: th},
		chipBar:         components.ChipBar{Theme: th},
		search:          components.NewSearchInput(th),
		filterBuilder:   components.NewFilterBuilder(th),
		bookmarksDialog: components.NewBookmarksDialog(th),
		prompt:          components.NewPrompt(th),
		errorOverlay:    components.NewErrorOverlay(th),
		detail:          components.NewPanel(th),
		spinner:         sp,
	}
	if a.clipboard == nil {
		a.clipboard = writeClipboard
	}

	a.buildTree()
	a.buildCheckboxes(pc.CheckboxFilters)

	start := opts.Start
	if start == nil {
		start = &url.URL{Scheme: "datalist", Host: pc.ID}
	}
	a.stack = navigation.NewStack(start)
	a.stack.OnPush = a.recordVisit
	a.unsubscribe = a.stack.Subscribe(func(u *url.URL) {
		a.log.Debug().Str("location", u.String()).Msg("navigated")
	})

	zl := log.Zerolog()
	w, err := provider.New(provider.Options{
		ID:                 pc.ID,
		DataURL:            pc.DataURL,
		CountURL:           pc.CountURL,
		SaveURL:            pc.SaveURL,
		PerPage:            pc.PerPage,
		PaginationSize:     pc.PaginationSize,
		EmptyBody:          pc.EmptyBody,
		HideBodyDuringLoad: pc.HideBodyDuringLoading,
		Readonly:           pc.Readonly,
		Features: provider.Features{
			Pagination:     true,
			Search:         true,
			Sort:           true,
			Filters:        true,
			History:        pc.History,
			InfiniteScroll: true,
			DynamicURL:     pc.DynamicURL,
		},
		Body:           a.body,
		Root:           a.root,
		Spinner:        a.spinnerNode,
		ChipContainer:  a.chips,
		Fetcher:        opts.Fetcher,
		Renderer:       a.renderer,
		Navigator:      a.stack,
		Checkboxes:     a.filterCheckboxes(),
		Logger:         zl,
		OnError:        a.collectError,
		OnItemDisabled: a.itemDisabled,
		OnItemEnabled:  a.itemEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create data provider: %w", err)
	}
	a.widget = w
	a.refresh()
	return a, nil
}

// buildTree creates the nodes the widget renders into
func (a *App) buildTree() {
	id := a.config.Provider.ID
	a.root = tree.New(tree.KindContainer, id)
	a.checkboxBar = tree.New(tree.KindContainer, id+"-checkboxes")
	a.chips = tree.New(tree.KindContainer, id+"-filters")
	a.spinnerNode = tree.New(tree.KindText, id+"-spinner")
	a.spinnerNode.AddClass(tree.ClassHidden)
	a.body = tree.New(tree.KindContainer, id+"-body")
	a.root.Append(a.checkboxBar, a.chips, a.spinnerNode, a.body)
}

func (a *App) buildCheckboxes(cfgs []config.CheckboxFilterConfig) {
	for i, c := range cfgs {
		var checked, unchecked *filter.Rule
		if c.CheckedOperator != "" {
			checked = &filter.Rule{Operator: c.CheckedOperator, Value: c.CheckedValue}
		}
		if c.UncheckedOperator != "" {
			unchecked = &filter.Rule{Operator: c.UncheckedOperator, Value: c.UncheckedValue}
		}
		cb := filter.NewNodeCheckbox(fmt.Sprintf("%s-checkbox-%d", a.config.Provider.ID, i+1), c.Name, checked, unchecked)
		cb.SetChecked(c.Checked)
		a.checkboxBar.Append(cb.Node)
		a.checkboxes = append(a.checkboxes, cb)

		label := c.Label
		if label == "" {
			label = c.Name
		}
		a.checkLabels = append(a.checkLabels, label)
	}
}

func (a *App) filterCheckboxes() []filter.Checkbox {
	out := make([]filter.Checkbox, len(a.checkboxes))
	for i, cb := range a.checkboxes {
		out[i] = cb
	}
	return out
}

// recordVisit runs on the command goroutine for every pushed location
func (a *App) recordVisit(sessionID string, u *url.URL) {
	if a.visits == nil {
		return
	}
	if err := a.visits.Add(sessionID, u.String()); err != nil {
		a.log.Warn().Err(err).Msg("failed to record visit")
		return
	}
	if keep := a.config.History.MaxEntries; keep > 0 {
		if err := a.visits.Prune(keep); err != nil {
			a.log.Warn().Err(err).Msg("failed to prune visits")
		}
	}
}

func (a *App) itemDisabled(item tree.Node) {
	a.status = "row locked"
}

func (a *App) itemEnabled(item tree.Node) {
	a.status = "row unlocked"
}

func (a *App) collectError(err error) {
	a.pendingMu.Lock()
	defer a.pendingMu.Unlock()
	a.pendingErrs = append(a.pendingErrs, err)
}

func (a *App) drainErrors(last error) []error {
	a.pendingMu.Lock()
	errs := a.pendingErrs
	a.pendingErrs = nil
	a.pendingMu.Unlock()

	if last == nil {
		return errs
	}
	for _, e := range errs {
		if e == last {
			return errs
		}
	}
	return append(errs, last)
}

// Widget returns the data provider driven by the browser
func (a *App) Widget() *provider.Widget {
	return a.widget
}

// Location returns the current navigation location
func (a *App) Location() *url.URL {
	return a.stack.Current()
}

// Close releases the navigation subscription
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	load := a.run("init", func(ctx context.Context) error {
		if err := a.widget.Init(ctx); err != nil {
			return err
		}
		if a.config.Provider.DynamicURL && len(a.replacers) > 0 {
			return a.widget.ModifyURL(ctx, a.replacers)
		}
		return nil
	})
	return tea.Batch(a.spinner.Tick, load)
}

// run executes a widget command off the event loop. A command issued while
// another one runs is dropped, like a load issued during a load.
func (a *App) run(name string, fn func(ctx context.Context) error) tea.Cmd {
	return a.runWithStatus(name, "", fn)
}

// runWithStatus is run with a status line shown when fn succeeds
func (a *App) runWithStatus(name, status string, fn func(ctx context.Context) error) tea.Cmd {
	if a.busy {
		a.log.Debug().Str("command", name).Str("running", a.lastCommand).Msg("command dropped")
		return nil
	}
	a.busy = true
	a.lastCommand = name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return commandDoneMsg{name: name, status: status, err: fn(ctx)}
	}
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}

func (a *App) showErr(title string, err error) {
	a.log.Error().Err(err).Str("title", title).Msg("error shown")
	a.ShowError(title, err.Error())
}

// columns returns the columns shown for the current records
func (a *App) columns() []components.Column {
	recs := a.widget.Records()
	if len(recs) == 0 {
		return a.renderer.Columns(nil)
	}
	return a.renderer.Columns(&recs[0])
}

// refresh re-reads the tree into the table view and renders a new frame
func (a *App) refresh() {
	a.tableView.SetBody(a.body, a.columns(), a.widget.State().Sort)
	a.frame = a.renderFrame()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commandDoneMsg:
		a.busy = false
		errs := a.drainErrors(msg.err)
		a.refresh()
		if len(errs) > 0 {
			last := errs[len(errs)-1]
			a.showErr(errorTitle(msg.name, last), last)
		} else if msg.status != "" {
			a.status = msg.status
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		if !a.busy {
			a.frame = a.renderFrame()
		}
		return a, nil

	case tea.MouseMsg:
		if a.busy || a.mode != NormalMode || a.showError {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.tableView.MoveSelection(-1)
		case tea.MouseButtonWheelDown:
			a.tableView.MoveSelection(1)
		}
		a.frame = a.renderFrame()
		return a, nil

	case tea.KeyMsg:
		if a.showError {
			switch msg.String() {
			case "esc", "enter":
				a.DismissError()
			case "q", "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}
		model, cmd := a.handleKey(msg)
		if !a.busy {
			a.frame = a.renderFrame()
		}
		return model, cmd
	}

	return a.handleModeMsg(msg)
}

// handleModeMsg routes component messages and forwards the rest to the
// component of the current mode
func (a *App) handleModeMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case components.SearchInputMsg:
		a.mode = NormalMode
		term := msg.Query
		cmd = a.run("search", func(ctx context.Context) error {
			return a.widget.Search(ctx, term)
		})

	case components.CloseSearchMsg, components.CloseFilterBuilderMsg, components.CloseBookmarksDialogMsg, components.PromptCancelMsg:
		a.mode = NormalMode

	case components.ApplyFilterMsg:
		a.mode = NormalMode
		f := msg
		cmd = a.run("filter", func(ctx context.Context) error {
			_, err := a.widget.AddFilter(ctx, f.Key, f.Operator, f.Value, filter.DisplayString(f.Key, f.Operator, f.Value))
			return err
		})

	case components.OpenBookmarkMsg:
		a.mode = NormalMode
		cmd = a.openBookmark(msg.Bookmark)

	case components.DeleteBookmarkMsg:
		if err := a.bookmarks.Delete(msg.Bookmark.ID); err != nil {
			a.showErr("Bookmark Error", err)
		}
		a.bookmarksDialog.SetBookmarks(a.bookmarks.GetAll())

	case components.SaveBookmarkMsg:
		a.mode = NormalMode
		a.saveBookmark(msg)

	case components.PromptSubmitMsg:
		a.mode = NormalMode
		if msg.Purpose == promptEditCell {
			a.editCell(msg.Value)
		}

	default:
		switch a.mode {
		case SearchMode:
			a.search, cmd = a.search.Update(msg)
		case FilterMode:
			a.filterBuilder, cmd = a.filterBuilder.Update(msg)
		case BookmarksMode:
			a.bookmarksDialog, cmd = a.bookmarksDialog.Update(msg)
		case PromptMode:
			a.prompt, cmd = a.prompt.Update(msg)
		}
	}
	if !a.busy {
		a.frame = a.renderFrame()
	}
	return a, cmd
}

func errorTitle(command string, err error) string {
	var loadErr *provider.LoadError
	if errors.As(err, &loadErr) {
		switch loadErr.Op {
		case "save":
			return "Save Failed"
		case "restore history", "persist history":
			return "History Error"
		}
		return "Load Failed"
	}
	var dup *filter.DuplicateFilterError
	if errors.As(err, &dup) {
		return "Filter Error"
	}
	return "Command Failed: " + command
}

func (a *App) openBookmark(b models.Bookmark) tea.Cmd {
	u, err := url.Parse(b.Location)
	if err != nil {
		a.showErr("Bookmark Error", fmt.Errorf("invalid bookmark location: %w", err))
		return nil
	}
	if err := a.bookmarks.RecordUsage(b.ID); err != nil {
		a.log.Warn().Err(err).Str("bookmark", b.Name).Msg("failed to record bookmark usage")
	}
	if a.busy {
		return nil
	}
	a.stack.Push(u)
	a.status = "opened " + b.Name
	return a.run("navigate", a.widget.Navigated)
}

func (a *App) saveBookmark(msg components.SaveBookmarkMsg) {
	if a.bookmarks == nil {
		return
	}
	b, err := a.bookmarks.Add(msg.Name, msg.Description, a.stack.Current().String(), msg.Tags)
	if err != nil {
		a.showErr("Bookmark Error", err)
		return
	}
	a.status = "bookmarked as " + b.Name
}
