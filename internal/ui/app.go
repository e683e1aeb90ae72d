package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/justyntemme/bookfinder/internal/finder"
	"github.com/justyntemme/bookfinder/internal/ui/styles"
	"github.com/justyntemme/bookfinder/internal/ui/terminal"
	"github.com/justyntemme/bookfinder/internal/ui/views"
)

// Options configures a new App
type Options struct {
	Catalog  finder.Catalog
	Covers   views.CoverSource
	DarkMode bool
	Timeout  time.Duration
	TermMode terminal.TermImageMode
	Log      *zap.Logger
}

// App is the main application model
type App struct {
	state *finder.State
	keys  KeyMap
	help  help.Model
	log   *zap.Logger

	// Current view state
	currentView views.ViewType

	// Window dimensions
	width  int
	height int

	// View models
	searchView  *views.SearchView
	detailsView *views.DetailsView

	showHelp bool
}

// NewApp creates a new application instance. ctx bounds every request the
// UI issues.
func NewApp(ctx context.Context, opts Options) *App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	state := finder.NewState(opts.DarkMode)
	styles.SetDarkMode(state.DarkMode)

	deps := views.Deps{
		Ctx:     ctx,
		Catalog: opts.Catalog,
		Covers:  opts.Covers,
		Timeout: opts.Timeout,
		Log:     log,
	}

	h := help.New()
	h.ShowAll = true

	return &App{
		state:       state,
		keys:        DefaultKeyMap(),
		help:        h,
		log:         log,
		currentView: views.ViewSearch,
		width:       80,
		height:      24,
		searchView:  views.NewSearchView(state, deps),
		detailsView: views.NewDetailsView(state, deps, opts.TermMode),
	}
}

// State exposes the session state
func (a *App) State() *finder.State {
	return a.state
}

// CurrentView returns the screen receiving input
func (a *App) CurrentView() views.ViewType {
	return a.currentView
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.searchView.Init(),
		tea.SetWindowTitle("Bookstore"),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.searchView.SetSize(msg.Width, msg.Height)
		a.detailsView.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}

	case views.SelectBookMsg:
		a.log.Debug("opening details", zap.String("key", msg.Book.Key))
		a.currentView = views.ViewDetails
		return a, a.detailsView.Open(msg.Book)

	case views.CloseDetailsMsg:
		a.currentView = views.ViewSearch
		return a, nil

	// Completions go to their owner whichever screen is active
	case views.SearchDoneMsg:
		_, cmd := a.searchView.Update(msg)
		return a, cmd

	case views.RecommendationsDoneMsg, views.CoverDoneMsg:
		_, cmd := a.detailsView.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		_, searchCmd := a.searchView.Update(msg)
		_, detailsCmd := a.detailsView.Update(msg)
		return a, tea.Batch(searchCmd, detailsCmd)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.currentView {
	case views.ViewDetails:
		_, cmd = a.detailsView.Update(msg)
	default:
		_, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

// handleGlobalKey processes keys that work on every screen. Letter keys are
// left to the search box while it has focus.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, a.keys.Force) {
		return a, tea.Quit, true
	}

	if a.showHelp {
		if key.Matches(msg, a.keys.Help, a.keys.Escape, a.keys.Quit) {
			a.showHelp = false
		}
		return a, nil, true
	}

	typing := a.currentView == views.ViewSearch && a.searchView.InputFocused()
	if msg.String() == "ctrl+t" || (!typing && key.Matches(msg, a.keys.Theme)) {
		a.toggleTheme()
		return a, nil, true
	}
	if typing {
		return a, nil, false
	}

	switch {
	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return a, nil, true
	case key.Matches(msg, a.keys.Quit) && a.currentView == views.ViewSearch:
		return a, tea.Quit, true
	}
	return a, nil, false
}

// toggleTheme flips dark mode and restyles both views
func (a *App) toggleTheme() {
	dark := a.state.ToggleDarkMode()
	styles.SetDarkMode(dark)
	a.log.Debug("theme changed", zap.Bool("dark", dark))

	changed := views.ThemeChangedMsg{Dark: dark}
	a.searchView.Update(changed)
	a.detailsView.Update(changed)
}

// View implements tea.Model
func (a *App) View() string {
	if a.showHelp {
		return a.renderHelp()
	}

	switch a.currentView {
	case views.ViewDetails:
		return a.detailsView.View()
	default:
		return a.searchView.View()
	}
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	body := styles.Dialog.Render(
		styles.DialogTitle.Render("Keyboard Shortcuts") + "\n" +
			a.help.View(a.keys) + "\n\n" +
			styles.Help.Render("While typing a search only enter, esc, ctrl+t and ctrl+c are special."),
	)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		body,
	)
}
