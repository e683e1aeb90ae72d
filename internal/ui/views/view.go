package views

import (
	"context"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/justyntemme/bookfinder/internal/finder"
	"github.com/justyntemme/bookfinder/pkg/models"
)

// ViewType represents different screens in the application
type ViewType int

const (
	ViewSearch ViewType = iota
	ViewDetails
)

// String returns the name of the view
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "Search"
	case ViewDetails:
		return "Details"
	default:
		return "Unknown"
	}
}

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// CoverSource loads cover thumbnails; satisfied by *covers.Loader
type CoverSource interface {
	Load(ctx context.Context, coverID int, size models.CoverSize) (image.Image, error)
}

// Deps are the collaborators shared by every view
type Deps struct {
	Ctx     context.Context
	Catalog finder.Catalog
	Covers  CoverSource
	Timeout time.Duration
	Log     *zap.Logger
}

// requestContext derives a per-request context with the configured timeout
func (d Deps) requestContext() (context.Context, context.CancelFunc) {
	ctx := d.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if d.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.Timeout)
}

// coversURL returns the cover host the catalog is configured with
func (d Deps) coversURL() string {
	if c, ok := d.Catalog.(interface{ CoversURL() string }); ok {
		return c.CoversURL()
	}
	return models.DefaultCoversURL
}

// coverURL builds the cover URL for book at size, or "" without a cover
func (d Deps) coverURL(book *models.Book, size models.CoverSize) string {
	if !book.HasCover() {
		return ""
	}
	return models.CoverURL(d.coversURL(), *book.CoverID, size)
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Message types for inter-view communication

// SelectBookMsg opens the details panel for a book
type SelectBookMsg struct {
	Book models.Book
}

// CloseDetailsMsg is sent after the details panel has been dismissed
type CloseDetailsMsg struct{}

// SearchDoneMsg carries the outcome of a title search
type SearchDoneMsg struct {
	Request finder.SearchRequest
	Result  finder.Result
}

// RecommendationsDoneMsg carries the outcome of an author lookup
type RecommendationsDoneMsg struct {
	Request finder.RecommendationRequest
	Result  finder.Result
}

// CoverDoneMsg carries a decoded cover for the book with BookKey
type CoverDoneMsg struct {
	BookKey string
	Size    models.CoverSize
	Image   image.Image
	Err     error
}

// ThemeChangedMsg is sent after dark mode was toggled
type ThemeChangedMsg struct {
	Dark bool
}

// SelectBook creates a command that opens the details panel
func SelectBook(book models.Book) tea.Cmd {
	return func() tea.Msg {
		return SelectBookMsg{Book: book}
	}
}

// CloseDetails creates a command that reports the panel was closed
func CloseDetails() tea.Cmd {
	return func() tea.Msg {
		return CloseDetailsMsg{}
	}
}

// searchCmd runs a title search off the event loop
func searchCmd(deps Deps, req finder.SearchRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		return SearchDoneMsg{Request: req, Result: finder.FetchSearch(ctx, deps.Catalog, req)}
	}
}

// recommendationsCmd runs an author lookup off the event loop
func recommendationsCmd(deps Deps, req finder.RecommendationRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		return RecommendationsDoneMsg{Request: req, Result: finder.FetchRecommendations(ctx, deps.Catalog, req)}
	}
}

// coverCmd loads a cover thumbnail: medium for the selected book, small
// for a recommendation row
func coverCmd(deps Deps, bookKey string, coverID int, size models.CoverSize) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := deps.requestContext()
		defer cancel()
		img, err := deps.Covers.Load(ctx, coverID, size)
		return CoverDoneMsg{BookKey: bookKey, Size: size, Image: img, Err: err}
	}
}
