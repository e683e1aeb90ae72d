package views

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/justyntemme/bookfinder/internal/finder"
	"github.com/justyntemme/bookfinder/internal/ui/styles"
	"github.com/justyntemme/bookfinder/pkg/models"
)

const (
	// cardWidth is the outer width of one grid card, border included
	cardWidth = 28
	// cardHeight is the outer height of one grid card, border included
	cardHeight = 5
	maxColumns = 4
	// chromeLines is everything around the grid: header, search box,
	// cover line, pagination bar, footer and spacing
	chromeLines = 11
)

// SearchView is the main screen: a search box over a paginated results grid
type SearchView struct {
	state *finder.State
	deps  Deps

	input        textinput.Model
	inputFocused bool
	spinner      spinner.Model

	// Grid position within the current page
	cursor    int
	rowOffset int

	// Dimensions
	width  int
	height int
}

// NewSearchView creates the search screen
func NewSearchView(state *finder.State, deps Deps) *SearchView {
	input := textinput.New()
	input.Placeholder = "Search by title..."
	input.CharLimit = 200
	input.Width = 40
	input.Prompt = "⌕ "
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &SearchView{
		state:        state,
		deps:         deps,
		input:        input,
		inputFocused: true,
		spinner:      sp,
		width:        80,
		height:       24,
	}
}

// Init implements View
func (v *SearchView) Init() tea.Cmd {
	return textinput.Blink
}

// InputFocused reports whether keystrokes go to the search box
func (v *SearchView) InputFocused() bool {
	return v.inputFocused
}

// Cursor returns the index of the highlighted card on the current page
func (v *SearchView) Cursor() int {
	return v.cursor
}

// Update implements View
func (v *SearchView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.inputFocused {
			return v.handleInputKey(msg)
		}
		return v.handleGridKey(msg)

	case SearchDoneMsg:
		return v, v.handleSearchDone(msg)

	case spinner.TickMsg:
		if !v.state.Loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case ThemeChangedMsg:
		v.spinner.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	}

	if v.inputFocused {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleInputKey processes keys while the search box has focus
func (v *SearchView) handleInputKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return v, v.submit()
	case "esc", "tab", "down":
		if len(v.state.Page().Books) > 0 {
			v.blurInput()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleGridKey processes keys while the results grid has focus
func (v *SearchView) handleGridKey(msg tea.KeyMsg) (View, tea.Cmd) {
	page := v.state.Page()
	cols := v.columns()

	switch key := msg.String(); key {
	case "/", "i", "tab":
		v.input.Focus()
		v.inputFocused = true
		return v, textinput.Blink
	case "l", "right":
		v.moveCursor(1, len(page.Books))
	case "h", "left":
		v.moveCursor(-1, len(page.Books))
	case "j", "down":
		v.moveCursor(cols, len(page.Books))
	case "k", "up":
		if v.cursor < cols {
			v.input.Focus()
			v.inputFocused = true
			return v, textinput.Blink
		}
		v.moveCursor(-cols, len(page.Books))
	case "g", "home":
		v.cursor = 0
		v.rowOffset = 0
	case "G", "end":
		v.cursor = max(0, len(page.Books)-1)
		v.updateOffset()
	case "enter":
		if v.cursor < len(page.Books) {
			return v, SelectBook(page.Books[v.cursor])
		}
	case "n", "pgdown":
		v.changePage(v.state.NextPage())
	case "p", "pgup":
		v.changePage(v.state.PreviousPage())
	case "L":
		v.changePage(v.state.LastPage())
	case "1", "2", "3":
		idx, _ := strconv.Atoi(key)
		if idx <= len(page.Window) {
			v.changePage(v.state.SetPage(page.Window[idx-1]))
		}
	}
	return v, nil
}

// submit starts a search for the current input
func (v *SearchView) submit() tea.Cmd {
	req, ok := v.state.BeginSearch(v.input.Value())
	if !ok {
		return nil
	}
	v.resetScroll()
	v.deps.logger().Debug("search started",
		zap.Uint64("generation", req.Generation),
		zap.String("query", req.Query),
	)
	return tea.Batch(searchCmd(v.deps, req), v.spinner.Tick)
}

// handleSearchDone applies a completed search if it is still current
func (v *SearchView) handleSearchDone(msg SearchDoneMsg) tea.Cmd {
	log := v.deps.logger().With(
		zap.Uint64("generation", msg.Request.Generation),
		zap.String("query", msg.Request.Query),
	)
	if !v.state.CompleteSearch(msg.Request, msg.Result) {
		log.Debug("discarding stale search result")
		return nil
	}
	if msg.Result.Failed() {
		log.Warn("search failed", zap.Error(msg.Result.Err))
	} else {
		log.Debug("search finished", zap.Int("books", len(v.state.Books)))
	}

	v.resetScroll()
	if len(v.state.Books) > 0 {
		v.blurInput()
	}
	return nil
}

func (v *SearchView) blurInput() {
	v.input.Blur()
	v.inputFocused = false
}

// changePage resets the grid position after a page switch
func (v *SearchView) changePage(changed bool) {
	if changed {
		v.resetScroll()
	}
}

// resetScroll moves the highlight back to the first card of the page
func (v *SearchView) resetScroll() {
	v.cursor = 0
	v.rowOffset = 0
}

// moveCursor moves the highlight by delta cards, staying on the page
func (v *SearchView) moveCursor(delta, count int) {
	if count == 0 {
		return
	}
	next := v.cursor + delta
	if next < 0 || next >= count {
		return
	}
	v.cursor = next
	v.updateOffset()
}

// updateOffset keeps the highlighted row on screen
func (v *SearchView) updateOffset() {
	row := v.cursor / v.columns()
	rows := v.visibleRows()
	if row < v.rowOffset {
		v.rowOffset = row
	}
	if row >= v.rowOffset+rows {
		v.rowOffset = row - rows + 1
	}
}

// columns returns how many cards fit side by side
func (v *SearchView) columns() int {
	return max(1, min(maxColumns, v.width/cardWidth))
}

// visibleRows returns how many card rows fit on screen
func (v *SearchView) visibleRows() int {
	return max(1, (v.height-chromeLines)/cardHeight)
}

// View implements View
func (v *SearchView) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader() + "\n\n")

	inputStyle := styles.InputField
	if v.inputFocused {
		inputStyle = styles.InputFieldFocused
	}
	b.WriteString(inputStyle.Render(v.input.View()) + "\n\n")

	gridHeight := max(1, v.height-chromeLines)
	page := v.state.Page()

	switch {
	case v.state.Loading:
		b.WriteString(lipgloss.Place(v.width, gridHeight, lipgloss.Center, lipgloss.Center,
			v.spinner.View()+styles.MutedText.Render(" Searching..."),
		))
	case v.state.SearchText == "":
		b.WriteString(lipgloss.Place(v.width, gridHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("Type a title and press enter to search"),
		))
	case len(page.Books) == 0:
		b.WriteString(lipgloss.Place(v.width, gridHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("No books found"),
		))
	default:
		b.WriteString(v.renderGrid(page.Books))
		b.WriteString("\n")
		b.WriteString(v.renderCoverLine(page.Books))
		b.WriteString("\n")
		b.WriteString(v.renderPagination(page))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderFooter())

	return b.String()
}

// SetSize implements View
func (v *SearchView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = max(10, min(60, width-10))
	v.updateOffset()
}

// renderHeader renders the title bar with result count and theme toggle
func (v *SearchView) renderHeader() string {
	title := styles.TitleBar.Render(" Bookstore ")

	info := ""
	if v.state.SearchText != "" && !v.state.Loading {
		n := len(v.state.Books)
		noun := "results"
		if n == 1 {
			noun = "result"
		}
		info = styles.Help.Render(fmt.Sprintf(" %s %s for ", humanize.Comma(int64(n)), noun)) +
			styles.SecondaryText.Render(styles.TruncateText(v.state.SearchText, 30))
	}

	toggle := styles.HelpKey.Render(styles.ModeIcon())

	left := title + info
	gap := max(0, v.width-lipgloss.Width(left)-lipgloss.Width(toggle))
	return left + strings.Repeat(" ", gap) + toggle
}

// renderGrid renders the visible rows of the page as cards
func (v *SearchView) renderGrid(books []models.Book) string {
	cols := v.columns()
	first := v.rowOffset * cols
	last := min(len(books), first+v.visibleRows()*cols)

	var rows []string
	for start := first; start < last; start += cols {
		var cards []string
		for i := start; i < min(start+cols, last); i++ {
			cards = append(cards, v.renderCard(books[i], i == v.cursor && !v.inputFocused))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCard renders one book card: cover marker, title, author
func (v *SearchView) renderCard(book models.Book, selected bool) string {
	inner := cardWidth - 4

	cover := styles.NoImage.Render(models.NoImage)
	if url := v.deps.coverURL(&book, models.CoverMedium); url != "" {
		cover = styles.SecondaryText.Render("▣ " + styles.TruncateText(path.Base(url), inner-2))
	}

	author := book.PrimaryAuthor()
	if author == "" {
		author = models.UnknownAuthor
	}

	content := cover + "\n" +
		styles.BookTitle.Render(styles.TruncateText(book.Title, inner)) + "\n" +
		styles.BookAuthor.Render(styles.TruncateText(author, inner))

	style := styles.Card
	if selected {
		style = styles.CardSelected
	}
	return style.Width(cardWidth - 2).Render(content)
}

// renderCoverLine shows the medium cover URL of the highlighted card
func (v *SearchView) renderCoverLine(books []models.Book) string {
	if v.inputFocused || v.cursor >= len(books) {
		return ""
	}
	book := books[v.cursor]
	if !book.HasCover() {
		return styles.MutedText.Render("cover: ") + styles.NoImage.Render(models.NoImage)
	}
	return styles.MutedText.Render("cover: " + styles.TruncateText(v.deps.coverURL(&book, models.CoverMedium), max(10, v.width-8)))
}

// renderPagination renders Previous, the numbered window, Next and Last
func (v *SearchView) renderPagination(page finder.Page) string {
	if !page.Visible() {
		return ""
	}

	var parts []string
	if page.HasPrevious {
		parts = append(parts, styles.PageButton.Render("‹ Previous"))
	}
	for i, n := range page.Window {
		label := strconv.Itoa(n)
		if n == page.Number {
			parts = append(parts, styles.PageButtonActive.Render(label))
			continue
		}
		parts = append(parts, styles.PageButton.Render(label)+styles.Help.Render(fmt.Sprintf("(%d)", i+1)))
	}
	if page.HasNext {
		parts = append(parts, styles.PageButton.Render("Next ›"))
	}
	if page.HasLast {
		parts = append(parts, styles.PageButton.Render("Last »"))
	}

	status := styles.MutedText.Render(fmt.Sprintf("  page %d of %d", page.Number, page.TotalPages))
	return strings.Join(parts, " ") + status
}

// renderFooter renders the footer help
func (v *SearchView) renderFooter() string {
	var help []string
	if v.inputFocused {
		help = []string{
			styles.HelpKey.Render("enter") + styles.Help.Render(" search"),
			styles.HelpKey.Render("esc") + styles.Help.Render(" results"),
			styles.HelpKey.Render("ctrl+t") + styles.Help.Render(" theme"),
			styles.HelpKey.Render("ctrl+c") + styles.Help.Render(" quit"),
		}
	} else {
		help = []string{
			styles.HelpKey.Render("←↓↑→") + styles.Help.Render(" nav"),
			styles.HelpKey.Render("enter") + styles.Help.Render(" details"),
			styles.HelpKey.Render("n/p/L") + styles.Help.Render(" page"),
			styles.HelpKey.Render("/") + styles.Help.Render(" search"),
			styles.HelpKey.Render("t") + styles.Help.Render(" theme"),
			styles.HelpKey.Render("?") + styles.Help.Render(" help"),
			styles.HelpKey.Render("q") + styles.Help.Render(" quit"),
		}
	}
	return strings.Join(help, "  ")
}
