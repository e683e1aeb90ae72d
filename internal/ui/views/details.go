package views

import (
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/justyntemme/bookfinder/internal/finder"
	"github.com/justyntemme/bookfinder/internal/ui/styles"
	"github.com/justyntemme/bookfinder/internal/ui/terminal"
	"github.com/justyntemme/bookfinder/pkg/models"
)

const maxDialogWidth = 72

// DetailsView is the modal shown over the grid for one selected book
type DetailsView struct {
	state *finder.State
	deps  Deps

	spinner spinner.Model
	cursor  int // highlighted recommendation

	// Cover
	termMode     terminal.TermImageMode
	coverKey     string
	cover        image.Image
	coverLoading bool
	coverShown   bool

	// Small covers of the recommendations, keyed by work key
	thumbs       map[string]image.Image
	thumbPending map[string]bool

	// Dimensions
	width  int
	height int
}

// NewDetailsView creates the details modal. termMode decides whether the
// cover is drawn inline or replaced by a text placeholder.
func NewDetailsView(state *finder.State, deps Deps, termMode terminal.TermImageMode) *DetailsView {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &DetailsView{
		state:    state,
		deps:     deps,
		spinner:  sp,
		termMode: termMode,
		width:    80,
		height:   24,
	}
}

// Init implements View
func (v *DetailsView) Init() tea.Cmd {
	return nil
}

// Open selects book and starts the recommendation and cover lookups
func (v *DetailsView) Open(book models.Book) tea.Cmd {
	v.clearCover()
	v.cursor = 0
	v.thumbs = map[string]image.Image{}
	v.thumbPending = map[string]bool{}

	var cmds []tea.Cmd
	req, ok := v.state.Select(book)
	if ok {
		v.deps.logger().Debug("loading recommendations",
			zap.Uint64("generation", req.Generation),
			zap.String("author", req.Author),
			zap.String("key", req.SelectedKey),
		)
		cmds = append(cmds, recommendationsCmd(v.deps, req), v.spinner.Tick)
	}

	if book.HasCover() && v.imagesEnabled() {
		v.coverKey = book.Key
		v.coverLoading = true
		cmds = append(cmds, coverCmd(v.deps, book.Key, *book.CoverID, models.CoverMedium))
	}

	return tea.Batch(cmds...)
}

// Cursor returns the highlighted recommendation index
func (v *DetailsView) Cursor() int {
	return v.cursor
}

// Update implements View
func (v *DetailsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case RecommendationsDoneMsg:
		log := v.deps.logger().With(
			zap.Uint64("generation", msg.Request.Generation),
			zap.String("author", msg.Request.Author),
		)
		if !v.state.CompleteRecommendations(msg.Request, msg.Result) {
			log.Debug("discarding stale recommendations")
			return v, nil
		}
		if msg.Result.Failed() {
			log.Warn("recommendations failed", zap.Error(msg.Result.Err))
		}
		v.cursor = 0
		return v, v.loadThumb()

	case CoverDoneMsg:
		if msg.Size == models.CoverSmall {
			v.handleThumb(msg)
			return v, nil
		}
		if v.state.Selected == nil || msg.BookKey != v.coverKey || msg.BookKey != v.state.Selected.Key {
			return v, nil
		}
		v.coverLoading = false
		if msg.Err != nil {
			v.deps.logger().Debug("cover unavailable", zap.String("key", msg.BookKey), zap.Error(msg.Err))
			return v, nil
		}
		v.cover = msg.Image

	case spinner.TickMsg:
		if !v.state.LoadingRecommendations {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case ThemeChangedMsg:
		v.spinner.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	}

	return v, nil
}

// handleKey processes key presses inside the modal
func (v *DetailsView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	recs := v.state.Recommended

	switch msg.String() {
	case "esc", "q", "x", "backspace":
		return v, v.close()
	case "j", "down":
		if v.cursor < len(recs)-1 {
			v.cursor++
			return v, v.loadThumb()
		}
	case "k", "up":
		if v.cursor > 0 {
			v.cursor--
			return v, v.loadThumb()
		}
	case "enter":
		if !v.state.LoadingRecommendations && v.cursor < len(recs) {
			return v, SelectBook(recs[v.cursor])
		}
	}
	return v, nil
}

func (v *DetailsView) imagesEnabled() bool {
	return v.termMode != terminal.TermModeNone && v.deps.Covers != nil
}

// highlighted returns the recommendation under the cursor
func (v *DetailsView) highlighted() (models.Book, bool) {
	recs := v.state.Recommended
	if v.state.LoadingRecommendations || v.cursor >= len(recs) {
		return models.Book{}, false
	}
	return recs[v.cursor], true
}

// loadThumb fetches the small cover of the highlighted recommendation
func (v *DetailsView) loadThumb() tea.Cmd {
	rec, ok := v.highlighted()
	if !ok || !rec.HasCover() || !v.imagesEnabled() {
		return nil
	}
	if _, done := v.thumbs[rec.Key]; done || v.thumbPending[rec.Key] {
		return nil
	}
	v.thumbPending[rec.Key] = true
	return coverCmd(v.deps, rec.Key, *rec.CoverID, models.CoverSmall)
}

// handleThumb stores a small cover requested by the current selection
func (v *DetailsView) handleThumb(msg CoverDoneMsg) {
	if !v.thumbPending[msg.BookKey] {
		return
	}
	delete(v.thumbPending, msg.BookKey)
	if msg.Err != nil {
		v.deps.logger().Debug("thumbnail unavailable", zap.String("key", msg.BookKey), zap.Error(msg.Err))
		return
	}
	v.thumbs[msg.BookKey] = msg.Image
}

// close dismisses the modal and removes any inline cover
func (v *DetailsView) close() tea.Cmd {
	v.clearCover()
	v.state.Close()
	v.cursor = 0
	return CloseDetails()
}

func (v *DetailsView) clearCover() {
	if v.coverShown {
		terminal.ClearCoverCmd(v.termMode)()
	}
	v.cover = nil
	v.thumbs = nil
	v.thumbPending = nil
	v.coverKey = ""
	v.coverLoading = false
	v.coverShown = false
}

// SetSize implements View
func (v *DetailsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View implements View
func (v *DetailsView) View() string {
	book := v.state.Selected
	if book == nil {
		return ""
	}

	width := max(20, min(maxDialogWidth, v.width-4))
	inner := width - 6

	var b strings.Builder

	b.WriteString(styles.DialogTitle.Render(styles.Wrap(book.Title, inner)) + "\n")
	b.WriteString(v.renderField("Author", book.AuthorLine(), inner))
	b.WriteString(v.renderField("Published", book.PublishedLine(), inner))
	if subjects := book.Subjects(); len(subjects) > 0 {
		b.WriteString(v.renderField("Subjects", strings.Join(subjects, ", "), inner))
	}
	b.WriteString(v.renderCoverLine(book, inner))

	b.WriteString("\n" + styles.HelpKey.Render("Description") + "\n")
	b.WriteString(styles.Wrap(book.Description(), inner) + "\n")

	b.WriteString("\n" + styles.HelpKey.Render("Recommended Books") + "\n")
	b.WriteString(v.renderRecommendations(inner))

	b.WriteString("\n" + v.renderFooter())

	dialog := styles.Dialog.Width(width).Render(b.String())

	var out strings.Builder
	if img := v.renderCover(); img != "" {
		out.WriteString(img + "\n")
	}
	out.WriteString(lipgloss.Place(
		v.width,
		max(lipgloss.Height(dialog), v.height-lipgloss.Height(out.String())),
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(styles.Backdrop),
	))
	return out.String()
}

// renderField renders a label-value pair
func (v *DetailsView) renderField(label, value string, width int) string {
	valueWidth := max(10, width-lipgloss.Width(styles.FieldLabel.Render(""))-1)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		styles.FieldLabel.Render(label+":"),
		" "+styles.Wrap(value, valueWidth),
	) + "\n"
}

// renderCoverLine describes the cover when it is not drawn inline
func (v *DetailsView) renderCoverLine(book *models.Book, width int) string {
	switch {
	case !book.HasCover():
		return v.renderField("Cover", styles.NoImage.Render(models.NoImage), width)
	case v.cover != nil:
		return ""
	case v.coverLoading:
		return v.renderField("Cover", styles.MutedText.Render("loading..."), width)
	default:
		return v.renderField("Cover", styles.MutedText.Render(v.coverURL(book)), width)
	}
}

// renderCover draws the medium cover and the highlighted recommendation's
// small cover with the terminal's image protocol
func (v *DetailsView) renderCover() string {
	var out string
	if v.cover != nil {
		out += v.renderImage(v.cover, terminal.CoverImageID)
	}
	if rec, ok := v.highlighted(); ok {
		if thumb := v.thumbs[rec.Key]; thumb != nil {
			out += v.renderImage(thumb, terminal.ThumbImageID)
		}
	}
	if out != "" {
		v.coverShown = true
	}
	return out
}

func (v *DetailsView) renderImage(img image.Image, id uint32) string {
	s, err := terminal.RenderCover(img, v.termMode, id)
	if err != nil {
		v.deps.logger().Debug("cover render failed", zap.Uint32("image_id", id), zap.Error(err))
		return ""
	}
	return s
}

func (v *DetailsView) coverURL(book *models.Book) string {
	return v.deps.coverURL(book, models.CoverMedium)
}

// renderRecommendations renders the author's other books
func (v *DetailsView) renderRecommendations(width int) string {
	if v.state.LoadingRecommendations {
		return v.spinner.View() + styles.MutedText.Render(" Loading recommendations...") + "\n"
	}
	recs := v.state.Recommended
	if len(recs) == 0 {
		return styles.MutedText.Render("No recommendations found.") + "\n"
	}

	var b strings.Builder
	for i, rec := range recs {
		marker := "□ "
		if rec.HasCover() {
			marker = "▣ "
		}
		line := marker + rec.Title
		if year := rec.PublishedLine(); year != models.UnknownYear {
			line += " (" + year + ")"
		}
		line = styles.TruncateText(line, width-4)

		author := rec.PrimaryAuthor()
		if author == "" {
			author = models.UnknownRecAuthor
		}
		author = styles.ListItem.Render("    " + styles.BookAuthor.Render(styles.TruncateText(author, width-6)))

		if i != v.cursor {
			b.WriteString(styles.ListItem.Render("  "+line) + "\n" + author + "\n")
			continue
		}
		b.WriteString(styles.ListItemSelected.Render("▸ "+line) + "\n" + author + "\n")
		b.WriteString(styles.ListItem.Render("    "+v.renderThumbLine(&rec, width-6)) + "\n")
	}
	return b.String()
}

// renderThumbLine shows the small cover URL of the highlighted row
func (v *DetailsView) renderThumbLine(rec *models.Book, width int) string {
	switch {
	case !rec.HasCover():
		return styles.NoImage.Render(models.NoImage)
	case v.thumbs[rec.Key] != nil:
		return styles.MutedText.Render("cover shown above")
	default:
		return styles.MutedText.Render(styles.TruncateText(v.deps.coverURL(rec, models.CoverSmall), width))
	}
}

// renderFooter renders the footer help
func (v *DetailsView) renderFooter() string {
	help := []string{
		styles.HelpKey.Render("j/k") + styles.Help.Render(" nav"),
		styles.HelpKey.Render("enter") + styles.Help.Render(" open"),
		styles.HelpKey.Render("esc/x") + styles.Help.Render(" close"),
	}
	return strings.Join(help, "  ")
}
