package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// Colors and styles below are (re)assigned by ApplyTheme
var (
	// Colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Border     lipgloss.Color
	Backdrop   lipgloss.Color

	// Title bar
	TitleBar lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	ErrorStyle    lipgloss.Style

	// Search box
	InputField        lipgloss.Style
	InputFieldFocused lipgloss.Style

	// Results grid
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	NoImage      lipgloss.Style

	// Pagination bar
	PageButton       lipgloss.Style
	PageButtonActive lipgloss.Style

	// Details modal
	Dialog           lipgloss.Style
	DialogTitle      lipgloss.Style
	FieldLabel       lipgloss.Style
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	// Book info
	BookTitle  lipgloss.Style
	BookAuthor lipgloss.Style
)

// TruncateText shortens s to at most width cells, adding an ellipsis
func TruncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return truncate.String(s, uint(width))
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// PadRight pads s with spaces to exactly width cells
func PadRight(s string, width int) string {
	return runewidth.FillRight(TruncateText(s, width), width)
}

// Wrap word-wraps s at width cells
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}
