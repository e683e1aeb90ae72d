package styles

import "github.com/charmbracelet/lipgloss"

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	// Core colors
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color

	// UI element colors
	Border        lipgloss.Color
	Selection     lipgloss.Color
	SelectionText lipgloss.Color
	Backdrop      lipgloss.Color
	CardBorder    lipgloss.Color
}

// Built-in themes
var (
	// LightTheme is the default, matching a fresh session
	LightTheme = Theme{
		Name:          "light",
		Primary:       lipgloss.Color("#7C3AED"),
		Secondary:     lipgloss.Color("#0891B2"),
		Background:    lipgloss.Color("#FFFFFF"),
		Foreground:    lipgloss.Color("#1F2937"),
		Success:       lipgloss.Color("#059669"),
		Warning:       lipgloss.Color("#D97706"),
		Error:         lipgloss.Color("#DC2626"),
		Muted:         lipgloss.Color("#6B7280"),
		Border:        lipgloss.Color("#E5E7EB"),
		Selection:     lipgloss.Color("#7C3AED"),
		SelectionText: lipgloss.Color("#FFFFFF"),
		Backdrop:      lipgloss.Color("#D1D5DB"),
		CardBorder:    lipgloss.Color("#D1D5DB"),
	}

	// DarkTheme is applied while dark mode is on
	DarkTheme = Theme{
		Name:          "dark",
		Primary:       lipgloss.Color("#A78BFA"),
		Secondary:     lipgloss.Color("#06B6D4"),
		Background:    lipgloss.Color("#1F2937"),
		Foreground:    lipgloss.Color("#F9FAFB"),
		Success:       lipgloss.Color("#10B981"),
		Warning:       lipgloss.Color("#F59E0B"),
		Error:         lipgloss.Color("#EF4444"),
		Muted:         lipgloss.Color("#9CA3AF"),
		Border:        lipgloss.Color("#374151"),
		Selection:     lipgloss.Color("#7C3AED"),
		SelectionText: lipgloss.Color("#F9FAFB"),
		Backdrop:      lipgloss.Color("#111827"),
		CardBorder:    lipgloss.Color("#4B5563"),
	}

	// currentTheme holds the active theme
	currentTheme = LightTheme
)

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// IsDark reports whether the dark theme is active
func IsDark() bool {
	return currentTheme.Name == DarkTheme.Name
}

// SetDarkMode switches the global style set between the two themes
func SetDarkMode(dark bool) {
	if dark {
		currentTheme = DarkTheme
	} else {
		currentTheme = LightTheme
	}
	ApplyTheme(currentTheme)
}

// ModeIcon is the glyph on the theme toggle; it shows the mode you would
// switch to.
func ModeIcon() string {
	if IsDark() {
		return "☀"
	}
	return "☾"
}

// ApplyTheme updates all global styles to use the given theme's colors
func ApplyTheme(theme Theme) {
	// Update color variables
	Primary = theme.Primary
	Secondary = theme.Secondary
	Success = theme.Success
	Warning = theme.Warning
	Error = theme.Error
	Muted = theme.Muted
	Background = theme.Background
	Foreground = theme.Foreground
	Border = theme.Border

	TitleBar = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	Help = lipgloss.NewStyle().
		Foreground(theme.Muted)

	HelpKey = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true)

	MutedText = lipgloss.NewStyle().
		Foreground(theme.Muted)

	SecondaryText = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Padding(0, 1)

	InputField = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	InputFieldFocused = InputField.
		BorderForeground(theme.Primary)

	Card = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.CardBorder).
		Padding(0, 1)

	CardSelected = Card.
		BorderForeground(theme.Primary).
		Bold(true)

	NoImage = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	Dialog = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		MarginBottom(1)

	Backdrop = theme.Backdrop

	PageButton = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Padding(0, 1)

	PageButtonActive = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Primary).
		Padding(0, 1).
		Bold(true)

	ListItem = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Padding(0, 1)

	ListItemSelected = lipgloss.NewStyle().
		Foreground(theme.SelectionText).
		Background(theme.Selection).
		Padding(0, 1).
		Bold(true)

	BookTitle = lipgloss.NewStyle().
		Foreground(theme.Foreground).
		Bold(true)

	BookAuthor = lipgloss.NewStyle().
		Foreground(theme.Secondary)

	FieldLabel = lipgloss.NewStyle().
		Foreground(theme.Muted).
		Bold(true).
		Width(13)
}

// init applies the default theme on package load
func init() {
	ApplyTheme(LightTheme)
}
