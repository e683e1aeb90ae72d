package styles

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "Dune", TruncateText("Dune", 10))
	assert.Equal(t, "", TruncateText("Dune", 0))

	got := TruncateText("Children of Dune", 8)
	assert.LessOrEqual(t, runewidth.StringWidth(got), 8)
	assert.Contains(t, got, "…")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "Dune      ", PadRight("Dune", 10))
	assert.Equal(t, 6, runewidth.StringWidth(PadRight("God Emperor of Dune", 6)))
}

func TestWrap(t *testing.T) {
	assert.Contains(t, Wrap("a long sentence", 8), "\n")
	assert.Equal(t, "untouched", Wrap("untouched", 0))
}

func TestSetDarkModeSwapsTheme(t *testing.T) {
	t.Cleanup(func() { SetDarkMode(false) })

	SetDarkMode(true)
	assert.True(t, IsDark())
	assert.Equal(t, DarkTheme.Background, Background)
	assert.Equal(t, "☀", ModeIcon())

	SetDarkMode(false)
	assert.False(t, IsDark())
	assert.Equal(t, LightTheme.Background, Background)
	assert.Equal(t, "☾", ModeIcon())
}
