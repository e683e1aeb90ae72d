package ui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/bookfinder/internal/ui/styles"
	"github.com/justyntemme/bookfinder/internal/ui/views"
	"github.com/justyntemme/bookfinder/pkg/models"
)

type stubCatalog struct {
	books []models.Book
}

func (s stubCatalog) SearchTitle(context.Context, string) ([]models.Book, error) {
	return s.books, nil
}

func (s stubCatalog) SearchAuthor(context.Context, string, int) ([]models.Book, error) {
	return s.books, nil
}

func sampleBooks(n int) []models.Book {
	books := make([]models.Book, n)
	for i := range books {
		books[i] = models.Book{
			Key:        fmt.Sprintf("/works/OL%dW", i+1),
			Title:      fmt.Sprintf("Dune %d", i+1),
			AuthorName: []string{"Frank Herbert"},
		}
	}
	return books
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// pump feeds msg to the app and keeps feeding back the messages produced
// by the returned commands until nothing of interest is left
func pump(a *App, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		_, cmd := a.Update(next)
		queue = append(queue, collect(cmd)...)
	}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case views.SearchDoneMsg, views.RecommendationsDoneMsg, views.CoverDoneMsg,
		views.SelectBookMsg, views.CloseDetailsMsg:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

func newTestApp(t *testing.T, books []models.Book) *App {
	t.Helper()
	t.Cleanup(func() { styles.SetDarkMode(false) })

	a := NewApp(context.Background(), Options{Catalog: stubCatalog{books: books}})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

func TestSearchOpenAndCloseDetails(t *testing.T) {
	a := newTestApp(t, sampleBooks(5))

	pump(a, runes("dune"))
	pump(a, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, a.State().Books, 5)
	assert.Equal(t, views.ViewSearch, a.CurrentView())

	pump(a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, views.ViewDetails, a.CurrentView())
	require.True(t, a.State().IsOpen())
	assert.Equal(t, "/works/OL1W", a.State().Selected.Key)
	assert.Len(t, a.State().Recommended, 4)
	assert.Contains(t, a.View(), "Recommended Books")

	pump(a, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, views.ViewSearch, a.CurrentView())
	assert.False(t, a.State().IsOpen())
}

func TestQDoesNotQuitWhileTyping(t *testing.T) {
	a := newTestApp(t, nil)

	_, cmd := a.Update(runes("q"))
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	assert.Equal(t, views.ViewSearch, a.CurrentView())
}

func TestQuitFromGrid(t *testing.T) {
	a := newTestApp(t, sampleBooks(2))
	pump(a, runes("dune"))
	pump(a, tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := a.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestCtrlCAlwaysQuits(t *testing.T) {
	a := newTestApp(t, nil)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestToggleDarkMode(t *testing.T) {
	a := newTestApp(t, sampleBooks(2))
	assert.False(t, a.State().DarkMode)

	// While typing, t is just a letter
	a.Update(runes("t"))
	assert.False(t, a.State().DarkMode)

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, a.State().DarkMode)
	assert.True(t, styles.IsDark())
	assert.Contains(t, a.View(), "☀")

	pump(a, tea.KeyMsg{Type: tea.KeyEnter})
	a.Update(runes("t"))
	assert.False(t, a.State().DarkMode)
	assert.False(t, styles.IsDark())
}

func TestHelpOverlay(t *testing.T) {
	a := newTestApp(t, sampleBooks(1))
	pump(a, runes("dune"))
	pump(a, tea.KeyMsg{Type: tea.KeyEnter})

	a.Update(runes("?"))
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, a.View(), "Keyboard Shortcuts")
}

func TestStartsInConfiguredTheme(t *testing.T) {
	t.Cleanup(func() { styles.SetDarkMode(false) })

	a := NewApp(context.Background(), Options{Catalog: stubCatalog{}, DarkMode: true})
	assert.True(t, a.State().DarkMode)
	assert.True(t, styles.IsDark())
}
