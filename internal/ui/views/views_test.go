package views

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/bookfinder/internal/finder"
	"github.com/justyntemme/bookfinder/internal/ui/terminal"
	"github.com/justyntemme/bookfinder/pkg/models"
)

type fakeCatalog struct {
	mu       sync.Mutex
	byTitle  map[string][]models.Book
	byAuthor map[string][]models.Book
	err      error
	authors  []string
}

func (f *fakeCatalog) SearchTitle(_ context.Context, title string) ([]models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.byTitle[title], nil
}

func (f *fakeCatalog) SearchAuthor(_ context.Context, author string, _ int) ([]models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authors = append(f.authors, author)
	if f.err != nil {
		return nil, f.err
	}
	return f.byAuthor[author], nil
}

type fakeCovers struct {
	mu    sync.Mutex
	sizes []models.CoverSize
}

func (f *fakeCovers) Load(_ context.Context, _ int, size models.CoverSize) (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sizes = append(f.sizes, size)
	return image.NewRGBA(image.Rect(0, 0, 2, 3)), nil
}

func makeBooks(n int, author string) []models.Book {
	books := make([]models.Book, n)
	for i := range books {
		books[i] = models.Book{
			Key:        fmt.Sprintf("/works/OL%dW", i+1),
			Title:      fmt.Sprintf("Book %d", i+1),
			AuthorName: []string{author},
		}
	}
	return books
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

// drain runs cmd and every command batched inside it, returning the
// messages of the types the tests care about
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, drain(c)...)
		}
		return out
	case SearchDoneMsg, RecommendationsDoneMsg, CoverDoneMsg, SelectBookMsg, CloseDetailsMsg:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

func only[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	var found []T
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			found = append(found, v)
		}
	}
	require.Len(t, found, 1)
	return found[0]
}

func newSearch(cat finder.Catalog) (*SearchView, *finder.State) {
	state := finder.NewState(false)
	v := NewSearchView(state, Deps{Catalog: cat})
	v.SetSize(120, 40)
	return v, state
}

func search(t *testing.T, v *SearchView, query string) {
	t.Helper()
	v.Update(runes(query))
	_, cmd := v.Update(enterKey)
	done := only[SearchDoneMsg](t, drain(cmd))
	v.Update(done)
}

func TestSearchShowsResultsAndPages(t *testing.T) {
	cat := &fakeCatalog{byTitle: map[string][]models.Book{"dune": makeBooks(30, "Frank Herbert")}}
	v, state := newSearch(cat)

	v.Update(runes("dune"))
	_, cmd := v.Update(enterKey)
	assert.True(t, state.Loading)
	assert.Contains(t, v.View(), "Searching")

	v.Update(only[SearchDoneMsg](t, drain(cmd)))
	assert.False(t, state.Loading)
	assert.Len(t, state.Books, 30)
	assert.Equal(t, 1, state.CurrentPage)
	assert.False(t, v.InputFocused())

	out := v.View()
	assert.Contains(t, out, "Book 1")
	assert.Contains(t, out, "30 results")
	assert.Contains(t, out, "Next")
	assert.NotContains(t, out, "Previous")

	v.Update(runes("n"))
	assert.Equal(t, 2, state.CurrentPage)
	assert.Contains(t, v.View(), "Previous")

	v.Update(runes("L"))
	assert.Equal(t, 3, state.CurrentPage)
	out = v.View()
	assert.Contains(t, out, "Book 25")
	assert.NotContains(t, out, "Next")

	v.Update(runes("1"))
	assert.Equal(t, 1, state.CurrentPage)

	v.Update(runes("p"))
	assert.Equal(t, 1, state.CurrentPage)
}

func TestPageChangeResetsCursor(t *testing.T) {
	cat := &fakeCatalog{byTitle: map[string][]models.Book{"dune": makeBooks(20, "Frank Herbert")}}
	v, state := newSearch(cat)
	search(t, v, "dune")

	v.Update(runes("l"))
	v.Update(runes("l"))
	assert.Equal(t, 2, v.Cursor())

	v.Update(runes("n"))
	assert.Equal(t, 2, state.CurrentPage)
	assert.Equal(t, 0, v.Cursor())
}

func TestCursorStaysOnPage(t *testing.T) {
	cat := &fakeCatalog{byTitle: map[string][]models.Book{"dune": makeBooks(2, "Frank Herbert")}}
	v, _ := newSearch(cat)
	search(t, v, "dune")

	v.Update(runes("l"))
	v.Update(runes("l"))
	v.Update(runes("l"))
	assert.Equal(t, 1, v.Cursor())

	v.Update(runes("h"))
	assert.Equal(t, 0, v.Cursor())
}

func TestEnterOnCardSelectsBook(t *testing.T) {
	cat := &fakeCatalog{byTitle: map[string][]models.Book{"dune": makeBooks(3, "Frank Herbert")}}
	v, _ := newSearch(cat)
	search(t, v, "dune")

	v.Update(runes("l"))
	_, cmd := v.Update(enterKey)
	sel := only[SelectBookMsg](t, drain(cmd))
	assert.Equal(t, "/works/OL2W", sel.Book.Key)
}

func TestBlankSearchIsIgnored(t *testing.T) {
	v, state := newSearch(&fakeCatalog{})

	v.Update(runes("   "))
	_, cmd := v.Update(enterKey)
	assert.Nil(t, cmd)
	assert.False(t, state.Loading)
	assert.Empty(t, state.SearchText)
}

func TestStaleSearchIsDiscarded(t *testing.T) {
	cat := &fakeCatalog{byTitle: map[string][]models.Book{
		"dune": makeBooks(3, "Frank Herbert"),
		"emma": makeBooks(1, "Jane Austen"),
	}}
	v, state := newSearch(cat)

	v.Update(runes("dune"))
	_, first := v.Update(enterKey)
	firstDone := only[SearchDoneMsg](t, drain(first))

	v.Update(escKey)
	v.input.SetValue("emma")
	_, second := v.Update(enterKey)
	secondDone := only[SearchDoneMsg](t, drain(second))

	v.Update(firstDone)
	assert.True(t, state.Loading)
	assert.Empty(t, state.Books)

	v.Update(secondDone)
	assert.False(t, state.Loading)
	assert.Len(t, state.Books, 1)
	assert.Equal(t, "emma", state.SearchText)
}

func TestFailedSearchShowsEmptyState(t *testing.T) {
	v, state := newSearch(&fakeCatalog{err: errors.New("boom")})
	search(t, v, "dune")

	assert.False(t, state.Loading)
	assert.Empty(t, state.Books)
	assert.True(t, state.LastSearchFailed)
	assert.Contains(t, v.View(), "No books found")
	assert.True(t, v.InputFocused())
}

func TestCardPlaceholders(t *testing.T) {
	id := 42
	books := []models.Book{
		{Key: "/works/A", Title: "Anonymous"},
		{Key: "/works/B", Title: "Covered", AuthorName: []string{"Someone"}, CoverID: &id},
	}
	cat := &fakeCatalog{byTitle: map[string][]models.Book{"x": books}}
	v, _ := newSearch(cat)
	search(t, v, "x")

	out := v.View()
	assert.Contains(t, out, models.UnknownAuthor)
	assert.Contains(t, out, models.NoImage)
	assert.Contains(t, out, "42-M.jpg")
	assert.Contains(t, out, "cover: "+models.NoImage)

	v.Update(runes("l"))
	assert.Contains(t, v.View(), "cover: https://covers.openlibrary.org/b/id/42-M.jpg")
}

func newDetails(cat finder.Catalog, covers CoverSource, mode terminal.TermImageMode) (*DetailsView, *finder.State) {
	state := finder.NewState(false)
	v := NewDetailsView(state, Deps{Catalog: cat, Covers: covers}, mode)
	v.SetSize(120, 50)
	return v, state
}

func TestDetailsLoadsRecommendations(t *testing.T) {
	others := makeBooks(8, "Frank Herbert")
	cat := &fakeCatalog{byAuthor: map[string][]models.Book{"Frank Herbert": others}}
	v, state := newDetails(cat, nil, terminal.TermModeNone)

	selected := others[0]
	cmd := v.Open(selected)
	require.True(t, state.IsOpen())
	assert.True(t, state.LoadingRecommendations)
	assert.Contains(t, v.View(), "Loading recommendations")

	v.Update(only[RecommendationsDoneMsg](t, drain(cmd)))
	assert.False(t, state.LoadingRecommendations)
	require.Len(t, state.Recommended, finder.RecommendationLimit)
	for _, rec := range state.Recommended {
		assert.NotEqual(t, selected.Key, rec.Key)
	}
	assert.Equal(t, []string{"Frank Herbert"}, cat.authors)

	out := v.View()
	assert.Contains(t, out, "Book 1")
	assert.Contains(t, out, "Book 2")
	assert.Contains(t, out, models.NoDescription)
	assert.Contains(t, out, models.NoImage)
}

func TestDetailsWithoutAuthor(t *testing.T) {
	cat := &fakeCatalog{}
	v, state := newDetails(cat, nil, terminal.TermModeNone)

	cmd := v.Open(models.Book{Key: "/works/X", Title: "Orphan"})
	assert.Empty(t, drain(cmd))
	assert.Empty(t, cat.authors)
	assert.False(t, state.LoadingRecommendations)

	out := v.View()
	assert.Contains(t, out, "No recommendations found.")
	assert.Contains(t, out, models.UnknownAuthor)
	assert.Contains(t, out, models.UnknownYear)
}

func TestDetailsRecommendationOpensNewSelection(t *testing.T) {
	others := makeBooks(4, "Frank Herbert")
	cat := &fakeCatalog{byAuthor: map[string][]models.Book{"Frank Herbert": others}}
	v, state := newDetails(cat, nil, terminal.TermModeNone)

	v.Update(only[RecommendationsDoneMsg](t, drain(v.Open(others[0]))))

	v.Update(runes("j"))
	assert.Equal(t, 1, v.Cursor())
	_, cmd := v.Update(enterKey)
	sel := only[SelectBookMsg](t, drain(cmd))
	assert.Equal(t, state.Recommended[1].Key, sel.Book.Key)
}

func TestDetailsDropsSupersededRecommendations(t *testing.T) {
	cat := &fakeCatalog{byAuthor: map[string][]models.Book{
		"Frank Herbert": makeBooks(3, "Frank Herbert"),
		"Jane Austen":   {{Key: "/works/E", Title: "Emma", AuthorName: []string{"Jane Austen"}}},
	}}
	v, state := newDetails(cat, nil, terminal.TermModeNone)

	first := v.Open(models.Book{Key: "/works/D", Title: "Dune", AuthorName: []string{"Frank Herbert"}})
	firstDone := only[RecommendationsDoneMsg](t, drain(first))
	second := v.Open(models.Book{Key: "/works/P", Title: "Persuasion", AuthorName: []string{"Jane Austen"}})
	secondDone := only[RecommendationsDoneMsg](t, drain(second))

	v.Update(firstDone)
	assert.True(t, state.LoadingRecommendations)

	v.Update(secondDone)
	require.Len(t, state.Recommended, 1)
	assert.Equal(t, "Emma", state.Recommended[0].Title)
}

func TestDetailsClose(t *testing.T) {
	cat := &fakeCatalog{byAuthor: map[string][]models.Book{"Frank Herbert": makeBooks(3, "Frank Herbert")}}
	v, state := newDetails(cat, nil, terminal.TermModeNone)

	pending := only[RecommendationsDoneMsg](t, drain(v.Open(makeBooks(1, "Frank Herbert")[0])))

	_, cmd := v.Update(runes("x"))
	only[CloseDetailsMsg](t, drain(cmd))
	assert.False(t, state.IsOpen())
	assert.Empty(t, v.View())

	v.Update(pending)
	assert.Empty(t, state.Recommended)
	assert.False(t, state.LoadingRecommendations)
}

func TestDetailsCover(t *testing.T) {
	id := 7
	book := models.Book{Key: "/works/C", Title: "Covered", CoverID: &id}

	v, _ := newDetails(&fakeCatalog{}, &fakeCovers{}, terminal.TermModeKitty)
	done := only[CoverDoneMsg](t, drain(v.Open(book)))
	assert.Equal(t, book.Key, done.BookKey)

	v.Update(done)
	assert.Contains(t, v.View(), "\x1b_G")

	// A cover arriving for a book that is no longer selected is ignored
	other := models.Book{Key: "/works/D", Title: "Other"}
	v.Open(other)
	v.Update(done)
	assert.NotContains(t, v.View(), "\x1b_G")
}

func TestDetailsCoverFallsBackToURL(t *testing.T) {
	id := 7
	book := models.Book{Key: "/works/C", Title: "Covered", CoverID: &id}

	v, _ := newDetails(&fakeCatalog{}, &fakeCovers{}, terminal.TermModeNone)
	assert.Empty(t, drain(v.Open(book)))
	assert.Contains(t, v.View(), "/b/id/7-M.jpg")
}

func TestRecommendationRowsShowAuthorAndSmallCoverURL(t *testing.T) {
	id, year := 9, 1965
	cat := &fakeCatalog{byAuthor: map[string][]models.Book{"Frank Herbert": {
		{Key: "/works/M", Title: "Dune Messiah", AuthorName: []string{"Frank Herbert", "Brian Herbert"}, CoverID: &id},
		{Key: "/works/A", Title: "Anthology"},
	}}}
	v, _ := newDetails(cat, nil, terminal.TermModeNone)

	cmd := v.Open(models.Book{Key: "/works/D", Title: "Dune", AuthorName: []string{"Frank Herbert"}, FirstPublishYear: &year})
	_, thumb := v.Update(only[RecommendationsDoneMsg](t, drain(cmd)))
	assert.Nil(t, thumb)

	out := v.View()
	assert.NotContains(t, out, "Brian Herbert")
	assert.Contains(t, out, models.UnknownRecAuthor)
	assert.Contains(t, out, "https://covers.openlibrary.org/b/id/9-S.jpg")

	v.Update(runes("j"))
	out = v.View()
	assert.NotContains(t, out, "9-S.jpg")
	assert.Contains(t, out, models.NoImage)
}

func TestRecommendationThumbnailLoadsSmallCover(t *testing.T) {
	id := 9
	cat := &fakeCatalog{byAuthor: map[string][]models.Book{"Frank Herbert": {
		{Key: "/works/M", Title: "Dune Messiah", AuthorName: []string{"Frank Herbert"}, CoverID: &id},
	}}}
	covers := &fakeCovers{}
	v, _ := newDetails(cat, covers, terminal.TermModeKitty)

	cmd := v.Open(models.Book{Key: "/works/D", Title: "Dune", AuthorName: []string{"Frank Herbert"}})
	_, cmd = v.Update(only[RecommendationsDoneMsg](t, drain(cmd)))
	done := only[CoverDoneMsg](t, drain(cmd))
	assert.Equal(t, "/works/M", done.BookKey)
	assert.Equal(t, models.CoverSmall, done.Size)
	assert.Equal(t, []models.CoverSize{models.CoverSmall}, covers.sizes)

	v.Update(done)
	out := v.View()
	assert.Contains(t, out, "i=4243")
	assert.NotContains(t, out, "9-S.jpg")

	// Cached thumbnails are not requested again
	assert.Nil(t, v.loadThumb())
	assert.Len(t, covers.sizes, 1)
}
