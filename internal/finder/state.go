package finder

import (
	"strings"

	"github.com/justyntemme/bookfinder/pkg/models"
)

// RecommendationLimit caps both the author query and the stored list
const RecommendationLimit = 6

// SearchRequest identifies one title search. Completions carrying an older
// Generation than the state's are ignored.
type SearchRequest struct {
	Generation uint64
	Query      string
}

// RecommendationRequest identifies one author lookup for a selected book
type RecommendationRequest struct {
	Generation  uint64
	Author      string
	SelectedKey string
}

// State is the single session-wide container behind the finder UI.
// It is not safe for concurrent use; the UI event loop is its only writer.
type State struct {
	SearchText  string
	Books       []models.Book
	Loading     bool
	CurrentPage int
	DarkMode    bool

	Selected               *models.Book
	Recommended            []models.Book
	LoadingRecommendations bool

	// Set when the last applied completion was a failure. The UI renders
	// failures and empty results the same way; these exist for callers
	// that need to tell them apart.
	LastSearchFailed          bool
	LastRecommendationsFailed bool

	searchGen uint64
	recGen    uint64
}

// NewState returns the initial session state
func NewState(darkMode bool) *State {
	return &State{
		CurrentPage: 1,
		DarkMode:    darkMode,
		Books:       []models.Book{},
		Recommended: []models.Book{},
	}
}

// BeginSearch starts a title search. Blank queries leave the state untouched
// and return false.
func (s *State) BeginSearch(query string) (SearchRequest, bool) {
	if strings.TrimSpace(query) == "" {
		return SearchRequest{}, false
	}
	s.searchGen++
	s.SearchText = query
	s.Loading = true
	s.CurrentPage = 1
	return SearchRequest{Generation: s.searchGen, Query: query}, true
}

// CompleteSearch applies a search result. It returns false and changes
// nothing when req has been superseded by a later BeginSearch.
func (s *State) CompleteSearch(req SearchRequest, res Result) bool {
	if req.Generation != s.searchGen {
		return false
	}
	s.Books = res.BooksOrEmpty()
	s.LastSearchFailed = res.Failed()
	s.Loading = false
	return true
}

// SearchPending reports whether req is still the latest search
func (s *State) SearchPending(req SearchRequest) bool {
	return s.Loading && req.Generation == s.searchGen
}

// TotalPages is ceil(len(Books) / BooksPerPage)
func (s *State) TotalPages() int {
	return TotalPages(len(s.Books))
}

// Page derives the current page view
func (s *State) Page() Page {
	return Paginate(s.Books, s.CurrentPage)
}

// SetPage moves to page p, clamped to [1, TotalPages]. It reports whether
// the current page changed.
func (s *State) SetPage(p int) bool {
	total := s.TotalPages()
	if total == 0 {
		return false
	}
	p = max(1, min(p, total))
	if p == s.CurrentPage {
		return false
	}
	s.CurrentPage = p
	return true
}

// NextPage advances one page if there is one
func (s *State) NextPage() bool {
	return s.SetPage(s.CurrentPage + 1)
}

// PreviousPage goes back one page if there is one
func (s *State) PreviousPage() bool {
	return s.SetPage(s.CurrentPage - 1)
}

// LastPage jumps to the final page
func (s *State) LastPage() bool {
	return s.SetPage(s.TotalPages())
}

// Select opens the details panel for book. Any recommendation lookup still
// in flight for a previous selection is superseded. When the book has no
// author the list is cleared immediately and no request is returned.
func (s *State) Select(book models.Book) (RecommendationRequest, bool) {
	s.recGen++
	s.Selected = &book

	author := book.PrimaryAuthor()
	if author == "" {
		s.Recommended = []models.Book{}
		s.LoadingRecommendations = false
		s.LastRecommendationsFailed = false
		return RecommendationRequest{}, false
	}

	s.LoadingRecommendations = true
	return RecommendationRequest{
		Generation:  s.recGen,
		Author:      author,
		SelectedKey: book.Key,
	}, true
}

// CompleteRecommendations applies an author lookup. Stale requests, and
// requests whose book is no longer selected, are dropped.
func (s *State) CompleteRecommendations(req RecommendationRequest, res Result) bool {
	if req.Generation != s.recGen || s.Selected == nil || s.Selected.Key != req.SelectedKey {
		return false
	}
	s.Recommended = FilterRecommendations(res.BooksOrEmpty(), s.Selected.Key)
	s.LastRecommendationsFailed = res.Failed()
	s.LoadingRecommendations = false
	return true
}

// Close dismisses the details panel
func (s *State) Close() {
	s.recGen++
	s.Selected = nil
	s.Recommended = []models.Book{}
	s.LoadingRecommendations = false
	s.LastRecommendationsFailed = false
}

// IsOpen reports whether a book is selected
func (s *State) IsOpen() bool {
	return s.Selected != nil
}

// ToggleDarkMode flips the theme flag and returns the new value
func (s *State) ToggleDarkMode() bool {
	s.DarkMode = !s.DarkMode
	return s.DarkMode
}

// FilterRecommendations drops the selected book and keeps at most
// RecommendationLimit entries, preserving order.
func FilterRecommendations(docs []models.Book, selectedKey string) []models.Book {
	out := make([]models.Book, 0, min(len(docs), RecommendationLimit))
	for _, b := range docs {
		if b.Key == selectedKey {
			continue
		}
		out = append(out, b)
		if len(out) == RecommendationLimit {
			break
		}
	}
	return out
}
