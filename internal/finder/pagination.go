package finder

import "github.com/justyntemme/bookfinder/pkg/models"

const (
	// BooksPerPage is the fixed page size of the results grid
	BooksPerPage = 12
	// PageWindowSize is how many numbered page buttons are shown at once
	PageWindowSize = 3
)

// Page is everything the pagination bar and the grid need for one page
type Page struct {
	Number      int
	TotalPages  int
	Books       []models.Book
	Window      []int
	HasPrevious bool
	HasNext     bool
	HasLast     bool
}

// Visible reports whether pagination controls should render at all
func (p Page) Visible() bool {
	return p.TotalPages > 0
}

// TotalPages returns ceil(n / BooksPerPage)
func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + BooksPerPage - 1) / BooksPerPage
}

// PageSlice returns books[(page-1)*12 : page*12], clipped to the slice bounds
func PageSlice(books []models.Book, page int) []models.Book {
	if page < 1 {
		return nil
	}
	start := (page - 1) * BooksPerPage
	if start >= len(books) {
		return nil
	}
	end := min(start+BooksPerPage, len(books))
	return books[start:end]
}

// PageWindow returns the numbered buttons around current: at most
// PageWindowSize contiguous pages, shifted left when the right edge is hit.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	start := max(1, current-1)
	end := min(total, start+PageWindowSize-1)
	if end-start < PageWindowSize-1 {
		start = max(1, end-PageWindowSize+1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// Paginate derives the page view for books at the given 1-based page
func Paginate(books []models.Book, page int) Page {
	total := TotalPages(len(books))
	return Page{
		Number:      page,
		TotalPages:  total,
		Books:       PageSlice(books, page),
		Window:      PageWindow(page, total),
		HasPrevious: page > 1,
		HasNext:     page < total,
		HasLast:     page < total,
	}
}
