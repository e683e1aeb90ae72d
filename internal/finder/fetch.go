package finder

import (
	"context"

	"github.com/justyntemme/bookfinder/pkg/models"
)

// Catalog is the subset of the catalog client the finder needs
type Catalog interface {
	SearchTitle(ctx context.Context, title string) ([]models.Book, error)
	SearchAuthor(ctx context.Context, author string, limit int) ([]models.Book, error)
}

// Result is the outcome of one catalog call. A failed call carries Err and
// is rendered exactly like an empty result.
type Result struct {
	Books []models.Book
	Err   error
}

// Failed reports whether the request failed
func (r Result) Failed() bool {
	return r.Err != nil
}

// BooksOrEmpty maps a failure to an empty list
func (r Result) BooksOrEmpty() []models.Book {
	if r.Err != nil || r.Books == nil {
		return []models.Book{}
	}
	return r.Books
}

// FetchSearch runs the title search behind req
func FetchSearch(ctx context.Context, c Catalog, req SearchRequest) Result {
	books, err := c.SearchTitle(ctx, req.Query)
	return Result{Books: books, Err: err}
}

// FetchRecommendations runs the author search behind req
func FetchRecommendations(ctx context.Context, c Catalog, req RecommendationRequest) Result {
	books, err := c.SearchAuthor(ctx, req.Author, RecommendationLimit)
	return Result{Books: books, Err: err}
}
