package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/justyntemme/bookfinder/pkg/models"
)

const (
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "bookfinder/0.1 (+https://github.com/justyntemme/bookfinder)"

	searchPath = "/search.json"
)

var (
	// ErrRequestFailed wraps every failure of a catalog call
	ErrRequestFailed = errors.New("catalog request failed")
	// ErrMalformedResponse is returned when the body is not a search document
	ErrMalformedResponse = errors.New("malformed catalog response")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the HTTP client for the Open Library search API
type Client struct {
	baseURL    string
	coversURL  string
	userAgent  string
	httpClient *http.Client
	log        *zap.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithCoversURL points cover downloads at another host
func WithCoversURL(u string) Option {
	return func(c *Client) { c.coversURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger attaches a logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a new catalog client
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		coversURL: models.DefaultCoversURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the catalog host the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CoversURL returns the cover host the client downloads from
func (c *Client) CoversURL() string {
	return c.coversURL
}

// SearchTitle runs a title search and returns the docs in API order
func (c *Client) SearchTitle(ctx context.Context, title string) ([]models.Book, error) {
	query := "title=" + encodeComponent(title)
	return c.search(ctx, query)
}

// SearchAuthor runs an author search limited to limit docs
func (c *Client) SearchAuthor(ctx context.Context, author string, limit int) ([]models.Book, error) {
	query := "author=" + encodeComponent(author)
	if limit > 0 {
		query += "&limit=" + strconv.Itoa(limit)
	}
	return c.search(ctx, query)
}

// search performs GET /search.json with a pre-encoded query string
func (c *Client) search(ctx context.Context, rawQuery string) ([]models.Book, error) {
	reqID := uuid.NewString()
	log := c.log.With(zap.String("request_id", reqID), zap.String("query", rawQuery))
	start := time.Now()

	resp, err := c.request(ctx, c.baseURL+searchPath+"?"+rawQuery)
	if err != nil {
		log.Warn("catalog search failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	result, err := parseResponse[models.SearchResponse](resp)
	if err != nil {
		log.Warn("catalog search failed", zap.Error(err), zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if result.Docs == nil {
		log.Warn("catalog response has no docs")
		return nil, fmt.Errorf("%w: %w: missing docs", ErrRequestFailed, ErrMalformedResponse)
	}

	log.Debug("catalog search done",
		zap.Int("docs", len(*result.Docs)),
		zap.Int("num_found", result.NumFound),
		zap.Duration("took", time.Since(start)),
	)
	return *result.Docs, nil
}

// FetchCover downloads the raw bytes of a cover image
func (c *Client) FetchCover(ctx context.Context, coverID int, size models.CoverSize) ([]byte, error) {
	coverURL := models.CoverURL(c.coversURL, coverID, size)
	resp, err := c.request(ctx, coverURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: cover %d: HTTP %d", ErrRequestFailed, coverID, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read cover: %w", ErrRequestFailed, err)
	}
	return data, nil
}

// request makes a GET request
func (c *Client) request(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return c.httpClient.Do(req)
}

// parseResponse reads and unmarshals the response body
func parseResponse[T any](resp *http.Response) (T, error) {
	var result T
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}

	if resp.StatusCode >= 400 {
		return result, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return result, nil
}

// componentUnescaper undoes the QueryEscape differences from
// encodeURIComponent, which keeps !'()* literal and writes spaces as %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s like encodeURIComponent
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
