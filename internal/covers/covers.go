package covers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/justyntemme/bookfinder/pkg/models"
)

// Thumbnail bounds in pixels, per cover size
const (
	MediumMaxWidth  = 180
	MediumMaxHeight = 270
	SmallMaxWidth   = 60
	SmallMaxHeight  = 90
)

// Fetcher downloads raw cover bytes
type Fetcher interface {
	FetchCover(ctx context.Context, coverID int, size models.CoverSize) ([]byte, error)
}

type cacheKey struct {
	id   int
	size models.CoverSize
}

// Loader fetches, decodes and thumbnails covers, keeping recent ones in
// memory for the rest of the session. Safe for concurrent use.
type Loader struct {
	fetcher Fetcher
	cache   *lru.Cache[cacheKey, image.Image]
	log     *zap.Logger
}

// NewLoader creates a loader holding at most size decoded covers
func NewLoader(fetcher Fetcher, size int, log *zap.Logger) (*Loader, error) {
	cache, err := lru.New[cacheKey, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("cover cache: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, cache: cache, log: log}, nil
}

// Load returns the thumbnail for a cover id at the given size
func (l *Loader) Load(ctx context.Context, coverID int, size models.CoverSize) (image.Image, error) {
	key := cacheKey{id: coverID, size: size}
	if img, ok := l.cache.Get(key); ok {
		return img, nil
	}

	data, err := l.fetcher.FetchCover(ctx, coverID, size)
	if err != nil {
		l.log.Debug("cover fetch failed", zap.Int("cover_id", coverID), zap.Error(err))
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		l.log.Debug("cover decode failed", zap.Int("cover_id", coverID), zap.Error(err))
		return nil, fmt.Errorf("decode cover %d: %w", coverID, err)
	}

	thumb := Thumbnail(img, size)
	l.cache.Add(key, thumb)
	return thumb, nil
}

// Cached reports whether a cover is already in memory
func (l *Loader) Cached(coverID int, size models.CoverSize) bool {
	return l.cache.Contains(cacheKey{id: coverID, size: size})
}

// Thumbnail scales img down to fit the bounds for size, keeping aspect ratio
func Thumbnail(img image.Image, size models.CoverSize) image.Image {
	maxW, maxH := uint(MediumMaxWidth), uint(MediumMaxHeight)
	if size == models.CoverSmall {
		maxW, maxH = SmallMaxWidth, SmallMaxHeight
	}
	return resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
}
