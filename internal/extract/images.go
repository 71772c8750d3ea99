package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"sync"
)

// defaultImageExt is used when an image URL path has no extension.
const defaultImageExt = ".jpg"

// Downloader stores the body of a URL at a local path.
type Downloader interface {
	Download(ctx context.Context, rawURL, path string) error
}

// ImageSaver downloads absolute image URLs into a directory as
// image_<n><ext>. n increases across every call so pages of one crawl
// never overwrite each other's files. It is safe for concurrent use.
type ImageSaver struct {
	client Downloader
	dir    string
	logger *slog.Logger

	mu   sync.Mutex
	next int
}

// NewImageSaver creates an ImageSaver writing into dir.
func NewImageSaver(client Downloader, dir string, logger *slog.Logger) *ImageSaver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ImageSaver{client: client, dir: dir, logger: logger}
}

// Save downloads each absolute URL in srcs and returns the saved paths.
// Relative URLs are skipped; failed downloads are logged and skipped.
func (s *ImageSaver) Save(ctx context.Context, srcs []string) []string {
	var saved []string
	for _, src := range srcs {
		u, err := url.Parse(src)
		if err != nil || u.Host == "" {
			continue
		}
		if u.Scheme == "" {
			u.Scheme = "https"
		}

		ext := path.Ext(u.Path)
		if ext == "" {
			ext = defaultImageExt
		}
		dest := filepath.Join(s.dir, fmt.Sprintf("image_%d%s", s.reserve(), ext))

		if err := s.client.Download(ctx, u.String(), dest); err != nil {
			s.logger.Warn("failed to download image", "url", src, "error", err)
			continue
		}
		saved = append(saved, dest)
	}
	return saved
}

func (s *ImageSaver) reserve() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.next
	s.next++
	return n
}
