package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/nao1215/webharvest/internal/aggregate"
	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/model"
)

// Spider walks one site depth-first and merges every page it can fetch into
// a single aggregate. All crawl state lives in one Crawl call, so a Spider
// can be reused and shared.
type Spider struct {
	fetcher  Fetcher
	pipeline Pipeline

	// maxDepth bounds the walk. The start URL is depth 1.
	maxDepth int

	// linkResolution is config.LinkResolutionLegacy or config.LinkResolutionStandard.
	linkResolution string

	// ignorePatterns are URL path patterns to skip during crawling.
	// Patterns use glob syntax (e.g., "/admin/*", "*.pdf").
	ignorePatterns []string

	// followPatterns restrict crawling to matching URL paths when set.
	followPatterns []string

	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 1 = only the starting page, 2 = starting page plus linked pages, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) {
		s.maxDepth = depth
	}
}

// WithLinkResolution selects how links are turned into URLs to visit.
func WithLinkResolution(mode string) SpiderOption {
	return func(s *Spider) {
		s.linkResolution = mode
	}
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
// The start URL is never skipped.
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns sets URL path patterns to follow during crawling.
// If set, only linked URLs matching at least one pattern are crawled.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.followPatterns = patterns
	}
}

// WithSpiderLogger sets the logger used for skipped pages.
func WithSpiderLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a new Spider.
func NewSpider(fetcher Fetcher, pipe Pipeline, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:        fetcher,
		pipeline:       pipe,
		maxDepth:       config.DefaultDepth,
		linkResolution: config.DefaultLinkResolution,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// Visited is the number of distinct URLs fetched (successfully or not).
	Visited int

	// Merged is the number of pages whose records were merged.
	Merged int
}

// queueItem is a pending visit.
type queueItem struct {
	url   string
	depth int
}

// Crawl walks the site starting at startURL and returns the flattened
// aggregate of every page merged.
//
// The walk is depth-first in link order: children of a page are visited,
// with their whole subtrees, before the page's next sibling. A URL is marked
// visited before it is fetched, so no URL is fetched twice and a failing URL
// is not retried through another path. A page that cannot be fetched or
// extracted contributes nothing. Children are expanded only while the
// current depth is below the maximum.
//
// On cancellation the aggregate collected so far is returned with ctx.Err().
func (s *Spider) Crawl(ctx context.Context, startURL string) (*model.Record, SpiderStats, error) {
	var stats SpiderStats
	visited := make(map[string]bool)
	agg := aggregate.New()

	stack := []queueItem{{url: startURL, depth: 1}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return agg.Flatten(), stats, err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := s.visitKey(item.url)
		if item.depth > s.maxDepth || visited[key] {
			continue
		}
		visited[key] = true
		stats.Visited++

		page, err := scrape(ctx, s.fetcher, s.pipeline, item.url)
		if err != nil {
			s.logger.Warn("skipping page", "url", item.url, "depth", item.depth, "error", err)
			continue
		}
		agg.Merge(page)
		stats.Merged++

		if item.depth >= s.maxDepth {
			continue
		}
		children := s.candidates(item.url, page.Links)
		for i := len(children) - 1; i >= 0; i-- {
			if !visited[s.visitKey(children[i])] {
				stack = append(stack, queueItem{url: children[i], depth: item.depth + 1})
			}
		}
	}

	s.logger.Debug("crawl complete", "url", startURL, "visited", stats.Visited, "merged", stats.Merged)
	return agg.Flatten(), stats, nil
}

// candidates returns the same-site URLs to visit from the links of current,
// in link order and filtered by the ignore and follow patterns.
func (s *Spider) candidates(current string, links []string) []string {
	var out []string
	for _, link := range links {
		var next string
		var ok bool
		if s.linkResolution == config.LinkResolutionStandard {
			next, ok = resolveStandard(current, link)
		} else {
			next, ok = resolveLegacy(current, link)
		}
		if ok && s.shouldCrawl(next) {
			out = append(out, next)
		}
	}
	return out
}

// visitKey identifies a URL in the visited set. Legacy resolution compares
// URLs exactly; standard resolution compares normalized URLs.
func (s *Spider) visitKey(pageURL string) string {
	if s.linkResolution == config.LinkResolutionStandard {
		return normalizeURL(pageURL)
	}
	return pageURL
}

// resolveLegacy accepts root-relative links and links containing the host of
// current. Root-relative links are appended to the first three
// "/"-separated segments of current ("scheme://host"); other links are used
// as written.
func resolveLegacy(current, link string) (string, bool) {
	if strings.HasPrefix(link, "/") {
		return schemeAndHost(current) + link, true
	}
	u, err := url.Parse(current)
	if err != nil || u.Host == "" {
		return "", false
	}
	if strings.Contains(link, u.Host) {
		return link, true
	}
	return "", false
}

// schemeAndHost returns the first three "/"-separated segments of rawURL.
func schemeAndHost(rawURL string) string {
	parts := strings.SplitN(rawURL, "/", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, "/")
}

// resolveStandard resolves link against current with RFC 3986 reference
// resolution and accepts only http(s) URLs on the same host. The fragment is
// dropped.
func resolveStandard(current, link string) (string, bool) {
	base, err := url.Parse(current)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

// normalizeURL normalizes a URL for deduplication: the fragment is removed,
// scheme and host are lower-cased and an empty path becomes "/".
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// shouldCrawl checks if a URL should be crawled based on ignore/follow patterns.
//
// Logic:
//  1. If URL matches any ignorePattern, skip it (return false)
//  2. If followPatterns is set and URL matches none, skip it (return false)
//  3. Otherwise, crawl it (return true)
func (s *Spider) shouldCrawl(targetURL string) bool {
	if len(s.ignorePatterns) == 0 && len(s.followPatterns) == 0 {
		return true
	}
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range s.ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}

	if len(s.followPatterns) > 0 {
		for _, pattern := range s.followPatterns {
			if matchPattern(pattern, path) {
				return true
			}
		}
		return false
	}
	return true
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//   - a trailing "/*" to match everything below a prefix
//
// Examples:
//   - "/admin/*" matches "/admin/dashboard", "/admin/users"
//   - "*.pdf" matches "/docs/file.pdf"
//   - "/api/v?" matches "/api/v1", "/api/v2"
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		ext := strings.TrimPrefix(pattern, "*")
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}
