package crawler

import (
	"context"
	"slices"
	"testing"

	"github.com/nao1215/webharvest/internal/config"
)

func siteFixture() map[string]string {
	return map[string]string{
		"https://example.com": page("Home",
			[]string{"/a", "/b", "https://example.com/a", "https://other.org/x"},
			"home@example.com"),
		"https://example.com/a": page("A", []string{"/c", "/b"}, "a@example.com"),
		"https://example.com/b": page("B", []string{"/"}, "b@example.com"),
		"https://example.com/c": page("C", nil, "c@example.com"),
		"https://example.com/":  page("Slash", []string{"/a"}, ""),
	}
}

// TestSpiderDepthOne tests that depth 1 equals the single-page result.
func TestSpiderDepthOne(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(siteFixture())
	pipe := newTestPipeline()
	spider := NewSpider(fetcher, pipe, WithMaxDepth(1))

	got, stats, err := spider.Crawl(t.Context(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Visited != 1 || fetcher.totalCalls() != 1 {
		t.Errorf("expected exactly one fetch, got visited=%d calls=%d", stats.Visited, fetcher.totalCalls())
	}

	single, err := pipe.Run(t.Context(), siteFixture()["https://example.com"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got.Emails, single.Emails) {
		t.Errorf("expected emails %v, got %v", single.Emails, got.Emails)
	}
	if got.Metadata["title"].First() != "Home" {
		t.Errorf("expected root metadata, got %v", got.Metadata)
	}
	if len(got.Links) != 4 {
		t.Errorf("expected 4 distinct links, got %v", got.Links)
	}
}

// TestSpiderVisitsEachURLOnce tests that the fetch count equals the visited count.
func TestSpiderVisitsEachURLOnce(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(siteFixture())
	spider := NewSpider(fetcher, newTestPipeline(), WithMaxDepth(5))

	got, stats, err := spider.Crawl(t.Context(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fetcher.totalCalls() != stats.Visited {
		t.Errorf("expected fetch count %d to equal visited count %d", fetcher.totalCalls(), stats.Visited)
	}
	for u, n := range fetcher.calls {
		if n != 1 {
			t.Errorf("expected %s fetched once, got %d", u, n)
		}
	}
	if fetcher.callsFor("https://other.org/x") != 0 {
		t.Error("expected other host not to be crawled")
	}
	for _, want := range []string{"home@example.com", "a@example.com", "b@example.com", "c@example.com"} {
		if !slices.Contains(got.Emails, want) {
			t.Errorf("expected %s in aggregate, got %v", want, got.Emails)
		}
	}
	if got.Metadata["title"].First() != "Home" {
		t.Errorf("expected first page metadata to win, got %v", got.Metadata["title"])
	}
}

// TestSpiderDepthFirstOrder tests that subtrees are finished before siblings.
func TestSpiderDepthFirstOrder(t *testing.T) {
	t.Parallel()

	var order []string
	fetcher := &orderFetcher{fakeFetcher: newFakeFetcher(siteFixture()), order: &order}
	spider := NewSpider(fetcher, newTestPipeline(), WithMaxDepth(3))

	if _, _, err := spider.Crawl(t.Context(), "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"https://example.com",
		"https://example.com/a",
		"https://example.com/c",
		"https://example.com/b",
	}
	if !slices.Equal(order, want) {
		t.Errorf("expected visit order %v, got %v", want, order)
	}
}

type orderFetcher struct {
	*fakeFetcher
	order *[]string
}

func (o *orderFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	*o.order = append(*o.order, rawURL)
	return o.fakeFetcher.Fetch(ctx, rawURL)
}

// TestSpiderDepthBound tests that children beyond the maximum depth are not fetched.
func TestSpiderDepthBound(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(siteFixture())
	spider := NewSpider(fetcher, newTestPipeline(), WithMaxDepth(2))

	got, _, err := spider.Crawl(t.Context(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.callsFor("https://example.com/c") != 0 {
		t.Error("expected depth-3 page not to be fetched")
	}
	if slices.Contains(got.Emails, "c@example.com") {
		t.Error("expected depth-3 facts to be absent")
	}
}

// TestSpiderFetchFailure tests that failing pages contribute nothing.
func TestSpiderFetchFailure(t *testing.T) {
	t.Parallel()

	t.Run("failed child is skipped", func(t *testing.T) {
		t.Parallel()
		pages := siteFixture()
		delete(pages, "https://example.com/a")
		fetcher := newFakeFetcher(pages)

		got, stats, err := NewSpider(fetcher, newTestPipeline(), WithMaxDepth(3)).Crawl(t.Context(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if slices.Contains(got.Emails, "a@example.com") {
			t.Error("expected failed page to contribute nothing")
		}
		if stats.Merged != stats.Visited-1 {
			t.Errorf("expected one unmerged page, got %+v", stats)
		}
	})

	t.Run("failed root yields empty record", func(t *testing.T) {
		t.Parallel()
		fetcher := newFakeFetcher(map[string]string{})
		got, _, err := NewSpider(fetcher, newTestPipeline()).Crawl(t.Context(), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.IsEmpty() {
			t.Errorf("expected empty record, got %+v", got)
		}
	})
}

// TestSpiderPatterns tests ignore and follow patterns on linked pages.
func TestSpiderPatterns(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(siteFixture())
	spider := NewSpider(fetcher, newTestPipeline(), WithMaxDepth(3), WithIgnorePatterns([]string{"/a"}))
	if _, _, err := spider.Crawl(t.Context(), "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.callsFor("https://example.com/a") != 0 {
		t.Error("expected ignored page not to be fetched")
	}
	if fetcher.callsFor("https://example.com/b") != 1 {
		t.Error("expected other pages to be fetched")
	}

	fetcher = newFakeFetcher(siteFixture())
	spider = NewSpider(fetcher, newTestPipeline(), WithMaxDepth(3), WithFollowPatterns([]string{"/b"}))
	if _, _, err := spider.Crawl(t.Context(), "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.callsFor("https://example.com") != 1 {
		t.Error("expected root to be fetched regardless of follow patterns")
	}
	if fetcher.callsFor("https://example.com/a") != 0 {
		t.Error("expected unmatched page not to be fetched")
	}
}

// TestSpiderCancelled tests that cancellation stops the walk.
func TestSpiderCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	fetcher := newFakeFetcher(siteFixture())
	_, _, err := NewSpider(fetcher, newTestPipeline()).Crawl(ctx, "https://example.com")
	if err == nil {
		t.Error("expected cancellation error")
	}
	if fetcher.totalCalls() != 0 {
		t.Errorf("expected no fetches, got %d", fetcher.totalCalls())
	}
}

// TestResolveLegacy tests the scheme+host concatenation join.
func TestResolveLegacy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current string
		link    string
		want    string
		ok      bool
	}{
		{"root-relative", "https://example.com/dir/page", "/about", "https://example.com/about", true},
		{"root-relative keeps query", "https://example.com", "/s?q=1#top", "https://example.com/s?q=1#top", true},
		{"protocol-relative is joined naively", "https://example.com/x", "//cdn.example.com/y", "https://example.com//cdn.example.com/y", true},
		{"absolute same host used as written", "https://example.com/x", "https://example.com/y", "https://example.com/y", true},
		{"other host rejected", "https://example.com/x", "https://other.org/y", "", false},
		{"document-relative rejected", "https://example.com/x", "about.html", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := resolveLegacy(tt.current, tt.link)
			if ok != tt.ok || got != tt.want {
				t.Errorf("resolveLegacy(%q, %q) = %q, %v; want %q, %v", tt.current, tt.link, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// TestResolveStandard tests RFC 3986 resolution restricted to the same host.
func TestResolveStandard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current string
		link    string
		want    string
		ok      bool
	}{
		{"root-relative", "https://example.com/dir/page", "/about", "https://example.com/about", true},
		{"document-relative", "https://example.com/dir/page", "other", "https://example.com/dir/other", true},
		{"fragment dropped", "https://example.com/", "/s?q=1#top", "https://example.com/s?q=1", true},
		{"protocol-relative other host rejected", "https://example.com/x", "//cdn.example.com/y", "", false},
		{"mailto rejected", "https://example.com/x", "mailto:a@example.com", "", false},
		{"other host rejected", "https://example.com/x", "https://other.org/y", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := resolveStandard(tt.current, tt.link)
			if ok != tt.ok || got != tt.want {
				t.Errorf("resolveStandard(%q, %q) = %q, %v; want %q, %v", tt.current, tt.link, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// TestSpiderStandardResolution tests that standard mode deduplicates normalized URLs.
func TestSpiderStandardResolution(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://example.com":   page("Home", []string{"/a", "/a#x", "a"}, ""),
		"https://example.com/a": page("A", nil, "a@example.com"),
	}
	fetcher := newFakeFetcher(pages)
	spider := NewSpider(fetcher, newTestPipeline(), WithMaxDepth(2), WithLinkResolution(config.LinkResolutionStandard))

	if _, _, err := spider.Crawl(t.Context(), "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetcher.callsFor("https://example.com/a") != 1 {
		t.Errorf("expected /a fetched once, got %d", fetcher.callsFor("https://example.com/a"))
	}
}

// TestMatchPattern tests glob pattern matching.
func TestMatchPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		// Prefix patterns with /*
		{"admin prefix match", "/admin/*", "/admin/dashboard", true},
		{"admin prefix exact", "/admin/*", "/admin", true},
		{"admin prefix no match", "/admin/*", "/user/profile", false},
		{"admin prefix partial no match", "/admin/*", "/administrator", false},

		// Extension patterns with *.
		{"pdf extension", "*.pdf", "/docs/file.pdf", true},
		{"pdf extension nested", "*.pdf", "/a/b/c/report.pdf", true},
		{"pdf extension no match", "*.pdf", "/docs/file.txt", false},
		{"jpg extension", "*.jpg", "/images/photo.jpg", true},

		// Exact match patterns
		{"exact match", "/logout", "/logout", true},
		{"exact no match", "/logout", "/login", false},

		// Wildcard in middle
		{"wildcard middle", "/api/v?/users", "/api/v1/users", true},
		{"wildcard middle v2", "/api/v?/users", "/api/v2/users", true},
		{"wildcard middle no match", "/api/v?/users", "/api/v10/users", false},

		// Root path
		{"root path", "/", "/", true},
		{"root no match prefix", "/admin/*", "/", false},

		// Complex patterns
		{"nested admin", "/admin/*", "/admin/users/edit", true},
		{"api prefix", "/api/*", "/api/v1/data", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := matchPattern(tt.pattern, tt.path)
			if got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

