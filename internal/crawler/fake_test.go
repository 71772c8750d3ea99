package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nao1215/webharvest/internal/pipeline"
)

var errNotFound = errors.New("not found")

// fakeFetcher serves pages from a map and counts fetches per URL.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls map[string]int
	delay time.Duration

	inFlight    int
	maxInFlight int
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, calls: make(map[string]int)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	f.mu.Lock()
	f.calls[rawURL]++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	content, ok := f.pages[rawURL]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", errNotFound, rawURL)
	}
	return content, nil
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeFetcher) callsFor(u string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[u]
}

func newTestPipeline() *pipeline.Pipeline {
	return pipeline.NewDefault(pipeline.Settings{Country: "US"})
}

// page builds a minimal HTML page with the given anchors and body text.
func page(title string, hrefs []string, text string) string {
	body := ""
	for _, h := range hrefs {
		body += fmt.Sprintf(`<a href="%s">link</a>`, h)
	}
	return fmt.Sprintf("<html><head><title>%s</title></head><body>%s<p>%s</p></body></html>", title, body, text)
}
