package crawler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/model"
)

// ProgressFunc receives the number of finished URLs and the total.
type ProgressFunc func(completed, total int)

// FanOut scrapes independent URLs concurrently. Each URL gets its own
// record; nothing is shared or deduplicated across URLs.
type FanOut struct {
	fetcher  Fetcher
	pipeline Pipeline
	workers  int
	progress ProgressFunc
	logger   *slog.Logger
}

// FanOutOption configures a FanOut.
type FanOutOption func(*FanOut)

// WithWorkers sets the maximum number of URLs processed at once.
// Values below 1 are ignored.
func WithWorkers(n int) FanOutOption {
	return func(f *FanOut) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithProgress sets a callback invoked after every URL finishes. Calls are
// serialized and completed increases by one each time.
func WithProgress(fn ProgressFunc) FanOutOption {
	return func(f *FanOut) {
		f.progress = fn
	}
}

// WithFanOutLogger sets a custom logger.
func WithFanOutLogger(logger *slog.Logger) FanOutOption {
	return func(f *FanOut) {
		f.logger = logger
	}
}

// NewFanOut creates a FanOut.
func NewFanOut(fetcher Fetcher, pipe Pipeline, opts ...FanOutOption) *FanOut {
	f := &FanOut{
		fetcher:  fetcher,
		pipeline: pipe,
		workers:  config.DefaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.New(slog.DiscardHandler)
	}
	return f
}

// Run scrapes every distinct URL in urls with at most the configured number
// in flight. The result has one entry per distinct URL: a record, or the
// reason the URL failed. One URL failing never stops the others. URLs not yet
// started when ctx is cancelled are reported with the cancellation error.
func (f *FanOut) Run(ctx context.Context, urls []string) model.Batch {
	targets := dedupe(urls)
	results := make(model.Batch, len(targets))

	f.logger.Debug("starting fan-out", "total", len(targets), "workers", f.workers)
	start := time.Now()

	var (
		mu        sync.Mutex
		completed int
	)
	record := func(u string, outcome model.Outcome) {
		mu.Lock()
		defer mu.Unlock()
		results[u] = outcome
		completed++
		if f.progress != nil {
			f.progress(completed, len(targets))
		}
	}

	var g errgroup.Group
	g.SetLimit(f.workers)

	for _, u := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				record(u, model.Outcome{Err: err.Error()})
				return nil
			}

			rec, err := scrape(ctx, f.fetcher, f.pipeline, u)
			if err != nil {
				f.logger.Warn("scrape failed", "url", u, "error", err)
				record(u, model.Outcome{Err: err.Error()})
				return nil
			}
			record(u, model.Outcome{Record: rec})
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return errors; failures are recorded per URL

	f.logger.Debug("fan-out complete", "total", len(targets), "failed", results.Failures(), "elapsed", time.Since(start))
	return results
}

// dedupe removes repeated URLs, keeping first occurrence order.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
