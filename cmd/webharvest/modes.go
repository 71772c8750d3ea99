package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/crawler"
	"github.com/nao1215/webharvest/internal/model"
	"github.com/nao1215/webharvest/internal/report"
)

// runSingle scrapes each target once. A single target that fails is an
// error; with several targets failures are reported per URL.
func (a *app) runSingle(ctx context.Context) error {
	targets := a.cfg.Targets()
	if len(targets) == 1 {
		rec, err := a.scrapeOne(ctx, targets[0])
		if err != nil {
			return fmt.Errorf("%w: %s: %w", errScrapeFailed, targets[0], err)
		}
		return a.emitRecord(ctx, a.finalize(rec))
	}

	batch := make(model.Batch, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := a.scrapeOne(ctx, target)
		if err != nil {
			a.logger.Warn("scrape failed", "url", target, "error", err)
			batch[target] = model.Outcome{Err: err.Error()}
			continue
		}
		batch[target] = model.Outcome{Record: rec}
	}
	return a.emitBatch(ctx, a.finalizeBatch(batch))
}

// scrapeOne fetches and extracts one page.
func (a *app) scrapeOne(ctx context.Context, rawURL string) (*model.Record, error) {
	content, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return a.pipe.Run(ctx, content)
}

// runRecursive crawls one site and emits the merged record.
func (a *app) runRecursive(ctx context.Context) error {
	site := a.siteConfig(a.cfg.URL)
	depth := a.cfg.Depth
	if site.Depth > 0 {
		depth = site.Depth
	}

	spider := crawler.NewSpider(a.fetcher, a.pipe,
		crawler.WithMaxDepth(depth),
		crawler.WithLinkResolution(a.cfg.LinkResolution),
		crawler.WithIgnorePatterns(site.IgnorePatterns),
		crawler.WithFollowPatterns(site.FollowPatterns),
		crawler.WithSpiderLogger(a.logger),
	)

	rec, stats, err := spider.Crawl(ctx, a.cfg.URL)
	if err != nil {
		return err
	}
	a.logger.Info("crawl finished", "url", a.cfg.URL, "depth", depth,
		"visited", stats.Visited, "merged", stats.Merged)
	if stats.Merged == 0 {
		return fmt.Errorf("%w: %s: no page could be scraped", errScrapeFailed, a.cfg.URL)
	}
	return a.emitRecord(ctx, a.finalize(rec))
}

// runParallel scrapes every target concurrently and emits the batch.
func (a *app) runParallel(ctx context.Context) error {
	spin := a.newSpinner()
	opts := []crawler.FanOutOption{
		crawler.WithWorkers(a.cfg.MaxWorkers),
		crawler.WithFanOutLogger(a.logger),
	}
	if spin != nil {
		opts = append(opts, crawler.WithProgress(func(completed, total int) {
			spin.Lock()
			spin.Suffix = fmt.Sprintf(" Scraping... %d/%d", completed, total)
			spin.Unlock()
		}))
		spin.Start()
	}

	batch := crawler.NewFanOut(a.fetcher, a.pipe, opts...).Run(ctx, a.cfg.URLs)
	if spin != nil {
		spin.Stop()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if n := batch.Failures(); n > 0 {
		a.logger.Warn("some URLs could not be scraped", "failed", n, "total", len(batch))
	}
	return a.emitBatch(ctx, a.finalizeBatch(batch))
}

// newSpinner returns a progress spinner on the error stream, or nil when
// that stream is not a file.
func (a *app) newSpinner() *spinner.Spinner {
	f, ok := a.errOut.(*os.File)
	if !ok || a.cfg.Verbose {
		return nil
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(f))
	s.Suffix = " Scraping..."
	return s
}

// runLive prints each field of the page as soon as it is extracted.
// With --output file the final record is also saved.
func (a *app) runLive(ctx context.Context) error {
	terminal := report.NewTerminalWriter(a.out)
	fmt.Fprintf(a.out, "Live preview of %s\n\n", a.cfg.URL)

	var writeErr error
	live := crawler.NewLive(a.fetcher, a.pipe, crawler.WithLiveLogger(a.logger))
	rec, err := live.Run(ctx, a.cfg.URL, func(u crawler.Update) {
		if u.Done || writeErr != nil {
			return
		}
		_, writeErr = terminal.WriteField(u.Field, a.finalize(u.Record))
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errScrapeFailed, a.cfg.URL, err)
	}
	if writeErr != nil {
		return fmt.Errorf("failed to write live output: %w", writeErr)
	}

	if a.cfg.Output == config.OutputFile {
		return a.emitRecord(ctx, a.finalize(rec))
	}
	return nil
}

// runSchedule captures the page every interval until interrupted.
func (a *app) runSchedule(ctx context.Context) error {
	path := a.cfg.OutputFilename()
	scheduler := crawler.NewScheduler(a.fetcher, a.pipe, a.cfg.Interval(), path,
		crawler.WithFinalize(a.finalize),
		crawler.WithOnSaved(func(c model.Capture) {
			fmt.Fprintf(a.out, "Capture saved to %s at %s\n", path, c.Timestamp.Format(time.RFC3339))
		}),
		crawler.WithSchedulerLogger(a.logger),
	)

	fmt.Fprintf(a.out, "Capturing %s every %s into %s (Ctrl+C to stop)\n",
		a.cfg.URL, a.cfg.Interval(), path)
	if err := scheduler.Run(ctx, a.cfg.URL); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Scheduled capture stopped.")
	return nil
}
