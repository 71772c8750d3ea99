package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nao1215/webharvest/internal/model"
)

// FinalizeFunc post-processes a record before it is stored.
type FinalizeFunc func(*model.Record) *model.Record

// Scheduler captures one page immediately and then on a fixed interval,
// appending every capture to a JSON array file.
//
// The file is read, extended and rewritten as a whole on each capture. It is
// not safe against other writers, and a crash during the write can leave it
// truncated; a truncated or otherwise malformed file is treated as empty on
// the next capture.
type Scheduler struct {
	fetcher  Fetcher
	pipeline Pipeline
	interval time.Duration
	path     string
	finalize FinalizeFunc
	onSaved  func(model.Capture)
	now      func() time.Time
	logger   *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithFinalize sets a post-processing step applied to every capture.
func WithFinalize(fn FinalizeFunc) SchedulerOption {
	return func(s *Scheduler) {
		s.finalize = fn
	}
}

// WithOnSaved sets a callback invoked after each capture is written.
func WithOnSaved(fn func(model.Capture)) SchedulerOption {
	return func(s *Scheduler) {
		s.onSaved = fn
	}
}

// WithClock replaces the capture timestamp source.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithSchedulerLogger sets a custom logger.
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a Scheduler writing captures to path every interval.
func NewScheduler(fetcher Fetcher, pipe Pipeline, interval time.Duration, path string, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		fetcher:  fetcher,
		pipeline: pipe,
		interval: interval,
		path:     path,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Run captures rawURL now and then every interval until ctx is cancelled.
// Cancellation never interrupts a file write: Run stops the timer and waits
// for a running capture to finish before returning.
func (s *Scheduler) Run(ctx context.Context, rawURL string) error {
	s.captureAndLog(ctx, rawURL)
	if err := ctx.Err(); err != nil {
		return nil //nolint:nilerr // interrupt is the normal way to stop
	}

	logger := cronLogger{s.logger}
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))
	c.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.captureAndLog(ctx, rawURL)
	}))
	c.Start()
	s.logger.Debug("scheduler started", "url", rawURL, "interval", s.interval, "file", s.path)

	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	s.logger.Debug("scheduler stopped", "url", rawURL)
	return nil
}

func (s *Scheduler) captureAndLog(ctx context.Context, rawURL string) {
	if err := s.Capture(ctx, rawURL); err != nil {
		s.logger.Warn("capture failed", "url", rawURL, "error", err)
		return
	}
	s.logger.Debug("capture saved", "url", rawURL, "file", s.path)
}

// Capture fetches and extracts rawURL once and appends the result to the
// file. Nothing is written when the page cannot be fetched or extracted.
func (s *Scheduler) Capture(ctx context.Context, rawURL string) error {
	rec, err := scrape(ctx, s.fetcher, s.pipeline, rawURL)
	if err != nil {
		return err
	}
	if s.finalize != nil {
		rec = s.finalize(rec)
	}
	capture := model.Capture{
		Timestamp: s.now(),
		URL:       rawURL,
		Data:      rec,
	}
	if err := AppendCapture(s.path, capture); err != nil {
		return err
	}
	if s.onSaved != nil {
		s.onSaved(capture)
	}
	return nil
}

// AppendCapture appends capture to the JSON array stored at path. A missing
// or malformed file is treated as an empty array. Existing entries are kept
// even when they do not decode as captures.
func AppendCapture(path string, capture model.Capture) error {
	entries, err := readCaptures(path)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(capture)
	if err != nil {
		return fmt.Errorf("failed to encode capture: %w", err)
	}
	entries = append(entries, raw)

	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode captures: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadCaptures returns the captures stored at path. A missing or malformed
// file yields no captures.
func ReadCaptures(path string) ([]model.Capture, error) {
	entries, err := readCaptures(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Capture, 0, len(entries))
	for _, e := range entries {
		var c model.Capture
		if err := json.Unmarshal(e, &c); err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func readCaptures(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path) //nolint:gosec // output path chosen by the user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil //nolint:nilerr // malformed history starts a new array
	}
	return entries, nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
