package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/webharvest/internal/model"
)

// DefaultPollInterval is how long the live preview waits for an update
// before checking whether the worker has finished.
const DefaultPollInterval = 100 * time.Millisecond

// Update is one step of a live preview.
type Update struct {
	// Field is the record field that just completed. Empty for the final
	// update and for errors.
	Field string

	// Record is a snapshot of the record after Field completed. On the final
	// update it is the complete record.
	Record *model.Record

	// Done marks the last update of a run.
	Done bool

	// Err is set on the final update when the page could not be fetched or
	// extracted. A fetch failure produces no field updates.
	Err error
}

// Live extracts a single page field by field and reports each field as soon
// as its extractor completes. Extractors still run one after another; a
// background worker does the fetch and extraction while the caller's
// goroutine delivers updates.
type Live struct {
	fetcher  Fetcher
	pipeline Pipeline
	poll     time.Duration
	logger   *slog.Logger
}

// LiveOption configures a Live preview.
type LiveOption func(*Live)

// WithPollInterval sets how often the foreground checks on the worker.
func WithPollInterval(d time.Duration) LiveOption {
	return func(l *Live) {
		if d > 0 {
			l.poll = d
		}
	}
}

// WithLiveLogger sets a custom logger.
func WithLiveLogger(logger *slog.Logger) LiveOption {
	return func(l *Live) {
		l.logger = logger
	}
}

// NewLive creates a Live preview.
func NewLive(fetcher Fetcher, pipe Pipeline, opts ...LiveOption) *Live {
	l := &Live{fetcher: fetcher, pipeline: pipe, poll: DefaultPollInterval}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	return l
}

// Run previews rawURL. observe is called on the caller's goroutine for each
// field in extraction order and then once with Done set. Run returns the
// complete record, or the fetch or extraction error.
//
// The worker only sends field updates. Completion is detected by polling:
// when no update arrives within the poll interval and the worker has exited
// with nothing left to deliver, the final update is emitted.
func (l *Live) Run(ctx context.Context, rawURL string, observe func(Update)) (*model.Record, error) {
	updates := make(chan Update, len(model.FieldOrder))
	finished := make(chan struct{})

	var (
		result *model.Record
		runErr error
	)
	go func() {
		defer close(finished)

		content, err := l.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			runErr = err
			return
		}
		result, runErr = l.pipeline.Execute(ctx, content, func(step string, snapshot *model.Record) {
			updates <- Update{Field: step, Record: snapshot}
		})
	}()

	emit := func(u Update) {
		if observe != nil {
			observe(u)
		}
	}

	for {
		select {
		case u := <-updates:
			emit(u)
		case <-ctx.Done():
			for {
				select {
				case <-updates:
				case <-finished:
					return nil, ctx.Err()
				}
			}
		case <-time.After(l.poll):
			select {
			case <-finished:
				if len(updates) > 0 {
					continue
				}
				if runErr != nil {
					l.logger.Warn("live preview failed", "url", rawURL, "error", runErr)
					emit(Update{Done: true, Err: runErr})
					return nil, runErr
				}
				emit(Update{Done: true, Record: result})
				return result, nil
			default:
			}
		}
	}
}
