package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/webharvest/internal/extract"
	"github.com/nao1215/webharvest/internal/model"
)

// Step fills part of a record from a parsed page.
type Step interface {
	// Do extracts from doc into rec. An error leaves the step's field empty
	// but does not stop the pipeline.
	Do(ctx context.Context, doc *extract.Document, rec *model.Record) error

	// Name returns the record field the step fills, for logging and observers.
	Name() string
}

// Observer is called after each step with the step name and a snapshot of
// the record so far. The snapshot is owned by the observer.
type Observer func(step string, snapshot *model.Record)

// Pipeline runs its steps in order against one page at a time.
// It holds no per-page state and is safe for concurrent use once built.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline. Use AddStep, or NewDefault for the full
// extractor set.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Run extracts a record from content.
func (p *Pipeline) Run(ctx context.Context, content string) (*model.Record, error) {
	return p.Execute(ctx, content, nil)
}

// Execute extracts a record from content, calling observe after every step
// when it is not nil. Blank content returns ErrEmptyContent. Cancellation is
// checked between steps.
func (p *Pipeline) Execute(ctx context.Context, content string, observe Observer) (*model.Record, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	doc, err := extract.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	rec := model.NewRecord()
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := runStep(ctx, step, doc, rec); err != nil {
			p.logger.Warn("extractor failed", "field", step.Name(), "error", err)
		}

		if observe != nil {
			observe(step.Name(), rec.Clone())
		}
	}
	return rec, nil
}

// runStep runs step against a scratch record and copies the result into rec
// only on success, so a failing step never leaves a half-filled field.
func runStep(ctx context.Context, step Step, doc *extract.Document, rec *model.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrStepPanic, r)
		}
	}()

	scratch := model.NewRecord()
	if err := step.Do(ctx, doc, scratch); err != nil {
		return err
	}
	mergeInto(rec, scratch)
	return nil
}

// mergeInto copies the fields scratch set into rec.
func mergeInto(rec, scratch *model.Record) {
	for _, field := range model.StringFields {
		if values, _ := scratch.Strings(field); values != nil {
			rec.SetStrings(field, values)
		}
	}
	for k, v := range scratch.Social {
		rec.Social[k] = v
	}
	for k, v := range scratch.Metadata {
		rec.Metadata[k] = v
	}
	if scratch.Tables != nil {
		rec.Tables = scratch.Tables
	}
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
