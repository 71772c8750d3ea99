package pipeline

import (
	"context"

	"github.com/nao1215/webharvest/internal/extract"
	"github.com/nao1215/webharvest/internal/model"
)

// Settings are the per-run extractor parameters.
type Settings struct {
	// Country is the default region for phone numbers.
	Country string

	// Images, when set, downloads absolute image URLs and records the saved
	// paths instead of the URLs.
	Images *extract.ImageSaver
}

// ExtractorStep adapts an extractor function to the Step interface.
type ExtractorStep struct {
	name string
	fn   func(ctx context.Context, doc *extract.Document, rec *model.Record)
}

// Name returns the record field the step fills.
func (s *ExtractorStep) Name() string {
	return s.name
}

// Do runs the extractor.
func (s *ExtractorStep) Do(ctx context.Context, doc *extract.Document, rec *model.Record) error {
	s.fn(ctx, doc, rec)
	return nil
}

// NewStep creates a step named after the record field it fills.
func NewStep(name string, fn func(ctx context.Context, doc *extract.Document, rec *model.Record)) *ExtractorStep {
	return &ExtractorStep{name: name, fn: fn}
}

// DefaultSteps returns the nine extractor steps in model.FieldOrder.
func DefaultSteps(settings Settings) []Step {
	return []Step{
		NewStep(model.FieldLinks, func(_ context.Context, doc *extract.Document, rec *model.Record) {
			rec.Links = extract.Links(doc)
		}),
		NewStep(model.FieldEmails, func(_ context.Context, doc *extract.Document, rec *model.Record) {
			rec.Emails = extract.Emails(doc)
		}),
		NewStep(model.FieldSocial, func(_ context.Context, doc *extract.Document, rec *model.Record) {
			rec.Social = extract.Social(doc)
		}),
		NewStep(model.FieldAuthors, func(_ context.Context, doc *extract.Document, rec *model.Record) {
			rec.Authors = extract.Authors(doc)
		}),
		NewStep(model.FieldPhones, func(_ context.Context, doc *extract.Document, rec *model.Record) {
			rec.Phones = extract.Phones(doc, settings.Country)
		}),
		NewStep(model.FieldImages, func(ctx context.Context, doc *extract.Document, rec *model.Record) {
			images := extract.Images(doc)
			if settings.Images != nil {
				images = settings.Images.Save(ctx, images)
			}
			rec.Images = images
		}),
		NewStep(model.FieldMetadata, func(_ context.Context, doc *extract.Document, rec *model.Record) {
			rec.Metadata = extract.Metadata(doc)
		}),
		NewStep(model.FieldDocuments, func(_ context.Context, doc *extract.Document, rec *model.Record) {
			rec.Documents = extract.Documents(doc)
		}),
		NewStep(model.FieldTables, func(_ context.Context, doc *extract.Document, rec *model.Record) {
			rec.Tables = extract.Tables(doc)
		}),
	}
}

// NewDefault creates a Pipeline running the full extractor set.
func NewDefault(settings Settings, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(DefaultSteps(settings)...)
	return p
}
