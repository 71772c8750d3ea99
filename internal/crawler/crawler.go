package crawler

import (
	"context"

	"github.com/nao1215/webharvest/internal/model"
	"github.com/nao1215/webharvest/internal/pipeline"
)

// Fetcher retrieves page content. A failed fetch returns an error and the
// page contributes nothing to the crawl.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Pipeline extracts a record from page content, optionally reporting the
// record after each extractor.
type Pipeline interface {
	Execute(ctx context.Context, content string, observe pipeline.Observer) (*model.Record, error)
}

// scrape fetches and extracts one page.
func scrape(ctx context.Context, f Fetcher, p Pipeline, rawURL string) (*model.Record, error) {
	content, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return p.Execute(ctx, content, nil)
}
