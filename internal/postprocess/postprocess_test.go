package postprocess

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/nao1215/webharvest/internal/model"
	"github.com/nao1215/webharvest/internal/pipeline"
)

func sampleRecord() *model.Record {
	r := model.NewRecord()
	r.Links = []string{"https://example.com/test", "https://example.com/about", "/Test-page"}
	r.Emails = []string{"b@example.com", "A@example.com", "a@example.com", "b@example.com"}
	r.Phones = []string{"+12025550123", "+12025550100", "+12025550123"}
	r.Social["github"] = []string{"https://github.com/test", "https://github.com/other"}
	r.Social["twitter"] = []string{"https://twitter.com/someone"}
	r.Metadata.Add("title", "Test Page")
	r.Metadata.Add("description", "nothing here")
	r.Tables = []model.Table{
		{Index: 0, Rows: [][]string{{"name", "value"}, {"x", "1"}}},
		{Index: 1, Rows: [][]string{{"TEST", "2"}}},
	}
	return r
}

// TestFilterKeyword tests case-insensitive keyword filtering across field types.
func TestFilterKeyword(t *testing.T) {
	t.Parallel()

	got, err := Filter(sampleRecord(), "test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(got.Links, []string{"https://example.com/test", "/Test-page"}) {
		t.Errorf("unexpected links: %v", got.Links)
	}
	if got.Emails != nil || got.Phones != nil {
		t.Errorf("expected fields without matches to be dropped, got emails=%v phones=%v", got.Emails, got.Phones)
	}
	if _, ok := got.Social["twitter"]; ok {
		t.Error("expected platform without matches to be dropped")
	}
	if !slices.Equal(got.Social["github"], []string{"https://github.com/test"}) {
		t.Errorf("unexpected github links: %v", got.Social["github"])
	}
	if _, ok := got.Metadata["description"]; ok {
		t.Error("expected unmatched metadata to be dropped")
	}
	if got.Metadata["title"].First() != "Test Page" {
		t.Errorf("expected title to survive, got %v", got.Metadata["title"])
	}
	if len(got.Tables) != 1 || got.Tables[0].Index != 1 {
		t.Errorf("expected only the matching table, got %+v", got.Tables)
	}
}

// TestFilterDropsEmptyFields tests that a field emptied by filtering is absent.
func TestFilterDropsEmptyFields(t *testing.T) {
	t.Parallel()

	got, err := Filter(sampleRecord(), "no-such-value", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("expected every field to be dropped, got %+v", got)
	}
	if got.Social != nil || got.Metadata != nil || got.Links != nil {
		t.Errorf("expected nil fields, got %+v", got)
	}
}

// TestFilterPattern tests regular expression filtering.
func TestFilterPattern(t *testing.T) {
	t.Parallel()

	got, err := Filter(sampleRecord(), "", `^[ab]@`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got.Emails, []string{"b@example.com", "a@example.com", "b@example.com"}) {
		t.Errorf("unexpected emails: %v", got.Emails)
	}
	if got.Links != nil {
		t.Errorf("expected links to be dropped, got %v", got.Links)
	}
}

// TestFilterKeywordWins tests that the keyword is used when both are given.
func TestFilterKeywordWins(t *testing.T) {
	t.Parallel()

	got, err := Filter(sampleRecord(), "about", `^[ab]@`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Emails != nil {
		t.Errorf("expected the pattern to be ignored, got emails %v", got.Emails)
	}
	if !slices.Equal(got.Links, []string{"https://example.com/about"}) {
		t.Errorf("unexpected links: %v", got.Links)
	}
}

// TestFilterNoCriteria tests that filtering without keyword or pattern is a copy.
func TestFilterNoCriteria(t *testing.T) {
	t.Parallel()

	in := sampleRecord()
	got, err := Filter(in, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == in {
		t.Error("expected a copy")
	}
	if !slices.Equal(got.Emails, in.Emails) || len(got.Tables) != 2 {
		t.Errorf("expected unchanged record, got %+v", got)
	}
}

// TestFilterInvalidPattern tests that a bad expression is reported.
func TestFilterInvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := Filter(sampleRecord(), "", "([")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}

// TestFilterDoesNotMutateInput tests that the input record is left alone.
func TestFilterDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := sampleRecord()
	if _, err := Filter(in, "test", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(in.Emails) != 4 || len(in.Social["twitter"]) != 1 {
		t.Errorf("input record was modified: %+v", in)
	}
}

// TestNormalize tests deduplication and sort order.
func TestNormalize(t *testing.T) {
	t.Parallel()

	got := Normalize(sampleRecord())

	wantEmails := []string{"A@example.com", "a@example.com", "b@example.com"}
	if !slices.Equal(got.Emails, wantEmails) {
		t.Errorf("expected emails %v, got %v", wantEmails, got.Emails)
	}
	wantPhones := []string{"+12025550100", "+12025550123"}
	if !slices.Equal(got.Phones, wantPhones) {
		t.Errorf("expected phones %v, got %v", wantPhones, got.Phones)
	}
	wantLinks := []string{"/Test-page", "https://example.com/about", "https://example.com/test"}
	if !slices.Equal(got.Links, wantLinks) {
		t.Errorf("expected links %v, got %v", wantLinks, got.Links)
	}
	wantGithub := []string{"https://github.com/other", "https://github.com/test"}
	if !slices.Equal(got.Social["github"], wantGithub) {
		t.Errorf("expected github %v, got %v", wantGithub, got.Social["github"])
	}
	if len(got.Tables) != 2 || got.Tables[0].Index != 0 {
		t.Errorf("expected tables untouched, got %+v", got.Tables)
	}
	if got.Metadata["title"].First() != "Test Page" {
		t.Errorf("expected metadata untouched, got %v", got.Metadata)
	}
}

// TestNormalizeNil tests nil handling.
func TestNormalizeNil(t *testing.T) {
	t.Parallel()

	if Normalize(nil) != nil {
		t.Error("expected nil")
	}
	got := Normalize(model.NewRecord())
	if got.Links != nil {
		t.Errorf("expected nil links to stay nil, got %v", got.Links)
	}
}

// TestNormalizeAfterExtraction tests that duplicate anchors survive extraction and collapse on normalize.
func TestNormalizeAfterExtraction(t *testing.T) {
	t.Parallel()

	content := `<html><body>
<a href="https://example.com/a">one</a>
<a href="https://example.com/a">two</a>
</body></html>`

	rec, err := pipeline.NewDefault(pipeline.Settings{Country: "US"}).Run(context.Background(), content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Links) != 2 {
		t.Fatalf("expected raw duplicates, got %v", rec.Links)
	}
	if got := Normalize(rec).Links; !slices.Equal(got, []string{"https://example.com/a"}) {
		t.Errorf("expected one link after normalize, got %v", got)
	}
}
