package crawler

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/webharvest/internal/model"
)

// TestLiveFieldOrder tests that updates arrive in extraction order followed by one final update.
func TestLiveFieldOrder(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"https://example.com": page("Home", []string{"https://github.com/nao1215"}, "info@example.com"),
	}
	live := NewLive(newFakeFetcher(pages), newTestPipeline(), WithPollInterval(5*time.Millisecond))

	var updates []Update
	got, err := live.Run(t.Context(), "https://example.com", func(u Update) {
		updates = append(updates, u)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var fields []string
	for _, u := range updates[:len(updates)-1] {
		if u.Done {
			t.Errorf("unexpected final update before the end: %+v", u)
		}
		fields = append(fields, u.Field)
	}
	if !slices.Equal(fields, model.FieldOrder) {
		t.Errorf("expected fields %v, got %v", model.FieldOrder, fields)
	}

	last := updates[len(updates)-1]
	if !last.Done || last.Err != nil || last.Record != got {
		t.Errorf("expected final update with the record, got %+v", last)
	}
	if !slices.Equal(got.Emails, []string{"info@example.com"}) {
		t.Errorf("expected email, got %v", got.Emails)
	}

	emailsUpdate := updates[1]
	if len(emailsUpdate.Record.Emails) != 1 || len(emailsUpdate.Record.Social) != 0 {
		t.Errorf("expected snapshot after emails only, got %+v", emailsUpdate.Record)
	}
}

// TestLiveFetchError tests that a fetch failure produces only the final update.
func TestLiveFetchError(t *testing.T) {
	t.Parallel()

	live := NewLive(newFakeFetcher(nil), newTestPipeline(), WithPollInterval(5*time.Millisecond))

	var updates []Update
	got, err := live.Run(t.Context(), "https://missing.example.com", func(u Update) {
		updates = append(updates, u)
	})
	if !errors.Is(err, errNotFound) {
		t.Errorf("expected errNotFound, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil record, got %+v", got)
	}
	if len(updates) != 1 || !updates[0].Done || !errors.Is(updates[0].Err, errNotFound) {
		t.Errorf("expected a single error update, got %+v", updates)
	}
}

// TestLiveCancelled tests that cancellation stops the preview.
func TestLiveCancelled(t *testing.T) {
	t.Parallel()

	fetcher := newFakeFetcher(map[string]string{"https://example.com": page("Home", nil, "")})
	fetcher.delay = time.Second
	live := NewLive(fetcher, newTestPipeline(), WithPollInterval(5*time.Millisecond))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, err := live.Run(ctx, "https://example.com", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
