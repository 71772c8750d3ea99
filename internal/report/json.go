package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/webharvest/internal/model"
)

// JSONWriter outputs records and batches as JSON. Empty record fields are
// omitted; a batch is an object keyed by URL.
type JSONWriter struct {
	baseWriter

	// prefix and indent are passed to json.Encoder.SetIndent.
	// Both empty means compact output.
	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent pretty-prints the output with indent per nesting level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs rec as a JSON object.
func (w *JSONWriter) Write(rec *model.Record) (int, error) {
	return w.encode(orEmpty(rec))
}

// WriteBatch outputs batch as an object mapping each URL to its record or
// to {"error": reason}.
func (w *JSONWriter) WriteBatch(batch model.Batch) (int, error) {
	if batch == nil {
		batch = model.Batch{}
	}
	return w.encode(batch)
}

// encode writes v followed by a newline. HTML characters in URLs are
// written as is.
func (w *JSONWriter) encode(v any) (int, error) {
	counter := &byteCounter{w: w.output}
	enc := json.NewEncoder(counter)
	enc.SetEscapeHTML(false)
	enc.SetIndent(w.prefix, w.indent)
	err := enc.Encode(v)
	return counter.n, err
}
