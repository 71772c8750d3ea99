package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nao1215/webharvest/internal/model"
)

// CSVWriter outputs one row per non-empty field: the field name and its
// JSON-encoded value. Batches get a leading URL column.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the Category,Data header and one row per field.
func (w *CSVWriter) Write(rec *model.Record) (int, error) {
	rows, err := fieldRows(orEmpty(rec))
	if err != nil {
		return 0, err
	}
	return w.writeAll(append([][]string{{"Category", "Data"}}, rows...))
}

// WriteBatch outputs the URL,Category,Data header and the rows of every URL
// in sorted order. A failed URL has a single "error" row.
func (w *CSVWriter) WriteBatch(batch model.Batch) (int, error) {
	records := [][]string{{"URL", "Category", "Data"}}
	for _, u := range batch.URLs() {
		outcome := batch[u]
		if outcome.Failed() {
			records = append(records, []string{u, "error", outcome.Err})
			continue
		}
		rows, err := fieldRows(orEmpty(outcome.Record))
		if err != nil {
			return 0, err
		}
		for _, row := range rows {
			records = append(records, append([]string{u}, row...))
		}
	}
	return w.writeAll(records)
}

func (w *CSVWriter) writeAll(records [][]string) (int, error) {
	counter := &byteCounter{w: w.output}
	if err := csv.NewWriter(counter).WriteAll(records); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

// fieldRows returns [field, json] pairs for every non-empty field.
func fieldRows(rec *model.Record) ([][]string, error) {
	var rows [][]string
	for _, field := range model.FieldOrder {
		value, ok := rec.Field(field)
		if !ok {
			continue
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", field, err)
		}
		rows = append(rows, []string{field, string(data)})
	}
	return rows, nil
}

// byteCounter counts the bytes written through it.
type byteCounter struct {
	w io.Writer
	n int
}

func (c *byteCounter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
