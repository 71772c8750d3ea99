package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/model"
)

// ErrUnknownFormat is returned by New for unsupported format names.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer renders scrape results to its destination.
type Writer interface {
	// Write renders one record.
	// Returns the number of bytes (or rows) written and any error encountered.
	Write(rec *model.Record) (int, error)

	// WriteBatch renders a fan-out result, one section per URL.
	WriteBatch(batch model.Batch) (int, error)
}

// New returns the writer for a stream format. SQLite output needs a file
// and is created with NewSQLiteWriter instead.
func New(format string, output io.Writer) (Writer, error) {
	switch format {
	case config.FormatText:
		return NewTextWriter(output), nil
	case config.FormatJSON:
		return NewJSONWriter(output, WithIndent("", "    ")), nil
	case config.FormatCSV:
		return NewCSVWriter(output), nil
	case config.FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case config.FormatXLSX:
		return NewXLSXWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// fieldLabels are the section titles of every field.
var fieldLabels = map[string]string{
	model.FieldLinks:     "Links",
	model.FieldEmails:    "Emails",
	model.FieldSocial:    "Social Media",
	model.FieldAuthors:   "Authors",
	model.FieldPhones:    "Phone Numbers",
	model.FieldImages:    "Images",
	model.FieldMetadata:  "Metadata",
	model.FieldDocuments: "Documents",
	model.FieldTables:    "Tables",
}

// Label returns the section title of field.
func Label(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// orEmpty returns rec, or an empty record when rec is nil.
func orEmpty(rec *model.Record) *model.Record {
	if rec == nil {
		return model.NewRecord()
	}
	return rec
}
