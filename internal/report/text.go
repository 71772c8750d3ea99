package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/webharvest/internal/model"
)

// TerminalTableRows is how many rows of each table the terminal shows.
const TerminalTableRows = 5

// TextWriter outputs records as labeled sections, one per field.
// With color enabled each section has its own foreground color; the layout
// is identical either way.
type TextWriter struct {
	baseWriter

	// color enables lipgloss styling.
	color bool

	// tableRows limits the rows printed per table. 0 prints every row.
	tableRows int

	styles     map[string]lipgloss.Style
	plain      lipgloss.Style
	errorStyle lipgloss.Style
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithColor enables colored output.
func WithColor(color bool) TextWriterOption {
	return func(w *TextWriter) {
		w.color = color
	}
}

// WithTableRows limits the number of rows printed per table.
func WithTableRows(n int) TextWriterOption {
	return func(w *TextWriter) {
		w.tableRows = n
	}
}

// NewTerminalWriter creates the colored writer used for terminal output.
func NewTerminalWriter(output io.Writer) *TextWriter {
	return NewTextWriter(output, WithColor(true), WithTableRows(TerminalTableRows))
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
		styles: map[string]lipgloss.Style{
			model.FieldLinks:     fg("12"),
			model.FieldEmails:    fg("10"),
			model.FieldSocial:    fg("13"),
			model.FieldAuthors:   fg("11"),
			model.FieldPhones:    fg("9"),
			model.FieldImages:    fg("14"),
			model.FieldMetadata:  fg("15"),
			model.FieldDocuments: fg("12"),
			model.FieldTables:    fg("15"),
		},
		plain:      lipgloss.NewStyle(),
		errorStyle: fg("196").Bold(true),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Write outputs every field of rec in field order.
func (w *TextWriter) Write(rec *model.Record) (int, error) {
	rec = orEmpty(rec)
	var sb strings.Builder
	for _, field := range model.FieldOrder {
		w.writeSection(&sb, field, rec)
	}
	return io.WriteString(w.output, sb.String())
}

// WriteField outputs a single section. Live preview calls it as each field
// completes.
func (w *TextWriter) WriteField(field string, rec *model.Record) (int, error) {
	var sb strings.Builder
	w.writeSection(&sb, field, orEmpty(rec))
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs each URL of batch in sorted order followed by its
// record or error.
func (w *TextWriter) WriteBatch(batch model.Batch) (int, error) {
	var sb strings.Builder
	for _, u := range batch.URLs() {
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", 70))
		sb.WriteString("\n")
		sb.WriteString(w.style(w.plain.Bold(true), "URL: "+u))
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("=", 70))
		sb.WriteString("\n")

		outcome := batch[u]
		if outcome.Failed() {
			sb.WriteString(w.style(w.errorStyle, "Error: "+outcome.Err))
			sb.WriteString("\n")
			continue
		}
		rec := orEmpty(outcome.Record)
		for _, field := range model.FieldOrder {
			w.writeSection(&sb, field, rec)
		}
	}
	return io.WriteString(w.output, sb.String())
}

// writeSection writes the header of field and its values.
func (w *TextWriter) writeSection(sb *strings.Builder, field string, rec *model.Record) {
	st := w.styles[field]

	sb.WriteString("\n")
	sb.WriteString(w.style(st.Bold(true), Label(field)+":"))
	sb.WriteString("\n")

	switch field {
	case model.FieldSocial:
		title := cases.Title(language.English)
		for _, platform := range model.SortedPlatformKeys(rec.Social) {
			fmt.Fprintf(sb, "  %s\n", w.style(w.styles[model.FieldAuthors], title.String(platform)+":"))
			for _, link := range rec.Social[platform] {
				fmt.Fprintf(sb, "    %s\n", w.style(st, link))
			}
		}
	case model.FieldMetadata:
		for _, name := range rec.Metadata.Keys() {
			fmt.Fprintf(sb, "  %s %s\n", w.style(st, name+":"), rec.Metadata[name].String())
		}
	case model.FieldTables:
		for i, t := range rec.Tables {
			fmt.Fprintf(sb, "  %s\n", w.style(st, fmt.Sprintf("Table %d:", i)))
			rows := t.Rows
			if w.tableRows > 0 && len(rows) > w.tableRows {
				rows = rows[:w.tableRows]
			}
			for _, row := range rows {
				fmt.Fprintf(sb, "    %s\n", strings.Join(row, " | "))
			}
			if hidden := len(t.Rows) - len(rows); hidden > 0 {
				fmt.Fprintf(sb, "    ... and %d more rows\n", hidden)
			}
		}
	default:
		values, _ := rec.Strings(field)
		for _, v := range values {
			fmt.Fprintf(sb, "  %s\n", w.style(st, v))
		}
	}
}

func (w *TextWriter) style(st lipgloss.Style, s string) string {
	if !w.color {
		return s
	}
	return st.Render(s)
}
