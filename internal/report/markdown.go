package report

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/webharvest/internal/model"
)

// MarkdownWriter outputs records as a Markdown document with one section
// per non-empty field.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs rec as a Markdown document.
func (w *MarkdownWriter) Write(rec *model.Record) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Web Scraping Results")
	md.PlainText("")

	w.writeRecord(md, orEmpty(rec), md.H2, md.H3)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteBatch outputs a status table for every URL followed by one section
// per URL.
func (w *MarkdownWriter) WriteBatch(batch model.Batch) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Web Scraping Results")
	md.PlainText("")

	urls := batch.URLs()
	rows := make([][]string, 0, len(urls))
	for _, u := range urls {
		status := "ok"
		if batch[u].Failed() {
			status = "error"
		}
		rows = append(rows, []string{u, status})
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status"},
		Rows:   rows,
	})
	md.PlainText("")

	if failures := batch.Failures(); failures > 0 {
		md.Cautionf("%d of %d URL(s) could not be scraped.", failures, len(urls))
		md.PlainText("")
	}

	for _, u := range urls {
		md.H2(u)
		md.PlainText("")
		outcome := batch[u]
		if outcome.Failed() {
			md.PlainTextf("Error: %s", outcome.Err)
			md.PlainText("")
			continue
		}
		w.writeRecord(md, orEmpty(outcome.Record), md.H3, md.H4)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeRecord writes every non-empty field under a section heading. sub is
// the heading level below section.
func (w *MarkdownWriter) writeRecord(md *markdown.Markdown, rec *model.Record, section, sub func(string) *markdown.Markdown) {
	if rec.IsEmpty() {
		md.Note("No data extracted.")
		md.PlainText("")
		return
	}

	w.writeChart(md, rec)

	for _, field := range model.FieldOrder {
		if _, ok := rec.Field(field); !ok {
			continue
		}
		section(Label(field))
		md.PlainText("")

		switch field {
		case model.FieldSocial:
			title := cases.Title(language.English)
			for _, platform := range model.SortedPlatformKeys(rec.Social) {
				sub(title.String(platform))
				md.PlainText("")
				md.BulletList(rec.Social[platform]...)
				md.PlainText("")
			}
		case model.FieldMetadata:
			rows := make([][]string, 0, len(rec.Metadata))
			for _, name := range rec.Metadata.Keys() {
				rows = append(rows, []string{name, rec.Metadata[name].String()})
			}
			md.Table(markdown.TableSet{
				Header: []string{"Name", "Value"},
				Rows:   rows,
			})
			md.PlainText("")
		case model.FieldTables:
			for i, t := range rec.Tables {
				sub(fmt.Sprintf("Table %d", i))
				md.PlainText("")
				w.writeTable(md, t)
			}
		default:
			values, _ := rec.Strings(field)
			md.BulletList(values...)
			md.PlainText("")
		}
	}
}

// writeChart writes a mermaid pie chart of the number of values per field.
func (w *MarkdownWriter) writeChart(md *markdown.Markdown, rec *model.Record) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Extracted values"),
		piechart.WithShowData(true),
	)
	for _, field := range model.FieldOrder {
		if n := rec.Len(field); n > 0 {
			chart.LabelAndIntValue(Label(field), uint64(n))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeTable writes t with its first row as the header. Short rows are
// padded so every row has the same number of columns.
func (w *MarkdownWriter) writeTable(md *markdown.Markdown, t model.Table) {
	width := 0
	for _, row := range t.Rows {
		width = max(width, len(row))
	}
	if width == 0 {
		md.PlainText("Empty table.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		padded := make([]string, width)
		copy(padded, row)
		rows[i] = padded
	}
	md.Table(markdown.TableSet{
		Header: rows[0],
		Rows:   rows[1:],
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [webharvest](https://github.com/nao1215/webharvest)*")
}
