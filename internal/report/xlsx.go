package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/webharvest/internal/model"
)

// summarySheet is the first sheet of every workbook.
const summarySheet = "summary"

// XLSXWriter outputs a workbook with a summary sheet and one sheet per
// non-empty field. Batch workbooks prefix every row with its URL.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs rec as a workbook.
func (w *XLSXWriter) Write(rec *model.Record) (int, error) {
	return w.write(map[string]*model.Record{"": orEmpty(rec)}, nil, nil)
}

// WriteBatch outputs batch as a workbook. Failed URLs are listed on an
// "errors" sheet.
func (w *XLSXWriter) WriteBatch(batch model.Batch) (int, error) {
	records := make(map[string]*model.Record, len(batch))
	var failed []string
	for _, u := range batch.URLs() {
		if batch[u].Failed() {
			failed = append(failed, u)
			continue
		}
		records[u] = orEmpty(batch[u].Record)
	}
	return w.write(records, batch.URLs(), func(f *excelize.File) error {
		if len(failed) == 0 {
			return nil
		}
		if _, err := f.NewSheet("errors"); err != nil {
			return err
		}
		if err := setRow(f, "errors", 1, []any{"URL", "Error"}); err != nil {
			return err
		}
		for i, u := range failed {
			if err := setRow(f, "errors", i+2, []any{u, batch[u].Err}); err != nil {
				return err
			}
		}
		return nil
	})
}

// write builds the workbook. An empty urls slice means a single record
// stored under "" and no URL column.
func (w *XLSXWriter) write(records map[string]*model.Record, urls []string, extra func(*excelize.File) error) (int, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return 0, err
	}
	keys := urls
	if len(keys) == 0 {
		keys = []string{""}
	}
	batch := len(urls) > 0

	if err := setRow(f, summarySheet, 1, withURL(batch, "URL", []any{"Field", "Count"})); err != nil {
		return 0, err
	}
	summaryRow := 2

	sheets := make(map[string]int)
	for _, u := range keys {
		rec, ok := records[u]
		if !ok {
			continue
		}
		for _, field := range model.FieldOrder {
			if _, ok := rec.Field(field); !ok {
				continue
			}
			if err := setRow(f, summarySheet, summaryRow, withURL(batch, u, []any{field, rec.Len(field)})); err != nil {
				return 0, err
			}
			summaryRow++

			next, ok := sheets[field]
			if !ok {
				if _, err := f.NewSheet(field); err != nil {
					return 0, err
				}
				if err := setRow(f, field, 1, withURL(batch, "URL", fieldHeader(field))); err != nil {
					return 0, err
				}
				next = 2
			}
			for _, row := range fieldSheetRows(field, rec) {
				if err := setRow(f, field, next, withURL(batch, u, row)); err != nil {
					return 0, err
				}
				next++
			}
			sheets[field] = next
		}
	}

	if extra != nil {
		if err := extra(f); err != nil {
			return 0, err
		}
	}

	counter := &byteCounter{w: w.output}
	if _, err := f.WriteTo(counter); err != nil {
		return counter.n, fmt.Errorf("failed to write workbook: %w", err)
	}
	return counter.n, nil
}

// fieldHeader returns the column titles of a field sheet.
func fieldHeader(field string) []any {
	switch field {
	case model.FieldSocial:
		return []any{"Platform", "Link"}
	case model.FieldMetadata:
		return []any{"Name", "Value"}
	case model.FieldTables:
		return []any{"Table", "Row", "Cells"}
	default:
		return []any{Label(field)}
	}
}

// fieldSheetRows flattens the value of field into spreadsheet rows.
// Table cells occupy one column each after the table and row numbers.
func fieldSheetRows(field string, rec *model.Record) [][]any {
	var rows [][]any
	switch field {
	case model.FieldSocial:
		for _, platform := range model.SortedPlatformKeys(rec.Social) {
			for _, link := range rec.Social[platform] {
				rows = append(rows, []any{platform, link})
			}
		}
	case model.FieldMetadata:
		for _, name := range rec.Metadata.Keys() {
			rows = append(rows, []any{name, strings.Join(rec.Metadata[name].Values, ", ")})
		}
	case model.FieldTables:
		for i, t := range rec.Tables {
			for j, cells := range t.Rows {
				row := []any{i, j}
				for _, c := range cells {
					row = append(row, c)
				}
				rows = append(rows, row)
			}
		}
	default:
		values, _ := rec.Strings(field)
		for _, v := range values {
			rows = append(rows, []any{v})
		}
	}
	return rows
}

func withURL(batch bool, u string, row []any) []any {
	if !batch {
		return row
	}
	return append([]any{u}, row...)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
