// Package report renders scrape results.
//
// Every Writer renders a single record or a fan-out batch:
//   - TextWriter: sectioned plain text, optionally colored for the terminal
//   - JSONWriter: indented JSON
//   - CSVWriter: one row per field with the JSON-encoded value
//   - MarkdownWriter: a Markdown document
//   - XLSXWriter: a workbook with one sheet per field
//   - SQLiteWriter: rows appended to a results database
//
// New picks a stream writer by format name.
package report
