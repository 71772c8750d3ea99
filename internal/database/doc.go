// Package database stores scrape results in a SQLite file.
//
// Each record field becomes one row of the scraping_data table holding the
// JSON-encoded value, keyed by the page it came from and the time it was
// stored. Opening an existing file appends to it.
//
// The driver is modernc.org/sqlite, a CGO-free SQLite implementation.
package database
