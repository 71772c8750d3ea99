package report

import (
	"context"

	"github.com/nao1215/webharvest/internal/database"
	"github.com/nao1215/webharvest/internal/model"
)

// SQLiteWriter appends records to a results database. Its counts are rows
// inserted, not bytes.
type SQLiteWriter struct {
	ctx    context.Context //nolint:containedctx // Writer methods take no context
	db     *database.ResultDB
	source string
}

// NewSQLiteWriter creates a writer over db. source labels the rows of a
// single record, normally the scraped URL; batch rows are labeled with
// their own URL.
func NewSQLiteWriter(ctx context.Context, db *database.ResultDB, source string) *SQLiteWriter {
	return &SQLiteWriter{ctx: ctx, db: db, source: source}
}

// Write stores rec under the writer's source.
func (w *SQLiteWriter) Write(rec *model.Record) (int, error) {
	return w.db.InsertRecord(w.ctx, w.source, rec)
}

// WriteBatch stores every successful record of batch under its URL.
// Failed URLs store an "error" row.
func (w *SQLiteWriter) WriteBatch(batch model.Batch) (int, error) {
	total := 0
	for _, u := range batch.URLs() {
		outcome := batch[u]
		if outcome.Failed() {
			n, err := w.db.InsertError(w.ctx, u, outcome.Err)
			total += n
			if err != nil {
				return total, err
			}
			continue
		}
		n, err := w.db.InsertRecord(w.ctx, u, outcome.Record)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
