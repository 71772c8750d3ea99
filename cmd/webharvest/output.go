package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/database"
	"github.com/nao1215/webharvest/internal/model"
	"github.com/nao1215/webharvest/internal/report"
)

// emitRecord renders one record to the selected output.
func (a *app) emitRecord(ctx context.Context, rec *model.Record) error {
	return a.emit(ctx, func(w report.Writer) error {
		_, err := w.Write(rec)
		return err
	})
}

// emitBatch renders a batch to the selected output.
func (a *app) emitBatch(ctx context.Context, batch model.Batch) error {
	return a.emit(ctx, func(w report.Writer) error {
		_, err := w.WriteBatch(batch)
		return err
	})
}

// emit opens the output destination, calls write and reports where the data
// went.
func (a *app) emit(ctx context.Context, write func(report.Writer) error) error {
	if a.cfg.Output == config.OutputTerminal {
		if err := write(report.NewTerminalWriter(a.out)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	path := a.cfg.OutputFilename()
	if err := ensureDir(path); err != nil {
		return err
	}

	if a.cfg.Format == config.FormatSQLite {
		if err := a.emitSQLite(ctx, path, write); err != nil {
			return err
		}
	} else if err := emitFile(a.cfg.Format, path, write); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Data saved to: %s\n", path)
	return nil
}

// emitFile writes a stream format to path, replacing any existing file.
// The file is readable only by its owner.
func emitFile(format, path string, write func(report.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	w, err := report.New(format, f)
	if err != nil {
		f.Close()
		return err
	}
	if err := write(w); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// emitSQLite appends the results to the database at path.
func (a *app) emitSQLite(ctx context.Context, path string, write func(report.Writer) error) error {
	db, err := database.Open(path, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := write(report.NewSQLiteWriter(ctx, db, a.cfg.URL)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
