package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"protmerge/internal/dataprocessing"
	"protmerge/internal/table"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	bomPrefix bool
}

// NewCSVWriter creates a new CSV writer instance. With bomPrefix set every file
// starts with a UTF-8 BOM so Excel detects the encoding.
func NewCSVWriter(bomPrefix bool) *CSVWriter {
	return &CSVWriter{bomPrefix: bomPrefix}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to out.
func WriteCSV(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTable writes t as CSV: a header row, then one record per row.
func (w *CSVWriter) WriteTable(out io.Writer, t *table.Table) error {
	records := make([][]string, t.NumRows())
	for i := range records {
		row := t.Row(i)
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = formatCell(v)
		}
		records[i] = rec
	}
	return WriteCSV(out, WriteOptions{
		Headers:   t.Columns(),
		Records:   records,
		BOMPrefix: w.bomPrefix,
	})
}

// Write stores each view in sink as <slug>.csv, e.g. psm_normalized.csv.
// All files are rendered before the first is stored. When a file cannot be
// stored, the files already stored by this call are removed again.
func (w *CSVWriter) Write(ctx context.Context, sink Sink, views []dataprocessing.View) error {
	bodies := make([][]byte, len(views))
	for i, v := range views {
		var buf bytes.Buffer
		if err := w.WriteTable(&buf, v.Table); err != nil {
			return fmt.Errorf("failed to render %q: %w", v.Name, err)
		}
		bodies[i] = buf.Bytes()
	}

	for i, v := range views {
		if err := sink.Put(ctx, CSVName(v), bytes.NewReader(bodies[i])); err != nil {
			return errors.Join(err, rollback(ctx, sink, views[:i]))
		}
	}
	return nil
}

// rollback deletes the files stored for views. It runs even when ctx is done.
func rollback(ctx context.Context, sink Sink, views []dataprocessing.View) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for _, v := range views {
		if err := sink.Delete(ctx, CSVName(v)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CSVName is the file name a view is written under in CSV format.
func CSVName(v dataprocessing.View) string {
	return v.Name.Slug() + ".csv"
}
