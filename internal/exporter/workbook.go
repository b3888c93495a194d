package exporter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"protmerge/internal/dataprocessing"
	apperrors "protmerge/internal/errors"
)

// WorkbookWriter writes views as the sheets of one xlsx workbook, one sheet per
// view in the order given, each with a bold header row.
type WorkbookWriter struct{}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// Build renders views into a new workbook. The caller closes it.
func (w *WorkbookWriter) Build(views []dataprocessing.View) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, v := range views {
		sheet := string(v.Name)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %q: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, v, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, v dataprocessing.View, headerStyle int) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet %q: %w", sheet, err)
	}

	cols := v.Table.Columns()
	header := make([]interface{}, len(cols))
	for j, c := range cols {
		header[j] = excelize.Cell{StyleID: headerStyle, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet, err)
	}

	values := make([]interface{}, len(cols))
	for i := 0; i < v.Table.NumRows(); i++ {
		for j, cell := range v.Table.Row(i) {
			values[j] = cellValue(cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, values); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", i+1, sheet, err)
		}
	}
	return sw.Flush()
}

// Write builds the workbook and stores it in sink as name.
func (w *WorkbookWriter) Write(ctx context.Context, sink Sink, name string, views []dataprocessing.View) error {
	f, err := w.Build(views)
	if err != nil {
		return apperrors.NewStorageError("failed to build workbook", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return apperrors.NewStorageError("failed to serialize workbook", err)
	}
	return sink.Put(ctx, name, bytes.NewReader(buf.Bytes()))
}
