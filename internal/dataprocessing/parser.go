package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "protmerge/internal/errors"
	"protmerge/internal/files"
	"protmerge/internal/table"
)

// ParseOptions controls how a workbook is turned into a table.
type ParseOptions struct {
	// Sheet to read; the first sheet when empty.
	Sheet string
	// TextColumns are kept as text even when their cells look numeric.
	// Names are matched after header normalization.
	TextColumns []string
}

// ParseFile reads a protein export workbook into a table. The first non-blank
// row is the header; header names are normalized (whitespace and hyphens become
// underscores). Blank rows are skipped, empty cells become null and other cells
// are numbers when they parse as one.
func ParseFile(filePath string, opts ParseOptions) (*table.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", filePath)
	}
	defer f.Close()

	return parseWorkbook(f, opts, filePath)
}

// ParseReader is ParseFile for a workbook held in a reader.
func ParseReader(r io.Reader, source string, opts ParseOptions) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("path", source)
	}
	defer f.Close()

	return parseWorkbook(f, opts, source)
}

func parseWorkbook(f *excelize.File, opts ParseOptions, source string) (*table.Table, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError("workbook has no sheets", nil).WithContext("path", source)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).WithContext("path", source)
	}

	headerRow := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("sheet %q has no header row", sheet), nil).WithContext("path", source)
	}

	width := 0
	for _, row := range rows[headerRow:] {
		if len(row) > width {
			width = len(row)
		}
	}
	header := normalizeHeader(rows[headerRow], width)

	text := make(map[string]bool, len(opts.TextColumns))
	for _, c := range opts.TextColumns {
		text[c] = true
	}

	var data [][]table.Value
	for _, row := range rows[headerRow+1:] {
		if isBlankRow(row) {
			continue
		}
		values := make([]table.Value, width)
		for j, cell := range row {
			values[j] = parseCell(cell, text[header[j]])
		}
		data = append(data, values)
	}

	t, err := table.New(header, data)
	if err != nil {
		if errors.Is(err, table.ErrDuplicateColumn) {
			return nil, apperrors.NewInputShapeError(source, "workbook headers repeat after normalization").
				WithContext("cause", err.Error())
		}
		return nil, apperrors.NewParsingError("failed to build table", err).WithContext("path", source)
	}
	return t, nil
}

// normalizeHeader names width columns from the header row. Blank or missing
// header cells are named Unnamed_<index>.
func normalizeHeader(row []string, width int) []string {
	header := make([]string, width)
	for j := range header {
		if j < len(row) && strings.TrimSpace(row[j]) != "" {
			header[j] = files.Normalize(row[j])
		} else {
			header[j] = fmt.Sprintf("Unnamed_%d", j)
		}
	}
	return header
}

func parseCell(cell string, asText bool) table.Value {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return table.Null()
	}
	if asText {
		return table.Text(cell)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return table.Number(f)
	}
	return table.Text(cell)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
