package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// ProteinHeader is the header of a minimal protein export workbook.
var ProteinHeader = []interface{}{"accession", "description", "molecular weight kda", "psm-count"}

// WriteWorkbook saves header and rows to the first sheet of a new workbook at path.
func WriteWorkbook(t testing.TB, path string, header []interface{}, rows ...[]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	all := append([][]interface{}{header}, rows...)
	for i, r := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := r
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("write row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook %s: %v", path, err)
	}
}

// Protein is one row of a minimal protein export.
func Protein(accession, description string, mwKDa float64, psms int) []interface{} {
	return []interface{}{accession, description, mwKDa, psms}
}
