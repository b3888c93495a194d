package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"protmerge/internal/dataprocessing"
	"protmerge/internal/table"
	"protmerge/pkg/contracts/domain"
)

func TestWorkbookWriterWrite(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Dir: filepath.Join(dir, "out")}

	require.NoError(t, NewWorkbookWriter().Write(context.Background(), sink, "merged.xlsx", testViews()))

	f, err := excelize.OpenFile(sink.Location("merged.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Whole table", "PSM", "PSM normalized"}, f.GetSheetList())

	rows, err := f.GetRows("PSM")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"accession", "description", "Gene Symbol", "psm_count_run1", "psm_count_run2"},
		{"P1", "Desc1 GN=G1", "G1", "50", "30"},
		{"P2", "Desc2, with comma", "", "", "10"},
	}, rows)

	rows, err = f.GetRows("PSM normalized")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"P1", "Desc1 GN=G1", "G1", "500", "inf"}, rows[1])
	assert.Equal(t, []string{"P2", "Desc2, with comma"}, rows[2], "NaN and null cells are empty")

	// Numbers are stored as numbers, not text
	cellType, err := f.GetCellType("PSM", "D2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)
}

func TestWorkbookWriterRoundTrip(t *testing.T) {
	sink := &FileSink{Dir: t.TempDir()}
	require.NoError(t, NewWorkbookWriter().Write(context.Background(), sink, "rt.xlsx", testViews()))

	got, err := dataprocessing.ParseFile(sink.Location("rt.xlsx"), dataprocessing.ParseOptions{
		Sheet:       "Whole table",
		TextColumns: []string{"accession", "description"},
	})
	require.NoError(t, err)

	want := testViews()[0].Table
	assert.Equal(t, want.Columns(), got.Columns())
	for i := 0; i < want.NumRows(); i++ {
		assert.Equal(t, want.Row(i), got.Row(i))
	}
}

func TestWorkbookWriterEmptyView(t *testing.T) {
	views := []dataprocessing.View{{Name: domain.ViewPSM, Table: table.MustNew([]string{"accession"}, nil)}}

	f, err := NewWorkbookWriter().Build(views)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"PSM"}, f.GetSheetList())
	rows, err := f.GetRows("PSM")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"accession"}}, rows)
}

func TestWorkbookWriterSinkError(t *testing.T) {
	sink := newMemorySink()
	sink.failOn = "merged.xlsx"
	assert.Error(t, NewWorkbookWriter().Write(context.Background(), sink, "merged.xlsx", testViews()))
}
