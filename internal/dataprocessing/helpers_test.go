package dataprocessing

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"protmerge/internal/config"
	"protmerge/internal/table"
)

var (
	txt  = table.Text
	num  = table.Number
	null = table.Null()
)

// testSchema uses the short column names of hand-built tables.
func testSchema() config.SchemaConfig {
	return config.SchemaConfig{
		Accession:       "accession",
		Description:     "description",
		PSMCount:        "psm_count",
		MolecularWeight: "molecular_weight_kda",
		Metric:          "psm_mw_norm",
		GeneSymbol:      "gene_symbol",
		GeneSymbolLabel: "Gene Symbol",
		SharedBand:      []string{"coverage", "psm_count"},
	}
}

var sampleColumns = []string{"accession", "description", "molecular_weight_kda", "psm_count"}

// proteins builds a sample with sampleColumns from (accession, description, mw, psm) rows.
func proteins(t *testing.T, name string, rows ...[]table.Value) Sample {
	t.Helper()
	tbl, err := table.New(sampleColumns, rows)
	require.NoError(t, err)
	return Sample{Name: name, Table: tbl}
}

func row(vals ...table.Value) []table.Value { return vals }

func column(t *testing.T, tbl *table.Table, name string) []table.Value {
	t.Helper()
	vals, err := tbl.Column(name)
	require.NoError(t, err)
	return vals
}

func floats(vals []table.Value) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		f, ok := v.Float()
		if !ok {
			f = math.NaN()
		}
		out[i] = f
	}
	return out
}

var valueCmp = cmp.Options{cmpopts.EquateNaNs()}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
