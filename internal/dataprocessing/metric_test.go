package dataprocessing

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "protmerge/internal/errors"
	"protmerge/internal/table"
)

func TestComputeMetric(t *testing.T) {
	s := proteins(t, "run1",
		row(txt("P1"), txt("d1"), num(10), num(50)),
		row(txt("P2"), txt("d2"), num(0), num(5)),
		row(txt("P3"), txt("d3"), num(0), num(0)),
		row(txt("P4"), txt("d4"), num(20), null),
		row(txt("P5"), txt("d5"), num(-4), num(2)),
	)

	out, nonFinite, err := ComputeMetric(s, testSchema())
	require.NoError(t, err)

	assert.Equal(t, append(append([]string{}, sampleColumns...), "psm_mw_norm"), out.Columns())
	assert.Equal(t, s.Table.NumRows(), out.NumRows())
	assert.Equal(t, 3, nonFinite)

	want := []float64{500, math.Inf(1), math.NaN(), math.NaN(), -50}
	got := floats(column(t, out, "psm_mw_norm"))
	if diff := cmp.Diff(want, got, valueCmp); diff != "" {
		t.Errorf("psm_mw_norm mismatch (-want +got):\n%s", diff)
	}

	// Rows keep their order and the input is untouched
	assert.Equal(t, []table.Value{txt("P1"), txt("P2"), txt("P3"), txt("P4"), txt("P5")}, column(t, out, "accession"))
	assert.False(t, s.Table.Has("psm_mw_norm"))
}

func TestComputeMetricMatchesFormula(t *testing.T) {
	tests := []struct {
		psm, mw float64
	}{
		{1, 1}, {7, 3}, {123, 45.6}, {0, 12}, {3, 0}, {0, 0}, {1e-9, 1e9},
	}

	for _, tt := range tests {
		s := proteins(t, "s", row(txt("P"), txt("d"), num(tt.mw), num(tt.psm)))
		out, _, err := ComputeMetric(s, testSchema())
		require.NoError(t, err)

		got := floats(column(t, out, "psm_mw_norm"))[0]
		want := tt.psm / tt.mw * 100
		if diff := cmp.Diff(want, got, valueCmp); diff != "" {
			t.Errorf("psm=%v mw=%v (-want +got):\n%s", tt.psm, tt.mw, diff)
		}
	}
}

func TestComputeMetricTextOperand(t *testing.T) {
	s := proteins(t, "s", row(txt("P"), txt("d"), txt("n/a"), num(3)))
	out, nonFinite, err := ComputeMetric(s, testSchema())
	require.NoError(t, err)
	assert.Equal(t, 1, nonFinite)
	assert.True(t, math.IsNaN(floats(column(t, out, "psm_mw_norm"))[0]))
}

func TestComputeMetricMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		missing string
	}{
		{"no psm", []string{"accession", "description", "molecular_weight_kda"}, "psm_count"},
		{"no mw", []string{"accession", "description", "psm_count"}, "molecular_weight_kda"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := table.New(tt.columns, nil)
			require.NoError(t, err)

			_, _, err = ComputeMetric(Sample{Name: "run1", Table: tbl}, testSchema())
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInputShape))
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestComputeMetricAlreadyPresent(t *testing.T) {
	tbl := table.MustNew([]string{"accession", "description", "molecular_weight_kda", "psm_count", "psm_mw_norm"}, nil)
	_, _, err := ComputeMetric(Sample{Name: "run1", Table: tbl}, testSchema())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInputShape))
}
