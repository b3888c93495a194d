package dataprocessing

import (
	"errors"
	"math"

	"protmerge/internal/config"
	apperrors "protmerge/internal/errors"
	"protmerge/internal/table"
)

// ComputeMetric returns the sample's table with schema.Metric appended, holding
// psm / mw * 100 for every row, together with the number of rows whose value is
// infinite or NaN. Zero weights are not guarded: 50/0 gives +Inf and 0/0 gives
// NaN, and those values are kept. Absent or non-numeric operands give NaN.
func ComputeMetric(s Sample, schema config.SchemaConfig) (*table.Table, int, error) {
	psm, err := s.Table.Column(schema.PSMCount)
	if err != nil {
		return nil, 0, apperrors.NewMissingColumnError(s.Name, schema.PSMCount)
	}
	mw, err := s.Table.Column(schema.MolecularWeight)
	if err != nil {
		return nil, 0, apperrors.NewMissingColumnError(s.Name, schema.MolecularWeight)
	}

	values := make([]table.Value, len(psm))
	nonFinite := 0
	for i := range psm {
		v := psmPerKDa(psm[i], mw[i])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			nonFinite++
		}
		values[i] = table.Number(v)
	}

	out, err := s.Table.WithColumn(schema.Metric, values)
	if err != nil {
		if errors.Is(err, table.ErrDuplicateColumn) {
			return nil, 0, apperrors.NewInputShapeError(s.Name, "sample already has a "+schema.Metric+" column")
		}
		return nil, 0, err
	}
	return out, nonFinite, nil
}

func psmPerKDa(psm, mw table.Value) float64 {
	p, _ := psm.Float()
	w, _ := mw.Float()
	return p / w * 100
}
