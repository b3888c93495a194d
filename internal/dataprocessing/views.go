package dataprocessing

import (
	"strings"

	"protmerge/internal/config"
	apperrors "protmerge/internal/errors"
	"protmerge/internal/table"
)

// Project builds the three output views from the merged table after gene
// symbol extraction. sampleNames must be in merge order. The views are computed
// independently and keep the merged table's rows and row order.
func Project(merged *table.Table, sampleNames []string, schema config.SchemaConfig) (Views, error) {
	whole, err := wholeTable(merged, sampleNames, schema)
	if err != nil {
		return Views{}, err
	}
	psm, err := perSampleView(merged, schema.PSMCount, sampleNames, schema)
	if err != nil {
		return Views{}, err
	}
	norm, err := perSampleView(merged, schema.Metric, sampleNames, schema)
	if err != nil {
		return Views{}, err
	}
	return Views{WholeTable: whole, PSM: psm, PSMNormalized: norm}, nil
}

// wholeTable keeps accession, description and every column carrying a sample
// suffix, in merged order.
func wholeTable(merged *table.Table, sampleNames []string, schema config.SchemaConfig) (*table.Table, error) {
	cols := []string{schema.Accession, schema.Description}
	for _, c := range merged.Columns() {
		switch c {
		case schema.Accession, schema.Description, schema.GeneSymbol:
			continue
		}
		if hasSampleSuffix(c, sampleNames) {
			cols = append(cols, c)
		}
	}
	return selectView(merged, cols, nil)
}

func hasSampleSuffix(col string, sampleNames []string) bool {
	for _, s := range sampleNames {
		if strings.HasSuffix(col, "_"+s) {
			return true
		}
	}
	return false
}

// perSampleView keeps accession, description, the gene symbol under its display
// label, and base_<sample> for every sample. The first sample's column may still
// be unsuffixed when base is outside the shared band; it is renamed here.
func perSampleView(merged *table.Table, base string, sampleNames []string, schema config.SchemaConfig) (*table.Table, error) {
	cols := []string{schema.Accession, schema.Description, schema.GeneSymbol}
	rename := map[string]string{schema.GeneSymbol: schema.GeneSymbolLabel}

	for i, s := range sampleNames {
		suffixed := base + "_" + s
		switch {
		case merged.Has(suffixed):
			cols = append(cols, suffixed)
		case i == 0 && merged.Has(base):
			cols = append(cols, base)
			rename[base] = suffixed
		default:
			return nil, apperrors.NewMissingColumnError(s, base)
		}
	}
	return selectView(merged, cols, rename)
}

func selectView(merged *table.Table, cols []string, rename map[string]string) (*table.Table, error) {
	view, err := merged.Select(cols...)
	if err != nil {
		return nil, apperrors.NewInputShapeError("merged", "cannot project view").WithContext("cause", err.Error())
	}
	if len(rename) == 0 {
		return view, nil
	}
	view, err = view.Rename(rename)
	if err != nil {
		return nil, apperrors.NewInputShapeError("merged", "cannot rename view columns").WithContext("cause", err.Error())
	}
	return view, nil
}
