package dataprocessing

import (
	"strings"
	"unicode"

	"protmerge/internal/config"
	apperrors "protmerge/internal/errors"
	"protmerge/internal/table"
)

// geneSymbolMarker precedes the gene symbol in a UniProt style description.
const geneSymbolMarker = "GN="

// ExtractGeneSymbol returns the run of non-whitespace characters following the
// first "GN=" in description. Whitespace is any Unicode space, including
// no-break and em spaces. ok is false when there is no such run.
func ExtractGeneSymbol(description string) (symbol string, ok bool) {
	i := strings.Index(description, geneSymbolMarker)
	if i < 0 {
		return "", false
	}
	rest := description[i+len(geneSymbolMarker):]
	if end := strings.IndexFunc(rest, unicode.IsSpace); end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// ExtractGeneSymbols appends schema.GeneSymbol to merged, derived from the
// description column. Rows without a symbol get null.
func ExtractGeneSymbols(merged *table.Table, schema config.SchemaConfig) (*table.Table, error) {
	descriptions, err := merged.Column(schema.Description)
	if err != nil {
		return nil, apperrors.NewMissingColumnError("merged", schema.Description)
	}

	symbols := make([]table.Value, len(descriptions))
	for i, d := range descriptions {
		if d.IsNull() {
			continue
		}
		if sym, ok := ExtractGeneSymbol(d.String()); ok {
			symbols[i] = table.Text(sym)
		}
	}

	out, err := merged.WithColumn(schema.GeneSymbol, symbols)
	if err != nil {
		return nil, apperrors.NewInputShapeError("merged", "cannot add "+schema.GeneSymbol+" column").
			WithContext("cause", err.Error())
	}
	return out, nil
}
