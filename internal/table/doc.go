// Package table provides the small immutable table used to hold sample
// workbooks and the merged result.
//
// A Table has uniquely named columns and rows of Values. Values are null, text
// or float64; NaN and infinities are ordinary numbers here. Operations never
// modify their receiver:
//
//	t2, err := t.Select("Accession", "Description")
//	t3, err := t2.Rename(map[string]string{"Description": "desc"})
//	merged, err := seed.LeftJoin(sample, "Accession", suffixer)
//
// LeftJoin has pandas "how=left" semantics: left rows are never dropped and a
// key repeated on the right multiplies the matching left row.
package table
