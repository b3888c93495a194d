package dataprocessing

import (
	"fmt"

	"protmerge/internal/config"
	apperrors "protmerge/internal/errors"
	"protmerge/internal/table"
)

// mergeState is the accumulator of the merge fold. seen holds every column
// name on acc; it decides whether an incoming column is suffixed.
type mergeState struct {
	acc  *table.Table
	seen map[string]bool
	// firstColumns are the columns the first sample contributed unsuffixed.
	firstColumns map[string]bool
}

// Merge combines the samples, in order, into one table keyed by accession.
//
// Rows are the distinct (accession, description) pairs of all samples in
// first-seen order. Each sample is then left-joined on accession, bringing every
// column except description. An incoming column whose name is already present is
// suffixed with "_<sample>"; otherwise it keeps its name, so the first sample's
// columns arrive unsuffixed. Finally the first sample's columns listed in
// schema.SharedBand get the "_<first sample>" suffix. Other first-sample columns
// stay unsuffixed.
//
// Duplicate accessions within a sample multiply the matching rows. Samples must
// have unique names.
func Merge(samples []Sample, schema config.SchemaConfig) (*table.Table, error) {
	if err := checkSampleNames(samples); err != nil {
		return nil, err
	}

	seed, err := seedRows(samples, schema)
	if err != nil {
		return nil, err
	}

	state := mergeState{acc: seed, seen: make(map[string]bool)}
	for _, c := range seed.Columns() {
		state.seen[c] = true
	}

	for i, s := range samples {
		state, err = state.join(s, schema, i == 0)
		if err != nil {
			return nil, err
		}
	}

	if len(samples) == 0 {
		return state.acc, nil
	}
	return correctBand(state, schema.SharedBand, samples[0].Name)
}

func checkSampleNames(samples []Sample) error {
	seen := make(map[string]int, len(samples))
	for i, s := range samples {
		if j, dup := seen[s.Name]; dup {
			return apperrors.NewDuplicateSampleError(s.Name, fmt.Sprintf("input #%d", j+1), fmt.Sprintf("input #%d", i+1))
		}
		seen[s.Name] = i
	}
	return nil
}

// seedRows returns the distinct (accession, description) pairs across all
// samples, in first-seen order.
func seedRows(samples []Sample, schema config.SchemaConfig) (*table.Table, error) {
	if len(samples) == 0 {
		return table.Empty(schema.Accession, schema.Description)
	}

	ids := make([]*table.Table, len(samples))
	for i, s := range samples {
		for _, col := range []string{schema.Accession, schema.Description} {
			if !s.Table.Has(col) {
				return nil, apperrors.NewMissingColumnError(s.Name, col)
			}
		}
		t, err := s.Table.Select(schema.Accession, schema.Description)
		if err != nil {
			return nil, err
		}
		ids[i] = t
	}

	all, err := table.Concat(ids...)
	if err != nil {
		return nil, err
	}
	return all.Distinct(), nil
}

// join folds one sample into the state and returns the next state.
func (st mergeState) join(s Sample, schema config.SchemaConfig, first bool) (mergeState, error) {
	incoming, err := s.Table.Drop(schema.Description)
	if err != nil {
		return st, apperrors.NewMissingColumnError(s.Name, schema.Description)
	}

	suffix := "_" + s.Name
	rename := func(col string) string {
		if st.seen[col] {
			return col + suffix
		}
		return col
	}

	acc, err := st.acc.LeftJoin(incoming, schema.Accession, rename)
	if err != nil {
		return st, apperrors.NewInputShapeError(s.Name, "cannot join sample columns").WithContext("cause", err.Error())
	}

	next := mergeState{acc: acc, seen: make(map[string]bool, acc.NumCols()), firstColumns: st.firstColumns}
	for _, c := range acc.Columns() {
		next.seen[c] = true
	}
	if first {
		next.firstColumns = make(map[string]bool)
		for _, c := range incoming.Columns() {
			if c != schema.Accession && !st.seen[c] {
				next.firstColumns[c] = true
			}
		}
	}
	return next, nil
}

// correctBand appends the first sample's suffix to the band columns it contributed.
func correctBand(st mergeState, band []string, firstSample string) (*table.Table, error) {
	mapping := make(map[string]string, len(band))
	for _, c := range band {
		if st.firstColumns[c] {
			mapping[c] = c + "_" + firstSample
		}
	}
	if len(mapping) == 0 {
		return st.acc, nil
	}

	out, err := st.acc.Rename(mapping)
	if err != nil {
		return nil, apperrors.NewInputShapeError(firstSample, "band correction collides with an existing column").
			WithContext("cause", err.Error())
	}
	return out, nil
}
