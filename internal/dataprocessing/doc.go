// Package dataprocessing merges per-run protein tables into one cross-sample
// table and derives the views analysts read.
//
// # Architecture
//
// The pipeline has five steps, each producing a new table:
//
//  1. Parser: reads a protein export workbook into a table with normalized headers
//  2. Metric: appends psm / mw * 100 to each sample, independently
//  3. Merge: seeds the distinct (accession, description) pairs of all samples,
//     left-joins every sample in order and suffixes colliding column names with
//     the sample name, then suffixes the first sample's shared band columns
//  4. Extract: adds the gene symbol captured from "GN=<token>" in descriptions
//  5. Project: slices the Whole table, PSM and PSM normalized views
//
// Processor runs steps 2 to 5 with a span and a duration metric per step.
//
// # Usage
//
//	t, err := dataprocessing.ParseFile("runs/run1.xlsx", dataprocessing.ParseOptions{
//	    TextColumns: []string{schema.Accession, schema.Description},
//	})
//	...
//	p := dataprocessing.NewProcessor(schema, logger)
//	res, err := p.Process(ctx, []dataprocessing.Sample{{Name: "run1", Table: t}, ...})
//
// # Ordering
//
// Sample order matters. The first sample's columns join unsuffixed, and only
// its band columns are renamed afterwards, so reordering samples changes the
// output column names. Merge must not be parallelized across samples; metric
// computation and parsing may be.
//
// # Error Handling
//
// Missing required columns and column name collisions are InputShape errors,
// repeated sample names are DuplicateSample errors (see internal/errors). Any
// error aborts the run. Infinite and NaN metric values are not errors: they are
// kept in the data, logged as a warning and counted.
package dataprocessing
