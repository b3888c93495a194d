// Package exporter writes the merged views for protmerge.
//
// This package contains four main components:
//
// WorkbookWriter: renders the views as the sheets of one xlsx workbook using
// excelize's stream writer.
//
// CSVWriter: renders each view as a CSV file, optionally with a UTF-8 BOM for
// Excel compatibility.
//
// Sink: stores rendered objects either in a local directory (written to a
// temporary file and renamed into place) or in an S3 bucket.
//
// Exporter: picks the writer and sink from the output configuration.
//
// Non-finite numbers are written the way pandas writes them: NaN as an empty
// cell, infinities as the text "inf" and "-inf".
//
// Example usage:
//
//	exp := exporter.New(cfg.Output, logger)
//	locations, err := exp.Export(ctx, result.Views.Ordered())
package exporter
