// Package app runs one protmerge batch: it resolves the input workbooks,
// loads them concurrently, merges them and writes the three views.
//
// # Run Flow
//
//  1. Resolve inputs: explicit files in the order given, or the workbooks of
//     the input directory in listing order
//  2. Load every workbook (bounded by Input.Workers)
//  3. Compute the normalized PSM metric, merge, extract gene symbols, project
//  4. Export the views as one workbook or as one CSV per view
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger, telemetry)
//	if err != nil {
//	    return err
//	}
//	report, err := application.Run(ctx)
//
// A run either writes every output or returns an error; nothing is left half
// written at the destination.
package app
