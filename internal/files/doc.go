// Package files provides input discovery for protmerge.
//
// Discovery lists the workbooks in a directory in listing order, which is the
// order samples are merged in. SampleName and Normalize implement the naming
// rule shared by sample names and column headers: whitespace and hyphens become
// underscores.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/base")
//	samples, err := discovery.DiscoverSamples("runs")
//	// samples[0].Name == "run_1" for "runs/run-1.xlsx"
package files
