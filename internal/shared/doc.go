// Package shared holds helpers used by more than one protmerge package.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - CaptureHandler, an slog.Handler that records log records for assertions
//   - WriteWorkbook and Protein, which build small protein export workbooks
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := filepath.Join(t.TempDir(), "run1.xlsx")
//	    testutil.WriteWorkbook(t, path, testutil.ProteinHeader,
//	        testutil.Protein("P1", "Desc1 GN=G1", 10, 50))
//	    ...
//	    testutil.AssertNoErrors(t, logs)
//	}
//
// Nothing here is imported by production code.
package shared
