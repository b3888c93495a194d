package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "protmerge/internal/errors"
	"protmerge/internal/shared/testutil"
	"protmerge/pkg/contracts"
	"protmerge/pkg/contracts/domain"
)

// exportHeader is a Proteome Discoverer style header, before normalization.
var exportHeader = []interface{}{"Accession", "Description", "# PSMs", "MW [kDa]"}

func TestExecuteVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"--version"}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "protmerge v"+contracts.Version)
}

func TestExecuteMergesToCSV(t *testing.T) {
	in := t.TempDir()
	testutil.WriteWorkbook(t, filepath.Join(in, "run1.xlsx"), exportHeader,
		[]interface{}{"P1", "Desc1 GN=G1", 50, 10})
	testutil.WriteWorkbook(t, filepath.Join(in, "run2.xlsx"), exportHeader,
		[]interface{}{"P1", "Desc1 GN=G1", 30, 10},
		[]interface{}{"P2", "Desc2", 10, 5})
	out := filepath.Join(t.TempDir(), "views")
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	var stdout, stderr bytes.Buffer
	code := execute([]string{
		"--in", in, "--out", out, "--format", "csv",
		"--log-level", "error", "--metrics-file", metrics,
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var report domain.RunReport
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, []string{"run1", "run2"}, report.Samples)
	assert.Equal(t, 2, report.MergedRows)
	assert.Len(t, report.Outputs, 3)

	data, err := os.ReadFile(filepath.Join(out, "psm_normalized.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"Accession,Description,Gene Symbol,psm_mw_norm_run1,psm_mw_norm_run2\n"+
			"P1,Desc1 GN=G1,G1,500,300\n"+
			"P2,Desc2,,,200\n",
		string(data))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "protmerge_samples_loaded")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config", apperrors.NewConfigError("no input", nil), exitConfig},
		{"validation", apperrors.NewAppValidationError("invalid configuration", errors.New("bad format")), exitConfig},
		{"input shape", apperrors.NewMissingColumnError("run1", "MW_[kDa]"), exitInput},
		{"duplicate sample", apperrors.NewDuplicateSampleError("run_1", "run 1.xlsx", "run-1.xlsx"), exitInput},
		{"parsing", apperrors.NewParsingError("unreadable workbook", nil), exitInput},
		{"storage", apperrors.NewStorageError("upload failed", nil), exitFailure},
		{"wrapped validation", fmt.Errorf("load: %w", apperrors.NewAppValidationError("x", nil)), exitConfig},
		{"plain", errors.New("boom"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestExecuteExitCodes(t *testing.T) {
	t.Run("missing input directory", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := execute([]string{
			"--in", filepath.Join(t.TempDir(), "absent"),
			"--out", filepath.Join(t.TempDir(), "m.xlsx"),
			"--log-level", "error",
		}, &stdout, &stderr)

		assert.Equal(t, exitConfig, code)
		assert.Contains(t, stderr.String(), "protmerge:")
		assert.Empty(t, stdout.String())
	})

	t.Run("invalid format", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := execute([]string{"--format", "parquet", "a.xlsx"}, &stdout, &stderr)
		assert.Equal(t, exitConfig, code)
		assert.Contains(t, stderr.String(), "[VALIDATION] invalid configuration")
	})

	t.Run("invalid workers", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := execute([]string{"--workers", "0", "a.xlsx"}, &stdout, &stderr)
		assert.Equal(t, exitConfig, code)
		assert.Contains(t, stderr.String(), "[VALIDATION]")
	})

	t.Run("missing column", func(t *testing.T) {
		in := t.TempDir()
		testutil.WriteWorkbook(t, filepath.Join(in, "run1.xlsx"),
			[]interface{}{"Accession", "Description", "# PSMs"},
			[]interface{}{"P1", "d", 3})

		var stdout, stderr bytes.Buffer
		code := execute([]string{
			filepath.Join(in, "run1.xlsx"),
			"--out", filepath.Join(t.TempDir(), "m.xlsx"),
			"--log-level", "error",
		}, &stdout, &stderr)
		assert.Equal(t, exitInput, code)
	})
}
