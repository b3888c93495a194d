package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	apperrors "protmerge/internal/errors"
	"protmerge/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// isSeparator reports whether header and sample-name normalization turn r into
// an underscore: any Unicode whitespace, or a hyphen.
func isSeparator(r rune) bool {
	return r == '-' || unicode.IsSpace(r)
}

// Normalize replaces every whitespace character and hyphen with an underscore.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return '_'
		}
		return r
	}, s)
}

// SampleName derives a sample name from a workbook path: the base name without
// its extension, normalized.
func SampleName(path string) string {
	base := filepath.Base(path)
	return Normalize(strings.TrimSuffix(base, filepath.Ext(base)))
}

// isWorkbook reports whether name looks like a workbook excelize can open.
// Office lock files (~$name.xlsx) are skipped.
func isWorkbook(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// FindExcelFiles finds all workbooks in the specified directory, in directory
// listing (lexical) order. That order decides which sample is first in a merge.
func (d *Discovery) FindExcelFiles(dir string) ([]FileInfo, error) {
	// If dir is already absolute, use it directly
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !isWorkbook(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// Samples pairs each path with its sample name, keeping the given order.
// Two paths that normalize to the same name are rejected.
func Samples(paths []string) ([]domain.SampleFile, error) {
	seen := make(map[string]string, len(paths))
	samples := make([]domain.SampleFile, 0, len(paths))
	for _, p := range paths {
		name := SampleName(p)
		if prev, dup := seen[name]; dup {
			return nil, apperrors.NewDuplicateSampleError(name, prev, p)
		}
		seen[name] = p
		samples = append(samples, domain.SampleFile{Name: name, Path: p})
	}
	return samples, nil
}

// DiscoverSamples lists the workbooks in dir and names them.
func (d *Discovery) DiscoverSamples(dir string) ([]domain.SampleFile, error) {
	found, err := d.FindExcelFiles(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.Path
	}
	return Samples(paths)
}
