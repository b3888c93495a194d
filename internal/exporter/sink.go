package exporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"protmerge/internal/config"
	apperrors "protmerge/internal/errors"
)

// Sink stores named output objects under one root.
type Sink interface {
	// Put stores body as name. An object is either fully written or not at all.
	Put(ctx context.Context, name string, body io.Reader) error
	// Delete removes name. Removing an object that does not exist is not an error.
	Delete(ctx context.Context, name string) error
	// Location describes where name is stored, for logs and reports.
	Location(name string) string
}

// NewSink returns the sink for root: an S3 sink for s3://bucket[/prefix], a
// directory sink otherwise.
func NewSink(ctx context.Context, root string, s3cfg config.S3Config) (Sink, error) {
	if bucket, prefix, ok := ParseS3URL(root); ok {
		return NewS3Sink(ctx, bucket, prefix, s3cfg)
	}
	return &FileSink{Dir: root}, nil
}

// SplitDestination splits a file destination into its sink root and object name.
func SplitDestination(destination string) (root, name string) {
	if bucket, key, ok := ParseS3URL(destination); ok {
		dir, file := path.Split(key)
		return "s3://" + path.Join(bucket, dir), file
	}
	return filepath.Dir(destination), filepath.Base(destination)
}

// FileSink writes objects as files in Dir, creating it when needed.
type FileSink struct {
	Dir string
}

// Put writes body to a temporary file next to the target and renames it into place.
func (s *FileSink) Put(ctx context.Context, name string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).WithContext("dir", s.Dir)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+name+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("failed to create temporary file", err).WithContext("dir", s.Dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to write output", err).WithContext("path", s.Location(name))
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to close output", err).WithContext("path", s.Location(name))
	}
	if err := os.Rename(tmp.Name(), s.Location(name)); err != nil {
		return apperrors.NewStorageError("failed to move output into place", err).WithContext("path", s.Location(name))
	}
	return nil
}

// Delete removes the file for name.
func (s *FileSink) Delete(_ context.Context, name string) error {
	if err := os.Remove(s.Location(name)); err != nil && !os.IsNotExist(err) {
		return apperrors.NewStorageError("failed to remove output", err).WithContext("path", s.Location(name))
	}
	return nil
}

// Location returns the file path for name.
func (s *FileSink) Location(name string) string {
	return filepath.Join(s.Dir, name)
}

// ParseS3URL splits s3://bucket/key into bucket and key. ok is false for
// anything else, including a URL with no bucket.
func ParseS3URL(u string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(u, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", false
	}
	return bucket, strings.Trim(key, "/"), true
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", prefix, name)
}
