package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"protmerge/internal/config"
	"protmerge/internal/dataprocessing"
	apperrors "protmerge/internal/errors"
)

// SinkFactory opens the sink for a root location.
type SinkFactory func(ctx context.Context, root string) (Sink, error)

// Exporter writes a run's views to the configured destination and format.
type Exporter struct {
	cfg      config.OutputConfig
	logger   *slog.Logger
	newSink  SinkFactory
	workbook *WorkbookWriter
	csv      *CSVWriter
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithSinkFactory replaces how sinks are opened.
func WithSinkFactory(f SinkFactory) Option {
	return func(e *Exporter) { e.newSink = f }
}

// New creates an exporter for cfg.
func New(cfg config.OutputConfig, logger *slog.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Exporter{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "exporter")),
		workbook: NewWorkbookWriter(),
		csv:      NewCSVWriter(cfg.BOMPrefix),
	}
	e.newSink = func(ctx context.Context, root string) (Sink, error) {
		return NewSink(ctx, root, cfg.S3)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes views and returns the locations written.
//
// In xlsx format the destination is the workbook itself and each view is a
// sheet. In csv format the destination is a directory (or s3:// prefix) that
// receives one file per view.
func (e *Exporter) Export(ctx context.Context, views []dataprocessing.View) ([]string, error) {
	switch e.cfg.Format {
	case "xlsx", "":
		root, name := SplitDestination(e.cfg.Destination)
		sink, err := e.newSink(ctx, root)
		if err != nil {
			return nil, err
		}
		if err := e.workbook.Write(ctx, sink, name, views); err != nil {
			return nil, err
		}
		loc := sink.Location(name)
		e.logger.InfoContext(ctx, "workbook written",
			slog.String("location", loc),
			slog.Int("sheets", len(views)))
		return []string{loc}, nil

	case "csv":
		sink, err := e.newSink(ctx, e.cfg.Destination)
		if err != nil {
			return nil, err
		}
		if err := e.csv.Write(ctx, sink, views); err != nil {
			return nil, err
		}
		locs := make([]string, len(views))
		for i, v := range views {
			locs[i] = sink.Location(CSVName(v))
		}
		e.logger.InfoContext(ctx, "csv files written",
			slog.String("destination", e.cfg.Destination),
			slog.Int("files", len(locs)))
		return locs, nil

	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported output format %q", e.cfg.Format), nil)
	}
}
