package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"protmerge/internal/config"
	"protmerge/internal/infrastructure"
	"protmerge/internal/table"
)

// Processor runs the merge pipeline: metric per sample, merge, gene symbol
// extraction and view projection.
type Processor struct {
	schema  config.SchemaConfig
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithTracer sets the tracer used for stage spans.
func WithTracer(t trace.Tracer) ProcessorOption {
	return func(p *Processor) { p.tracer = t }
}

// WithMetrics sets the instruments stages are recorded on.
func WithMetrics(m *infrastructure.PipelineMetrics) ProcessorOption {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor creates a processor for the given schema.
func NewProcessor(schema config.SchemaConfig, logger *slog.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	p := &Processor{
		schema: schema,
		logger: logger.With(slog.String("component", "processor")),
		tracer: tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process merges samples, in order, and projects the views. Any error aborts
// the run; no partial result is returned.
func (p *Processor) Process(ctx context.Context, samples []Sample) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "protmerge.process",
		trace.WithAttributes(attribute.Int("samples", len(samples))))
	defer span.End()

	if err := checkSampleNames(samples); err != nil {
		infrastructure.RecordSpanError(span, err)
		return nil, err
	}

	nonFinite := make(map[string]int, len(samples))
	withMetric := make([]Sample, len(samples))
	err := p.stage(ctx, "metric", func(ctx context.Context) error {
		for i, s := range samples {
			t, n, err := ComputeMetric(s, p.schema)
			if err != nil {
				return err
			}
			withMetric[i] = Sample{Name: s.Name, Table: t}
			nonFinite[s.Name] = n
			if n > 0 {
				p.logger.WarnContext(ctx, "normalized PSM is not finite for some rows",
					slog.String("sample", s.Name),
					slog.Int("rows", n),
					slog.String("column", p.schema.Metric))
				p.metrics.RecordNonFinite(ctx, s.Name, n)
			}
		}
		return nil
	})
	if err != nil {
		infrastructure.RecordSpanError(span, err)
		return nil, err
	}

	var merged *table.Table
	err = p.stage(ctx, "merge", func(ctx context.Context) error {
		var err error
		merged, err = Merge(withMetric, p.schema)
		return err
	})
	if err != nil {
		infrastructure.RecordSpanError(span, err)
		return nil, err
	}
	p.metrics.RecordMergedRows(ctx, merged.NumRows())

	err = p.stage(ctx, "extract", func(ctx context.Context) error {
		var err error
		merged, err = ExtractGeneSymbols(merged, p.schema)
		return err
	})
	if err != nil {
		infrastructure.RecordSpanError(span, err)
		return nil, err
	}

	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = s.Name
	}
	var views Views
	err = p.stage(ctx, "project", func(ctx context.Context) error {
		var err error
		views, err = Project(merged, names, p.schema)
		return err
	})
	if err != nil {
		infrastructure.RecordSpanError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("merged_rows", merged.NumRows()))
	p.logger.InfoContext(ctx, "merge complete",
		slog.Int("samples", len(samples)),
		slog.Int("rows", merged.NumRows()),
		slog.Int("columns", merged.NumCols()))

	return &Result{Merged: merged, Views: views, NonFinite: nonFinite}, nil
}

// stage runs fn inside a child span and records its duration.
func (p *Processor) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.tracer.Start(ctx, "protmerge."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	p.metrics.RecordStage(ctx, name, duration, err)
	infrastructure.RecordSpanError(span, err)

	p.logger.DebugContext(ctx, "stage finished",
		slog.String("stage", name),
		slog.Duration("duration", duration),
		slog.Bool("success", err == nil))
	return err
}
