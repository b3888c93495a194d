package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"protmerge/internal/config"
	"protmerge/internal/dataprocessing"
	apperrors "protmerge/internal/errors"
	"protmerge/internal/exporter"
	"protmerge/internal/files"
	"protmerge/internal/infrastructure"
	"protmerge/pkg/contracts/domain"
)

// Application wires discovery, loading, the merge pipeline and export for one run.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Discovery *files.Discovery
	Processor *dataprocessing.Processor
	Exporter  *exporter.Exporter

	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewApplication creates an application from a validated configuration.
// telemetry may be nil, in which case nothing is traced or measured.
func NewApplication(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry, opts ...exporter.Option) (*Application, error) {
	if cfg == nil {
		return nil, apperrors.NewConfigError("configuration is required", nil)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	a := &Application{
		Config:    cfg,
		Logger:    logger,
		Discovery: files.NewDiscovery("."),
		tracer:    tracenoop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
	}
	if telemetry != nil {
		a.tracer = telemetry.Tracer
		a.metrics = telemetry.Metrics
	}

	a.Processor = dataprocessing.NewProcessor(cfg.Schema, logger,
		dataprocessing.WithTracer(a.tracer),
		dataprocessing.WithMetrics(a.metrics))
	a.Exporter = exporter.New(cfg.Output, logger, opts...)
	return a, nil
}

// Run merges the configured inputs and writes the views. It either writes every
// output or fails; a failed run leaves no partial output behind.
func (a *Application) Run(ctx context.Context) (*domain.RunReport, error) {
	ctx, runID := infrastructure.EnsureRunID(ctx)
	started := time.Now()

	ctx, span := a.tracer.Start(ctx, "protmerge.run", trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	report, err := a.run(ctx, runID, started)
	if err != nil {
		infrastructure.RecordSpanError(span, err)
		a.Logger.ErrorContext(ctx, "merge run failed", slog.String("error", err.Error()))
		return nil, err
	}
	return report, nil
}

func (a *Application) run(ctx context.Context, runID string, started time.Time) (*domain.RunReport, error) {
	inputs, err := a.resolveInputs()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	a.Logger.InfoContext(ctx, "merge run started",
		slog.Int("samples", len(inputs)),
		slog.Any("sample_names", names),
		slog.String("destination", a.Config.Output.Destination),
		slog.String("format", a.Config.Output.Format))

	samples, err := a.loadSamples(ctx, inputs)
	if err != nil {
		return nil, err
	}

	res, err := a.Processor.Process(ctx, samples)
	if err != nil {
		return nil, err
	}

	locations, err := a.Exporter.Export(ctx, res.Views.Ordered())
	if err != nil {
		return nil, err
	}

	nonFinite := make(map[string]int)
	for name, n := range res.NonFinite {
		if n > 0 {
			nonFinite[name] = n
		}
	}

	report := &domain.RunReport{
		RunID:            runID,
		Samples:          names,
		MergedRows:       res.Merged.NumRows(),
		NonFiniteMetrics: nonFinite,
		Destination:      a.Config.Output.Destination,
		Outputs:          locations,
		Format:           a.Config.Output.Format,
		StartedAt:        started,
		Duration:         time.Since(started),
	}

	a.Logger.InfoContext(ctx, "merge run finished",
		slog.Int("merged_rows", report.MergedRows),
		slog.Any("outputs", locations),
		slog.Duration("duration", report.Duration))
	return report, nil
}

// resolveInputs returns the samples to merge: the configured files in the
// order given, or else the workbooks of the input directory in listing order.
func (a *Application) resolveInputs() ([]domain.SampleFile, error) {
	if len(a.Config.Input.Files) > 0 {
		return files.Samples(a.Config.Input.Files)
	}
	if a.Config.Input.Dir == "" {
		return nil, apperrors.NewConfigError("no input: give workbook paths or an input directory", nil)
	}

	samples, err := a.Discovery.DiscoverSamples(a.Config.Input.Dir)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeDuplicateSample) {
			return nil, err
		}
		return nil, apperrors.NewConfigError("cannot list input directory", err).WithContext("dir", a.Config.Input.Dir)
	}
	if len(samples) == 0 {
		return nil, apperrors.NewConfigError(fmt.Sprintf("no workbooks found in %s", a.Config.Input.Dir), nil)
	}
	return samples, nil
}

// loadSamples parses the input workbooks concurrently, keeping input order.
func (a *Application) loadSamples(ctx context.Context, inputs []domain.SampleFile) ([]dataprocessing.Sample, error) {
	ctx, span := a.tracer.Start(ctx, "protmerge.load")
	defer span.End()

	start := time.Now()
	opts := dataprocessing.ParseOptions{
		Sheet:       a.Config.Input.Sheet,
		TextColumns: []string{a.Config.Schema.Accession, a.Config.Schema.Description},
	}

	samples := make([]dataprocessing.Sample, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Config.Input.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := dataprocessing.ParseFile(in.Path, opts)
			if err != nil {
				return err
			}
			samples[i] = dataprocessing.Sample{Name: in.Name, Table: t}
			a.metrics.RecordSampleLoaded(gctx)
			a.Logger.DebugContext(gctx, "sample loaded",
				slog.String("sample", in.Name),
				slog.String("path", in.Path),
				slog.Int("rows", t.NumRows()),
				slog.Int("columns", t.NumCols()))
			return nil
		})
	}
	err := g.Wait()
	a.metrics.RecordStage(ctx, "load", time.Since(start), err)
	if err != nil {
		infrastructure.RecordSpanError(span, err)
		return nil, err
	}
	return samples, nil
}
