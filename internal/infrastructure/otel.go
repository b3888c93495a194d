package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"protmerge/internal/config"
)

// InstrumentationName names the tracer and meter used by the pipeline.
const InstrumentationName = "protmerge"

// Telemetry holds the tracing and metrics providers for one process.
//
// Traces go to the stdout exporter or nowhere. Metrics are always collected
// into a private Prometheus registry; when a metrics file is configured the
// registry is written there in text exposition format on Flush.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider // nil when tracing is off
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *prometheus.Registry
	Metrics        *PipelineMetrics

	metricsFile string
	logger      *slog.Logger
}

// InitializeTelemetry builds providers from cfg. Spans are written to traceOut
// when cfg.TraceExporter is "stdout".
func InitializeTelemetry(cfg config.TelemetryConfig, logger *slog.Logger, traceOut io.Writer) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	t := &Telemetry{
		Registry:    prometheus.NewRegistry(),
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	switch cfg.TraceExporter {
	case "stdout":
		if traceOut == nil {
			traceOut = os.Stderr
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(traceOut), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.TracerProvider.Tracer(InstrumentationName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		t.Tracer = tracenoop.NewTracerProvider().Tracer(InstrumentationName)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry), otelprom.WithoutScopeInfo())
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(InstrumentationName, metric.WithInstrumentationVersion(config.AppVersion))

	t.Metrics, err = CreatePipelineMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.Debug("telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// Flush writes the current metrics to the configured metrics file. It is a
// no-op when no file is configured.
func (t *Telemetry) Flush() error {
	if t.metricsFile == "" {
		return nil
	}
	if dir := filepath.Dir(t.metricsFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory %s: %w", dir, err)
		}
	}
	if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// Shutdown flushes metrics and shuts down the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if err := t.Flush(); err != nil {
		errs = append(errs, err)
	}
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PipelineMetrics contains the merge pipeline's instruments. A nil
// *PipelineMetrics records nothing.
type PipelineMetrics struct {
	SamplesLoaded    metric.Int64Counter
	MergedRows       metric.Int64Gauge
	NonFiniteMetrics metric.Int64Counter
	StageDuration    metric.Float64Histogram
	StageErrors      metric.Int64Counter
}

// CreatePipelineMetrics registers the pipeline instruments on meter.
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	samplesLoaded, err := meter.Int64Counter(
		"protmerge_samples_loaded",
		metric.WithDescription("Sample workbooks loaded"),
	)
	if err != nil {
		return nil, err
	}

	mergedRows, err := meter.Int64Gauge(
		"protmerge_merged_rows",
		metric.WithDescription("Rows in the most recent merged table"),
	)
	if err != nil {
		return nil, err
	}

	nonFinite, err := meter.Int64Counter(
		"protmerge_nonfinite_metric_values",
		metric.WithDescription("Normalized PSM values that are infinite or NaN"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"protmerge_stage_duration_seconds",
		metric.WithDescription("Duration of pipeline stages"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageErrors, err := meter.Int64Counter(
		"protmerge_stage_errors",
		metric.WithDescription("Pipeline stages that failed"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		SamplesLoaded:    samplesLoaded,
		MergedRows:       mergedRows,
		NonFiniteMetrics: nonFinite,
		StageDuration:    stageDuration,
		StageErrors:      stageErrors,
	}, nil
}

// RecordSampleLoaded counts one loaded sample.
func (m *PipelineMetrics) RecordSampleLoaded(ctx context.Context) {
	if m == nil {
		return
	}
	m.SamplesLoaded.Add(ctx, 1)
}

// RecordMergedRows records the merged table's row count.
func (m *PipelineMetrics) RecordMergedRows(ctx context.Context, rows int) {
	if m == nil {
		return
	}
	m.MergedRows.Record(ctx, int64(rows))
}

// RecordNonFinite counts non-finite metric values for a sample.
func (m *PipelineMetrics) RecordNonFinite(ctx context.Context, sample string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.NonFiniteMetrics.Add(ctx, int64(n), metric.WithAttributes(attribute.String("sample", sample)))
}

// RecordStage records a stage's duration and, on failure, an error count.
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		m.StageErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordSpanError marks span as failed with err.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
