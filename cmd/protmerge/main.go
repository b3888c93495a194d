package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"protmerge/internal/app"
	"protmerge/internal/config"
	apperrors "protmerge/internal/errors"
	"protmerge/internal/infrastructure"
	"protmerge/pkg/contracts"
)

// Exit codes by failure kind.
const (
	exitOK = iota
	exitFailure
	exitConfig
	exitInput
)

// flags holds the command line overrides. Only flags the user set are applied.
type flags struct {
	configPath  string
	inDir       string
	out         string
	format      string
	workers     int
	sheet       string
	bom         bool
	logLevel    string
	logOutput   string
	logFile     string
	trace       bool
	metricsFile string
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd, code := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		if *code == exitOK {
			// cobra rejected the command line before RunE
			fmt.Fprintf(stderr, "protmerge: %v\n", err)
			*code = exitConfig
		}
	}
	return *code
}

func newRootCommand(stdout, stderr io.Writer) (*cobra.Command, *int) {
	var f flags
	code := exitOK

	cmd := &cobra.Command{
		Use:   "protmerge [workbook.xlsx ...]",
		Short: "Merge per-run protein workbooks into one comparison table",
		Long: `protmerge reads one protein export workbook per run, computes the
PSM count normalized by molecular weight, merges the runs on protein
accession and writes three views: the whole table, PSM counts and
normalized PSM counts.

Workbooks are taken from the arguments in the order given, or else from
--in in file name order. The first workbook's columns keep their names
except for the shared per-run band; every later run's columns get a
_<run> suffix.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args, f, stdout)
			if err != nil {
				code = exitCode(err)
				fmt.Fprintf(stderr, "protmerge: %v\n", err)
			}
			return err
		},
	}
	cmd.SetVersionTemplate(contracts.GetFullVersionString() + "\n")

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML config file (default protmerge.yaml if present)")
	fs.StringVarP(&f.inDir, "in", "i", "", "directory of input workbooks")
	fs.StringVarP(&f.out, "out", "o", "", "output workbook, csv directory, or s3://bucket/key")
	fs.StringVarP(&f.format, "format", "f", "", "output format: xlsx or csv")
	fs.IntVarP(&f.workers, "workers", "w", 0, "workbooks loaded in parallel")
	fs.StringVar(&f.sheet, "sheet", "", "input sheet name (default first sheet)")
	fs.BoolVar(&f.bom, "bom", false, "prefix csv files with a UTF-8 byte order mark")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.logOutput, "log-output", "", "console, file or both")
	fs.StringVar(&f.logFile, "log-file", "", "log file path")
	fs.BoolVar(&f.trace, "trace", false, "print trace spans to stderr")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	return cmd, &code
}

func run(cmd *cobra.Command, args []string, f flags, stdout io.Writer) error {
	cfg, err := loadConfig(cmd, args, f)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return apperrors.NewConfigError("cannot initialize logging", err)
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	application, err := app.NewApplication(cfg, logger, telemetry)
	if err != nil {
		return err
	}

	report, err := application.Run(cmd.Context())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// loadConfig layers command line flags over the file and environment configuration.
func loadConfig(cmd *cobra.Command, args []string, f flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, apperrors.NewConfigError("cannot load configuration", err)
	}

	changed := cmd.Flags().Changed
	if len(args) > 0 {
		cfg.Input.Files = args
	}
	if changed("in") {
		cfg.Input.Dir = f.inDir
	}
	if changed("out") {
		cfg.Output.Destination = f.out
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("workers") {
		cfg.Input.Workers = f.workers
	}
	if changed("sheet") {
		cfg.Input.Sheet = f.sheet
	}
	if changed("bom") {
		cfg.Output.BOMPrefix = f.bom
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("log-output") {
		cfg.Logging.Output = f.logOutput
	}
	if changed("log-file") {
		cfg.Logging.FilePath = f.logFile
	}
	if changed("trace") {
		cfg.Telemetry.TraceExporter = "none"
		if f.trace {
			cfg.Telemetry.TraceExporter = "stdout"
		}
	}
	if changed("metrics-file") {
		cfg.Telemetry.MetricsFile = f.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewAppValidationError("invalid configuration", err)
	}
	return cfg, nil
}

func exitCode(err error) int {
	switch {
	case apperrors.IsType(err, apperrors.ErrTypeConfig),
		apperrors.IsType(err, apperrors.ErrTypeValidation):
		return exitConfig
	case apperrors.IsType(err, apperrors.ErrTypeInputShape),
		apperrors.IsType(err, apperrors.ErrTypeDuplicateSample),
		apperrors.IsType(err, apperrors.ErrTypeParsing):
		return exitInput
	default:
		return exitFailure
	}
}
