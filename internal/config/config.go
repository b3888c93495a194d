package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Schema    SchemaConfig    `yaml:"schema" envconfig:"SCHEMA"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level     string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output    string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath  string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	AddSource bool   `yaml:"add_source" envconfig:"ADD_SOURCE"`
}

// InputConfig selects the per-run workbooks to merge. Files, when given, win over Dir
// and keep the order they were listed in.
type InputConfig struct {
	Dir     string   `yaml:"dir" envconfig:"DIR"`
	Files   []string `yaml:"files" envconfig:"FILES"`
	Sheet   string   `yaml:"sheet" envconfig:"SHEET"`
	Workers int      `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
}

// OutputConfig controls where and how the three views are written.
// Destination is a local path or an s3://bucket/key URL.
type OutputConfig struct {
	Destination string   `yaml:"destination" envconfig:"DESTINATION" validate:"required"`
	Format      string   `yaml:"format" envconfig:"FORMAT" validate:"oneof=xlsx csv"`
	BOMPrefix   bool     `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
	S3          S3Config `yaml:"s3" envconfig:"S3"`
}

// S3Config tunes the client used for s3:// destinations. Credentials come from
// the default AWS chain (AWS_ACCESS_KEY_ID, shared config, instance roles).
type S3Config struct {
	Region    string `yaml:"region" envconfig:"REGION"`
	Endpoint  string `yaml:"endpoint" envconfig:"ENDPOINT" validate:"omitempty,url"`
	PathStyle bool   `yaml:"path_style" envconfig:"PATH_STYLE"`
}

// SchemaConfig names the columns the merge reads, after header normalization.
type SchemaConfig struct {
	Accession       string `yaml:"accession" envconfig:"ACCESSION" validate:"required"`
	Description     string `yaml:"description" envconfig:"DESCRIPTION" validate:"required"`
	PSMCount        string `yaml:"psm_count" envconfig:"PSM_COUNT" validate:"required"`
	MolecularWeight string `yaml:"molecular_weight" envconfig:"MOLECULAR_WEIGHT" validate:"required"`
	Metric          string `yaml:"metric" envconfig:"METRIC" validate:"required"`
	GeneSymbol      string `yaml:"gene_symbol" envconfig:"GENE_SYMBOL" validate:"required"`
	GeneSymbolLabel string `yaml:"gene_symbol_label" envconfig:"GENE_SYMBOL_LABEL" validate:"required"`
	// SharedBand lists, in order, the per-sample columns whose first-sample
	// instance is renamed with the first sample's suffix after merging.
	SharedBand []string `yaml:"shared_band" envconfig:"SHARED_BAND" validate:"required,min=1,dive,required"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, then the YAML file (if any), then
// PROTMERGE_* environment variables. configPath may be empty.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	// Load from config file if exists
	configFile := configPath
	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables take precedence over the file
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes logging settings.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Output.Format = strings.ToLower(c.Output.Format)

	if err := validate.Struct(c); err != nil {
		return err
	}

	if strings.HasPrefix(c.Output.Destination, "s3://") && strings.TrimPrefix(c.Output.Destination, "s3://") == "" {
		return fmt.Errorf("output destination %q has no bucket", c.Output.Destination)
	}
	return nil
}

var validate = validator.New()

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"protmerge.yaml",
		"configs/protmerge.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Input: InputConfig{
			Workers: DefaultWorkers,
		},
		Output: OutputConfig{
			Destination: DefaultDestination,
			Format:      "xlsx",
		},
		Schema: DefaultSchema(),
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
		},
	}
}

// DefaultSchema returns the column names of a Proteome Discoverer protein export
// after header normalization.
func DefaultSchema() SchemaConfig {
	band := make([]string, len(DefaultSharedBand))
	copy(band, DefaultSharedBand)
	return SchemaConfig{
		Accession:       ColumnAccession,
		Description:     ColumnDescription,
		PSMCount:        ColumnPSMs,
		MolecularWeight: ColumnMolecularWeight,
		Metric:          ColumnPSMNorm,
		GeneSymbol:      ColumnGeneSymbol,
		GeneSymbolLabel: LabelGeneSymbol,
		SharedBand:      band,
	}
}
