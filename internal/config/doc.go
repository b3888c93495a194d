// Package config provides centralized configuration management for protmerge.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is layered in the following order, later sources winning:
//
//  1. Default values (Default)
//  2. YAML configuration file (explicit path, protmerge.yaml or configs/protmerge.yaml)
//  3. Environment variables (PROTMERGE_*)
//  4. Command-line flags, applied by cmd/protmerge
//
// # Environment Variables
//
// Environment variables are namespaced by section:
//
//	PROTMERGE_LOGGING_LEVEL=debug
//	PROTMERGE_INPUT_DIR=/data/runs
//	PROTMERGE_INPUT_WORKERS=8
//	PROTMERGE_OUTPUT_DESTINATION=s3://lab-results/merged.xlsx
//	PROTMERGE_OUTPUT_FORMAT=csv
//	PROTMERGE_SCHEMA_PSM_COUNT=#_PSMs
//	PROTMERGE_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/protmerge.prom
//
// # Column Schema
//
// SchemaConfig names the columns the merge reads. The defaults match a Proteome
// Discoverer protein export; SharedBand is the ordered list of per-sample columns
// that receive the first sample's suffix after merging.
//
// # Validation
//
// Validate enforces the struct tags with go-playground/validator. Call it again after
// applying flag overrides.
package config
