package config

import "protmerge/pkg/contracts"

// Application constants
const (
	AppName    = "protmerge"
	AppVersion = contracts.Version

	// EnvPrefix namespaces environment overrides, e.g. PROTMERGE_OUTPUT_FORMAT=csv.
	EnvPrefix = "PROTMERGE"

	DefaultWorkers     = 4
	DefaultDestination = "merged_proteins.xlsx"
	DefaultLogFile     = "logs/protmerge.log"
)

// Column names of a Proteome Discoverer protein table once headers are normalized
// (whitespace and hyphens replaced by underscores).
const (
	ColumnAccession        = "Accession"
	ColumnDescription      = "Description"
	ColumnCoverage         = "Coverage_[%]"
	ColumnPeptides         = "#_Peptides"
	ColumnPSMs             = "#_PSMs"
	ColumnUniquePeptides   = "#_Unique_Peptides"
	ColumnAAs              = "#_AAs"
	ColumnMolecularWeight  = "MW_[kDa]"
	ColumnPI               = "calc._pI"
	ColumnScore            = "Score_Sequest_HT:_Sequest_HT"
	ColumnPeptidesByEngine = "#_Peptides_(by_Search_Engine):_Sequest_HT"

	// Columns added by the pipeline.
	ColumnPSMNorm    = "psm_mw_norm"
	ColumnGeneSymbol = "gene_symbol"
	LabelGeneSymbol  = "Gene Symbol"
)

// DefaultSharedBand is the coverage-to-peptides-by-engine run of per-sample columns,
// in export order.
var DefaultSharedBand = []string{
	ColumnCoverage,
	ColumnPeptides,
	ColumnPSMs,
	ColumnUniquePeptides,
	ColumnAAs,
	ColumnMolecularWeight,
	ColumnPI,
	ColumnScore,
	ColumnPeptidesByEngine,
}
