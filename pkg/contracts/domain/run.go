package domain

import "time"

// RunReport summarizes a completed merge run.
type RunReport struct {
	RunID            string         `json:"run_id"`
	Samples          []string       `json:"samples"`
	MergedRows       int            `json:"merged_rows"`
	NonFiniteMetrics map[string]int `json:"non_finite_metrics,omitempty"`
	Destination      string         `json:"destination"`
	Outputs          []string       `json:"outputs"`
	Format           string         `json:"format"`
	StartedAt        time.Time      `json:"started_at"`
	Duration         time.Duration  `json:"duration"`
}
