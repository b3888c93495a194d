package dataprocessing

import (
	"protmerge/internal/table"
	"protmerge/pkg/contracts/domain"
)

// Sample is one run's protein table together with its sample name.
type Sample struct {
	Name  string
	Table *table.Table
}

// Views holds the three projections of a merge. They share row count and order.
type Views struct {
	WholeTable    *table.Table
	PSM           *table.Table
	PSMNormalized *table.Table
}

// View is a named projection, ready to be written.
type View struct {
	Name  domain.ViewName
	Table *table.Table
}

// Ordered returns the views in the order they are written.
func (v Views) Ordered() []View {
	return []View{
		{Name: domain.ViewWholeTable, Table: v.WholeTable},
		{Name: domain.ViewPSM, Table: v.PSM},
		{Name: domain.ViewPSMNormalized, Table: v.PSMNormalized},
	}
}

// Result is everything Process produces.
type Result struct {
	// Merged is the merged table with the gene symbol column added.
	Merged *table.Table
	Views  Views
	// NonFinite counts, per sample, rows whose normalized PSM value is infinite or NaN.
	NonFinite map[string]int
}
