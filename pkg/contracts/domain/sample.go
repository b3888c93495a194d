package domain

// SampleFile is one input workbook paired with the sample name derived from it.
type SampleFile struct {
	Name string `json:"name" validate:"required"`
	Path string `json:"path" validate:"required"`
}

// ViewName identifies one of the projections written for a merge.
type ViewName string

const (
	ViewWholeTable    ViewName = "Whole table"
	ViewPSM           ViewName = "PSM"
	ViewPSMNormalized ViewName = "PSM normalized"
)

// ViewOrder is the order views are written in.
var ViewOrder = []ViewName{ViewWholeTable, ViewPSM, ViewPSMNormalized}

// Slug returns a file-name friendly form of the view name, e.g. "psm_normalized".
func (v ViewName) Slug() string {
	switch v {
	case ViewWholeTable:
		return "whole_table"
	case ViewPSM:
		return "psm"
	case ViewPSMNormalized:
		return "psm_normalized"
	default:
		return string(v)
	}
}
