package exporter

import (
	"math"
	"strconv"

	"protmerge/internal/table"
)

// formatFloat renders a number in its shortest round-trip form. NaN renders as
// "" and infinities as "inf" and "-inf", matching how spreadsheets written by
// pandas show them.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatCell renders a value for CSV output; null renders as "".
func formatCell(v table.Value) string {
	switch v.Kind {
	case table.KindNumber:
		return formatFloat(v.Num)
	case table.KindText:
		return v.Text
	default:
		return ""
	}
}

// cellValue is what the workbook stores for v: nil for null and NaN, a string
// for text and infinities, a float64 otherwise.
func cellValue(v table.Value) interface{} {
	switch v.Kind {
	case table.KindNumber:
		if math.IsNaN(v.Num) {
			return nil
		}
		if math.IsInf(v.Num, 0) {
			return formatFloat(v.Num)
		}
		return v.Num
	case table.KindText:
		return v.Text
	default:
		return nil
	}
}
