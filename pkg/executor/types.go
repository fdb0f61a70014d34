package executor

import "strings"

// NormalizeType collapses driver-specific type names into the small set of
// tags the rest of the pipeline classifies on: int64, float64, bool,
// datetime64, object. Matching is by substring so both "INT4" and "bigint"
// land on int64 without a per-driver table.
func NormalizeType(driverType string) string {
	t := strings.ToLower(driverType)

	switch {
	case strings.Contains(t, "bool"):
		return "bool"
	case strings.Contains(t, "date"), strings.Contains(t, "time"):
		return "datetime64"
	case strings.Contains(t, "int"):
		return "int64"
	case strings.Contains(t, "float"), strings.Contains(t, "real"),
		strings.Contains(t, "numeric"), strings.Contains(t, "decimal"),
		strings.Contains(t, "double"), strings.Contains(t, "money"):
		return "float64"
	default:
		return "object"
	}
}
