// Package viz recommends a chart type for a result set and shapes the data
// behind it. Recommendations are rule-based and deterministic; a language
// model may suggest a chart, but anything outside the closed set here falls
// back to the rules.
package viz

import "strings"

// ChartType is the closed set of renderable charts.
type ChartType string

const (
	Bar     ChartType = "bar"
	Line    ChartType = "line"
	Pie     ChartType = "pie"
	Scatter ChartType = "scatter"
	Table   ChartType = "table"
)

// Valid reports whether s names a known chart type.
func Valid(s string) bool {
	switch ChartType(s) {
	case Bar, Line, Pie, Scatter, Table:
		return true
	}
	return false
}

// Recommendation is a chart choice with its reason.
type Recommendation struct {
	Chart  ChartType `json:"recommended_chart"`
	Reason string    `json:"reason"`
}

type columnClass int

const (
	classCategorical columnClass = iota
	classNumeric
	classDatetime
)

// classify buckets a type tag by substring so raw driver names work as well
// as normalized tags. Datetime wins when a tag matches both buckets.
func classify(dataType string) columnClass {
	t := strings.ToLower(dataType)
	switch {
	case strings.Contains(t, "date"), strings.Contains(t, "time"):
		return classDatetime
	case strings.Contains(t, "int"), strings.Contains(t, "float"), strings.Contains(t, "numeric"):
		return classNumeric
	default:
		return classCategorical
	}
}

// Recommend picks a chart for a result set. dataTypes runs parallel to
// columns; rowCount is the number of data rows.
func Recommend(columns []string, dataTypes []string, rowCount int) Recommendation {
	if rowCount == 0 {
		return Recommendation{Chart: Table, Reason: "No data available"}
	}

	var numeric, categorical, datetime int
	for i := range columns {
		dt := ""
		if i < len(dataTypes) {
			dt = dataTypes[i]
		}
		switch classify(dt) {
		case classNumeric:
			numeric++
		case classDatetime:
			datetime++
		default:
			categorical++
		}
	}

	if len(columns) == 2 {
		switch {
		case numeric == 2:
			return Recommendation{Chart: Scatter, Reason: "Two numeric columns for correlation analysis"}
		case categorical == 1 && numeric == 1:
			return Recommendation{Chart: Bar, Reason: "Categorical vs numeric data"}
		case categorical == 2:
			return Recommendation{Chart: Table, Reason: "Two categorical columns"}
		}
	}

	if len(columns) == 1 {
		if numeric == 1 {
			return Recommendation{Chart: Bar, Reason: "Single numeric column"}
		}
		return Recommendation{Chart: Pie, Reason: "Single categorical column"}
	}

	if datetime >= 1 && numeric >= 1 {
		return Recommendation{Chart: Line, Reason: "Time series data detected"}
	}
	if categorical >= 1 && numeric >= 1 {
		return Recommendation{Chart: Bar, Reason: "Categorical and numeric data"}
	}
	return Recommendation{Chart: Table, Reason: "Complex data structure"}
}
