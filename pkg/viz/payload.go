package viz

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Payload is the renderable form of one chart. For Table no payload is
// produced; the caller renders the result set directly.
type Payload struct {
	Type   ChartType `json:"chart_type"`
	Title  string    `json:"title"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	X      []any     `json:"x"`
	Y      []float64 `json:"y"`
}

// BuildPayload shapes rows into the series a chart of the given type needs.
// Bar charts over a categorical and a numeric column aggregate by category;
// bar and pie charts of a lone categorical column count occurrences; line
// charts sort by the datetime column ascending.
func BuildPayload(chart ChartType, title string, columns []string, dataTypes []string, rows [][]any) (*Payload, error) {
	if chart == Table {
		return nil, nil
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data to chart")
	}

	classes := make([]columnClass, len(columns))
	for i := range columns {
		dt := ""
		if i < len(dataTypes) {
			dt = dataTypes[i]
		}
		classes[i] = classify(dt)
	}

	switch chart {
	case Bar:
		return buildBar(title, columns, classes, rows)
	case Pie:
		return buildCounts(Pie, title, columns, classes, rows)
	case Line:
		return buildLine(title, columns, classes, rows)
	case Scatter:
		return buildScatter(title, columns, classes, rows)
	default:
		return nil, fmt.Errorf("unsupported chart type: %s", chart)
	}
}

func buildBar(title string, columns []string, classes []columnClass, rows [][]any) (*Payload, error) {
	catIdx, numIdx := -1, -1
	for i, class := range classes {
		switch class {
		case classNumeric:
			numIdx = i
		case classCategorical:
			catIdx = i
		}
	}

	if catIdx < 0 || numIdx < 0 {
		return buildCounts(Bar, title, columns, classes, rows)
	}

	// Sum the numeric column per category, categories sorted.
	sums := make(map[string]float64)
	for _, row := range rows {
		label := labelString(row[catIdx])
		sums[label] += toFloat(row[numIdx])
	}
	labels := make([]string, 0, len(sums))
	for label := range sums {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	p := &Payload{Type: Bar, Title: title, XLabel: columns[catIdx], YLabel: columns[numIdx]}
	for _, label := range labels {
		p.X = append(p.X, label)
		p.Y = append(p.Y, sums[label])
	}
	return p, nil
}

// buildCounts produces occurrence counts of the first categorical column,
// most frequent first. Used for pie charts and bar charts with no numeric
// column.
func buildCounts(chart ChartType, title string, columns []string, classes []columnClass, rows [][]any) (*Payload, error) {
	idx := 0
	for i, class := range classes {
		if class == classCategorical {
			idx = i
			break
		}
	}

	counts := make(map[string]float64)
	var order []string
	for _, row := range rows {
		label := labelString(row[idx])
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	p := &Payload{Type: chart, Title: title, XLabel: columns[idx], YLabel: "count"}
	for _, label := range order {
		p.X = append(p.X, label)
		p.Y = append(p.Y, counts[label])
	}
	return p, nil
}

func buildLine(title string, columns []string, classes []columnClass, rows [][]any) (*Payload, error) {
	dtIdx, numIdx := -1, -1
	for i, class := range classes {
		switch class {
		case classDatetime:
			if dtIdx < 0 {
				dtIdx = i
			}
		case classNumeric:
			if numIdx < 0 {
				numIdx = i
			}
		}
	}
	if numIdx < 0 {
		return nil, fmt.Errorf("line chart needs a numeric column")
	}

	p := &Payload{Type: Line, Title: title, YLabel: columns[numIdx]}
	if dtIdx < 0 {
		// No time axis; plot the numeric column in row order.
		p.XLabel = "index"
		for i, row := range rows {
			p.X = append(p.X, i)
			p.Y = append(p.Y, toFloat(row[numIdx]))
		}
		return p, nil
	}

	sorted := make([][]any, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timeKey(sorted[i][dtIdx]).Before(timeKey(sorted[j][dtIdx]))
	})

	p.XLabel = columns[dtIdx]
	for _, row := range sorted {
		p.X = append(p.X, labelString(row[dtIdx]))
		p.Y = append(p.Y, toFloat(row[numIdx]))
	}
	return p, nil
}

func buildScatter(title string, columns []string, classes []columnClass, rows [][]any) (*Payload, error) {
	xIdx, yIdx := -1, -1
	for i, class := range classes {
		if class != classNumeric {
			continue
		}
		if xIdx < 0 {
			xIdx = i
		} else if yIdx < 0 {
			yIdx = i
		}
	}
	if xIdx < 0 || yIdx < 0 {
		return nil, fmt.Errorf("scatter chart needs two numeric columns")
	}

	p := &Payload{Type: Scatter, Title: title, XLabel: columns[xIdx], YLabel: columns[yIdx]}
	for _, row := range rows {
		p.X = append(p.X, toFloat(row[xIdx]))
		p.Y = append(p.Y, toFloat(row[yIdx]))
	}
	return p, nil
}

func labelString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(t), 64)
		return f
	default:
		return 0
	}
}

// timeKey parses v as a point in time for sorting. Unparseable values sort
// to the zero time.
func timeKey(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts
			}
		}
	}
	return time.Time{}
}
