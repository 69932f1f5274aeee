package analysis

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/quantcommander/QuantAPI/internal/dataset"
)

const noDatasetAnswer = "No dataset is loaded for this chat yet. Upload a CSV through the dataset endpoint and ask again."

var varianceQuery = regexp.MustCompile(`\bvariance\b(?:\s+by\s+(\w+))?`)

// isVarianceQuery detects "variance" requests with an optional
// "by <column>" grouping, the same shape the top/bottom parser accepts.
func isVarianceQuery(message string) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(message))
	m := varianceQuery.FindStringSubmatch(lowered)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func columnSuggestionAnswer(colErr *dataset.ColumnError) string {
	if colErr.Suggestion != "" {
		return fmt.Sprintf("There is no column named %q in the loaded dataset. Did you mean %q?", colErr.Name, colErr.Suggestion)
	}
	return fmt.Sprintf("There is no column named %q in the loaded dataset.", colErr.Name)
}

func formatTopN(d *dataset.Dataset, r *dataset.TopNResult) string {
	var b strings.Builder

	subject := "rows"
	if r.GroupBy != "" {
		subject = r.GroupBy
	}
	fmt.Fprintf(&b, "%s %d %s by %s in %s:\n", r.Direction, r.Count, subject, r.Measure, d.Name)

	for i, row := range r.Rows {
		fmt.Fprintf(&b, "%d. %s: %.2f\n", i+1, row.Label, row.Value)
	}
	fmt.Fprintf(&b, "Total %s across the dataset: %.2f", r.Measure, r.Total)
	return b.String()
}

func formatVariance(d *dataset.Dataset, r *dataset.VarianceResult) string {
	var b strings.Builder

	if r.GroupBy != "" {
		fmt.Fprintf(&b, "Variance of %s vs %s by %s in %s:\n", r.ActualColumn, r.PlannedColumn, r.GroupBy, d.Name)
	} else {
		fmt.Fprintf(&b, "Variance of %s vs %s in %s:\n", r.ActualColumn, r.PlannedColumn, d.Name)
	}

	for _, row := range r.Rows {
		pct := "n/a"
		if !math.IsNaN(row.Percent) {
			pct = fmt.Sprintf("%+.1f%%", row.Percent)
		}
		fmt.Fprintf(&b, "%s: actual %.2f, plan %.2f, delta %+.2f (%s)\n", row.Label, row.Actual, row.Planned, row.Delta, pct)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDatasetSummary(d *dataset.Dataset) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Loaded dataset %q: %d rows, %d columns (%s).", d.Name, len(d.Rows), len(d.Columns), strings.Join(d.Columns, ", "))
	if numeric := d.NumericColumns(); len(numeric) > 0 {
		fmt.Fprintf(&b, " Numeric columns: %s.", strings.Join(numeric, ", "))
	}
	if measure, ok := d.PrimaryMeasure(); ok {
		fmt.Fprintf(&b, " Rankings will use %q unless you say otherwise.", measure)
	}
	return b.String()
}
