package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

type VarianceRow struct {
	Label   string
	Actual  float64
	Planned float64
	Delta   float64
	Percent float64 //NaN when the plan is zero
}

type VarianceResult struct {
	ActualColumn  string
	PlannedColumn string
	GroupBy       string
	Rows          []VarianceRow
}

var (
	actualNames  = []string{"actual", "actuals"}
	plannedNames = []string{"budget", "plan", "planned", "forecast"}
)

// Variance compares an actuals column against a plan/budget column, per row
// or summed per group. It only works on datasets that carry a recognizable
// pair of columns; anything else is reported so the chat layer can tell the
// user what the dataset is missing.
func (d *Dataset) Variance(groupBy string) (*VarianceResult, error) {
	actualCol, ok := d.findNumericColumn(actualNames)
	if !ok {
		return nil, errors.New("dataset has no actuals column (looked for: actual, actuals)")
	}
	plannedCol, ok := d.findNumericColumn(plannedNames)
	if !ok {
		return nil, errors.New("dataset has no plan column (looked for: budget, plan, planned, forecast)")
	}

	result := &VarianceResult{
		ActualColumn:  d.DisplayName(actualCol),
		PlannedColumn: d.DisplayName(plannedCol),
	}

	if groupBy != "" {
		if !d.HasColumn(groupBy) {
			return nil, &ColumnError{Name: groupBy, Suggestion: ClosestColumn(groupBy, d.Columns)}
		}
		result.GroupBy = d.DisplayName(groupBy)
		result.Rows = d.groupedVariance(groupBy, actualCol, plannedCol)
		return result, nil
	}

	labelIdx, hasLabel := d.labelColumn()
	for i, row := range d.Rows {
		actual, okA := d.amount(row, actualCol)
		planned, okP := d.amount(row, plannedCol)
		if !okA || !okP {
			continue
		}
		label := fmt.Sprintf("row %d", i+1)
		if hasLabel && labelIdx < len(row) {
			label = strings.TrimSpace(row[labelIdx])
		}
		result.Rows = append(result.Rows, varianceRow(label, actual, planned))
	}
	return result, nil
}

func (d *Dataset) groupedVariance(groupBy, actualCol, plannedCol string) []VarianceRow {
	type pair struct{ actual, planned float64 }
	sums := make(map[string]*pair)
	var order []string

	for _, row := range d.Rows {
		group, ok := d.cell(row, groupBy)
		if !ok {
			continue
		}
		group = strings.TrimSpace(group)
		actual, okA := d.amount(row, actualCol)
		planned, okP := d.amount(row, plannedCol)
		if !okA || !okP {
			continue
		}
		p, seen := sums[group]
		if !seen {
			p = &pair{}
			sums[group] = p
			order = append(order, group)
		}
		p.actual += actual
		p.planned += planned
	}

	rows := make([]VarianceRow, 0, len(order))
	for _, group := range order {
		p := sums[group]
		rows = append(rows, varianceRow(group, p.actual, p.planned))
	}
	return rows
}

func varianceRow(label string, actual, planned float64) VarianceRow {
	row := VarianceRow{
		Label:   label,
		Actual:  actual,
		Planned: planned,
		Delta:   actual - planned,
		Percent: math.NaN(),
	}
	if planned != 0 {
		row.Percent = (actual - planned) / math.Abs(planned) * 100
	}
	return row
}

func (d *Dataset) findNumericColumn(candidates []string) (string, bool) {
	for _, name := range candidates {
		if d.HasColumn(name) && d.numericCol[name] {
			return name, true
		}
	}
	return "", false
}
