package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/quantcommander/QuantAPI/internal/config"
	"github.com/quantcommander/QuantAPI/internal/query"
)

type RankedRow struct {
	Label string
	Value float64
}

type TopNResult struct {
	Direction query.Direction
	Count     int
	Measure   string
	GroupBy   string //display casing, empty when ungrouped
	Rows      []RankedRow
	Total     float64 //sum of the measure over the whole dataset
}

// TopN ranks rows (or groups, when intent.GroupBy is set) by the dataset's
// primary measure. The parser itself enforces no upper bound on the count,
// so the clamp to config.MaxTopN lives here.
func (d *Dataset) TopN(intent query.ParsedIntent) (*TopNResult, error) {
	measure, ok := d.PrimaryMeasure()
	if !ok {
		return nil, errors.New("dataset has no numeric column to rank by")
	}

	n := intent.Count
	if n > config.MaxTopN {
		n = config.MaxTopN
	}

	var rows []RankedRow
	var err error
	if intent.GroupBy != "" {
		rows, err = d.groupedValues(intent.GroupBy, measure)
		if err != nil {
			return nil, err
		}
	} else {
		rows = d.rowValues(measure)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if intent.Direction == query.Top {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Value < rows[j].Value
	})

	if n > len(rows) {
		n = len(rows)
	}

	var total float64
	for _, r := range rows {
		total += r.Value
	}

	result := &TopNResult{
		Direction: intent.Direction,
		Count:     n,
		Measure:   measure,
		Rows:      rows[:n],
		Total:     total,
	}
	if intent.GroupBy != "" {
		result.GroupBy = d.DisplayName(intent.GroupBy)
	}
	return result, nil
}

func (d *Dataset) rowValues(measure string) []RankedRow {
	labelIdx, hasLabel := d.labelColumn()

	var rows []RankedRow
	for i, row := range d.Rows {
		v, ok := d.amount(row, measure)
		if !ok {
			continue
		}
		label := fmt.Sprintf("row %d", i+1)
		if hasLabel && labelIdx < len(row) {
			label = strings.TrimSpace(row[labelIdx])
		}
		rows = append(rows, RankedRow{Label: label, Value: v})
	}
	return rows
}

func (d *Dataset) groupedValues(groupBy string, measure string) ([]RankedRow, error) {
	if !d.HasColumn(groupBy) {
		return nil, &ColumnError{
			Name:       groupBy,
			Suggestion: ClosestColumn(groupBy, d.Columns),
		}
	}

	sums := make(map[string]float64)
	var order []string //first-seen order keeps ties deterministic
	for _, row := range d.Rows {
		group, ok := d.cell(row, groupBy)
		if !ok {
			continue
		}
		group = strings.TrimSpace(group)
		v, ok := d.amount(row, measure)
		if !ok {
			continue
		}
		if _, seen := sums[group]; !seen {
			order = append(order, group)
		}
		sums[group] += v
	}

	rows := make([]RankedRow, 0, len(order))
	for _, group := range order {
		rows = append(rows, RankedRow{Label: group, Value: sums[group]})
	}
	return rows, nil
}
