package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var ErrNoDataset = errors.New("no dataset loaded for this chat")

// ColumnError reports a grouping column that does not exist in the dataset,
// optionally carrying the closest-named real column so the chat layer can
// answer with a suggestion instead of a bare failure.
type ColumnError struct {
	Name       string
	Suggestion string
}

func (e *ColumnError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("column %q not found, did you mean %q", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("column %q not found", e.Name)
}

// Dataset is an immutable in-memory view of one uploaded CSV. Column lookup
// is case-insensitive; Columns preserves the original header casing and
// order for display.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string

	colIndex   map[string]int
	numericCol map[string]bool
}

func LoadCSV(path string, name string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return FromRecords(name, records)
}

func FromRecords(name string, records [][]string) (*Dataset, error) {
	if len(records) < 2 {
		return nil, errors.New("csv needs a header row and at least one data row")
	}

	header := records[0]
	d := &Dataset{
		Name:       name,
		Columns:    header,
		Rows:       records[1:],
		colIndex:   make(map[string]int, len(header)),
		numericCol: make(map[string]bool, len(header)),
	}
	for i, col := range header {
		d.colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	d.detectNumericColumns()
	return d, nil
}

// HasColumn is case-insensitive, matching how the intent parser normalizes
// captured column names.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.colIndex[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// DisplayName maps a normalized column name back to its header casing.
func (d *Dataset) DisplayName(name string) string {
	if i, ok := d.colIndex[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d.Columns[i]
	}
	return name
}

func (d *Dataset) NumericColumns() []string {
	var cols []string
	for _, col := range d.Columns {
		if d.numericCol[strings.ToLower(strings.TrimSpace(col))] {
			cols = append(cols, col)
		}
	}
	return cols
}

// PrimaryMeasure picks the column rankings run against: a conventionally
// named financial column when present, otherwise the first numeric one.
func (d *Dataset) PrimaryMeasure() (string, bool) {
	for _, preferred := range []string{"actual", "actuals", "amount", "value", "sales", "budget"} {
		if i, ok := d.colIndex[preferred]; ok && d.numericCol[preferred] {
			return d.Columns[i], true
		}
	}
	numeric := d.NumericColumns()
	if len(numeric) == 0 {
		return "", false
	}
	return numeric[0], true
}

// labelColumn is the first non-numeric column, used to name ungrouped rows.
func (d *Dataset) labelColumn() (int, bool) {
	for i, col := range d.Columns {
		if !d.numericCol[strings.ToLower(strings.TrimSpace(col))] {
			return i, true
		}
	}
	return 0, false
}

func (d *Dataset) detectNumericColumns() {
	for key, idx := range d.colIndex {
		seen := false
		numeric := true
		for _, row := range d.Rows {
			if idx >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[idx])
			if cell == "" {
				continue
			}
			seen = true
			if _, ok := parseAmount(cell); !ok {
				numeric = false
				break
			}
		}
		d.numericCol[key] = seen && numeric
	}
}

func (d *Dataset) cell(row []string, col string) (string, bool) {
	idx, ok := d.colIndex[strings.ToLower(strings.TrimSpace(col))]
	if !ok || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}

func (d *Dataset) amount(row []string, col string) (float64, bool) {
	raw, ok := d.cell(row, col)
	if !ok {
		return 0, false
	}
	return parseAmount(raw)
}

// parseAmount accepts the formats financial exports actually contain:
// thousands separators, a currency prefix, and accounting-style
// parenthesized negatives.
func parseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
