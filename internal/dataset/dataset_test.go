package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/quantcommander/QuantAPI/internal/query"
)

func sampleRecords() [][]string {
	return [][]string{
		{"State", "Product", "Actual", "Budget"},
		{"CA", "Widgets", "1,200", "1000"},
		{"NY", "Widgets", "$800", "900"},
		{"TX", "Gadgets", "(200)", "100"},
		{"CA", "Gadgets", "300", "250"},
	}
}

func mustDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := FromRecords("sales.csv", sampleRecords())
	if err != nil {
		t.Fatalf("FromRecords failed: %v", err)
	}
	return d
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{"1,200", 1200, true},
		{"$800", 800, true},
		{"(200)", -200, true},
		{"3.5", 3.5, true},
		{"", 0, false},
		{"Widgets", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseAmount(tt.raw)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("parseAmount(%q) = (%v, %v); want (%v, %v)", tt.raw, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestFromRecords_ColumnDetection(t *testing.T) {
	d := mustDataset(t)

	if !d.HasColumn("state") || !d.HasColumn("STATE") {
		t.Error("column lookup should be case-insensitive")
	}
	if d.HasColumn("region") {
		t.Error("unexpected column: region")
	}

	numeric := d.NumericColumns()
	if len(numeric) != 2 || numeric[0] != "Actual" || numeric[1] != "Budget" {
		t.Errorf("numeric columns = %v; want [Actual Budget]", numeric)
	}

	measure, ok := d.PrimaryMeasure()
	if !ok || measure != "Actual" {
		t.Errorf("primary measure = %q; want Actual", measure)
	}
}

func TestFromRecords_RejectsHeaderOnly(t *testing.T) {
	if _, err := FromRecords("empty.csv", [][]string{{"a", "b"}}); err == nil {
		t.Error("expected error for header-only csv")
	}
}

func TestTopN_Grouped(t *testing.T) {
	d := mustDataset(t)

	result, err := d.TopN(query.ParsedIntent{Direction: query.Top, Count: 2, GroupBy: "state"})
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}

	if result.GroupBy != "State" {
		t.Errorf("GroupBy display = %q; want State", result.GroupBy)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	// CA sums to 1500, NY 800, TX -200
	if result.Rows[0].Label != "CA" || result.Rows[0].Value != 1500 {
		t.Errorf("rank 1 = %+v; want CA/1500", result.Rows[0])
	}
	if result.Rows[1].Label != "NY" || result.Rows[1].Value != 800 {
		t.Errorf("rank 2 = %+v; want NY/800", result.Rows[1])
	}
}

func TestTopN_BottomUngrouped(t *testing.T) {
	d := mustDataset(t)

	result, err := d.TopN(query.ParsedIntent{Direction: query.Bottom, Count: 1})
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(result.Rows) != 1 || result.Rows[0].Value != -200 {
		t.Errorf("bottom 1 = %+v; want the (200) row", result.Rows)
	}
	if result.Rows[0].Label != "TX" {
		t.Errorf("label = %q; want TX (first non-numeric column)", result.Rows[0].Label)
	}
}

func TestTopN_CountClampedToRows(t *testing.T) {
	d := mustDataset(t)

	result, err := d.TopN(query.ParsedIntent{Direction: query.Top, Count: 50})
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(result.Rows) != 4 {
		t.Errorf("expected all 4 rows, got %d", len(result.Rows))
	}
}

func TestTopN_UnknownColumnSuggests(t *testing.T) {
	d := mustDataset(t)

	_, err := d.TopN(query.ParsedIntent{Direction: query.Top, Count: 3, GroupBy: "stat"})
	var colErr *ColumnError
	if !errors.As(err, &colErr) {
		t.Fatalf("expected *ColumnError, got %T: %v", err, err)
	}
	if colErr.Suggestion != "State" {
		t.Errorf("suggestion = %q; want State", colErr.Suggestion)
	}
}

func TestVariance_Grouped(t *testing.T) {
	d := mustDataset(t)

	result, err := d.Variance("product")
	if err != nil {
		t.Fatalf("Variance failed: %v", err)
	}
	if result.ActualColumn != "Actual" || result.PlannedColumn != "Budget" {
		t.Errorf("column pair = %q/%q; want Actual/Budget", result.ActualColumn, result.PlannedColumn)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(result.Rows))
	}
	// Widgets: actual 2000 vs budget 1900 -> +100
	widgets := result.Rows[0]
	if widgets.Label != "Widgets" || widgets.Delta != 100 {
		t.Errorf("widgets variance = %+v; want delta 100", widgets)
	}
}

func TestVariance_ZeroPlanHasNoPercent(t *testing.T) {
	records := [][]string{
		{"Item", "Actual", "Budget"},
		{"A", "50", "0"},
	}
	d, err := FromRecords("zero.csv", records)
	if err != nil {
		t.Fatal(err)
	}
	result, err := d.Variance("")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(result.Rows[0].Percent) {
		t.Errorf("percent vs zero plan = %v; want NaN", result.Rows[0].Percent)
	}
}

func TestClosestColumn(t *testing.T) {
	columns := []string{"State", "Product", "Actual"}

	if got := ClosestColumn("stae", columns); got != "State" {
		t.Errorf("ClosestColumn(stae) = %q; want State", got)
	}
	if got := ClosestColumn("completely_different", columns); got != "" {
		t.Errorf("ClosestColumn far name = %q; want empty", got)
	}
}

func TestStore_ChatFallback(t *testing.T) {
	s := InitStore()
	shared := mustDataset(t)
	s.Put("", shared)

	if _, ok := s.Get("chat-1"); !ok {
		t.Error("chat without its own dataset should see the shared one")
	}

	own, _ := FromRecords("own.csv", sampleRecords())
	s.Put("chat-1", own)
	got, _ := s.Get("chat-1")
	if got != own {
		t.Error("chat-specific dataset should win over the shared one")
	}

	s.Delete("chat-1")
	got, _ = s.Get("chat-1")
	if got != shared {
		t.Error("deleting the chat dataset should restore the shared fallback")
	}
}
