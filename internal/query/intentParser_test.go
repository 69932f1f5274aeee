package query

import "testing"

func TestIsTopBottomQuery(t *testing.T) {
	tests := []struct {
		message  string
		expected bool
	}{
		{"top 5 by State", true},
		{"bottom 2 analysis", true},
		{"  Show me top performers  ", true},
		{"give me bottom line items", true},
		{"what are the top contributors", true},
		{"highest values in the budget", true},
		{"lowest values please", true},
		{"find top 10", true},
		{"TOP 3", true},
		{"what is the weather", false},
		{"a topic about bottoms-up estimation", false},
		{"", false},
		{"summarize the variance", false},
	}

	for _, tt := range tests {
		if got := IsTopBottomQuery(tt.message); got != tt.expected {
			t.Errorf("IsTopBottomQuery(%q) = %v; want %v", tt.message, got, tt.expected)
		}
	}
}

func TestParseTopBottomQuery(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected ParsedIntent
	}{
		{
			name:     "full pattern with column",
			message:  "top 5 by State",
			expected: ParsedIntent{Direction: Top, Count: 5, GroupBy: "state"},
		},
		{
			name:     "column casing is normalized",
			message:  "top 2 by Budget",
			expected: ParsedIntent{Direction: Top, Count: 2, GroupBy: "budget"},
		},
		{
			name:     "direction and count without column",
			message:  "bottom 2 analysis",
			expected: ParsedIntent{Direction: Bottom, Count: 2},
		},
		{
			name:     "embedded in a longer sentence",
			message:  "show me top 10",
			expected: ParsedIntent{Direction: Top, Count: 10},
		},
		{
			// "top" has no adjacent integer, so the first complete
			// "<direction> <int>" match in reading order wins
			name:     "overlapping direction cues",
			message:  "top provide bottom 2 analysis",
			expected: ParsedIntent{Direction: Bottom, Count: 2},
		},
		{
			name:     "unrelated text falls back to bottom 5",
			message:  "totally unrelated text",
			expected: ParsedIntent{Direction: Bottom, Count: 5},
		},
		{
			name:     "fallback picks up a stray integer",
			message:  "highest 3 spenders please",
			expected: ParsedIntent{Direction: Top, Count: 3},
		},
		{
			name:     "fallback keyword without number",
			message:  "show me the largest accounts",
			expected: ParsedIntent{Direction: Top, Count: 5},
		},
		{
			name:     "zero count collapses to default",
			message:  "top 0 by region",
			expected: ParsedIntent{Direction: Top, Count: 5, GroupBy: "region"},
		},
		{
			name:     "word boundary protects against topic",
			message:  "a topic with 7 sections",
			expected: ParsedIntent{Direction: Bottom, Count: 7},
		},
		{
			name:     "empty message",
			message:  "",
			expected: ParsedIntent{Direction: Bottom, Count: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTopBottomQuery(tt.message)
			if got != tt.expected {
				t.Errorf("ParseTopBottomQuery(%q) = %+v; want %+v", tt.message, got, tt.expected)
			}
		})
	}
}

func TestParseTopBottomQuery_Idempotent(t *testing.T) {
	message := "top 7 by Account"
	first := ParseTopBottomQuery(message)
	second := ParseTopBottomQuery(message)
	if first != second {
		t.Errorf("repeated parse diverged: %+v vs %+v", first, second)
	}
}
