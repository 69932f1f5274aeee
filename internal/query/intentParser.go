package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quantcommander/QuantAPI/internal/config"
)

type Direction string

const (
	Top    Direction = "Top"
	Bottom Direction = "Bottom"
)

// ParsedIntent is the structured form of a "top/bottom N [by column]"
// request. GroupBy is empty when no grouping column was mentioned.
// Column names are normalized to lowercase; dataset lookups are
// case-insensitive so the original casing carries no information.
type ParsedIntent struct {
	Direction Direction
	Count     int
	GroupBy   string
}

var (
	//word boundaries so "topic" never matches "top"
	rankedWithColumn = regexp.MustCompile(`\b(top|bottom)\s+(\d+)\s+by\s+(\w+)`)
	rankedPattern    = regexp.MustCompile(`\b(top|bottom)\s+(\d+)\b`)
	firstInteger     = regexp.MustCompile(`\d+`)
	topCueWords      = regexp.MustCompile(`\b(top|highest|best|largest)\b`)
)

var triggerPhrases = []string{
	"show me top",
	"show me bottom",
	"give me top",
	"give me bottom",
	"what are the top",
	"what are the bottom",
	"highest values",
	"lowest values",
	"find top",
	"find bottom",
}

// IsTopBottomQuery reports whether a free-text message asks for the top or
// bottom N records. It never fails; anything unmatched is simply false.
func IsTopBottomQuery(message string) bool {
	lowered := strings.ToLower(strings.TrimSpace(message))

	if rankedPattern.MatchString(lowered) {
		return true
	}
	for _, phrase := range triggerPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// ParseTopBottomQuery extracts direction, count and optional grouping column
// from a message. It is a best-effort heuristic for a chat surface, so it
// always produces a result: unmatched input falls back to a default guess
// instead of an error. Overlapping "top"/"bottom" cues are resolved by the
// first complete "<direction> <int>" match in reading order.
func ParseTopBottomQuery(message string) ParsedIntent {
	lowered := strings.ToLower(strings.TrimSpace(message))

	if m := rankedWithColumn.FindStringSubmatch(lowered); m != nil {
		return ParsedIntent{
			Direction: asDirection(m[1]),
			Count:     countOrDefault(m[2]),
			GroupBy:   m[3],
		}
	}

	if m := rankedPattern.FindStringSubmatch(lowered); m != nil {
		return ParsedIntent{
			Direction: asDirection(m[1]),
			Count:     countOrDefault(m[2]),
		}
	}

	//fallback: grab the first integer anywhere in the original text,
	//then decide direction from keyword presence alone
	count := config.DefaultTopN
	if raw := firstInteger.FindString(message); raw != "" {
		count = countOrDefault(raw)
	}

	direction := Bottom
	if topCueWords.MatchString(lowered) {
		direction = Top
	}

	return ParsedIntent{Direction: direction, Count: count}
}

func asDirection(word string) Direction {
	if word == "top" {
		return Top
	}
	return Bottom
}

// countOrDefault keeps the count>0 invariant: zero, negative or unparseable
// counts collapse to the default of 5.
func countOrDefault(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return config.DefaultTopN
	}
	return n
}
