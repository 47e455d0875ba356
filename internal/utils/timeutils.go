package utils

import (
	"fmt"
	"strings"
	"time"
)

// ParseRFC3339 returns a time from the provided string or an error.
func ParseRFC3339(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time: %w", err)
	}
	return t, nil
}

// oneTokenLayouts and twoTokenLayouts are the leading-timestamp shapes
// commonly emitted by test runners and CI log collectors.
var (
	oneTokenLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"15:04:05.000",
		"15:04:05",
	}
	twoTokenLayouts = []string{
		"2006-01-02 15:04:05.000",
		"2006-01-02 15:04:05",
	}
)

// SplitLogTimestamp strips a recognized leading timestamp from a log line,
// returning the parsed time and the remainder. Lines without a recognized
// prefix return a zero time and the full line.
func SplitLogTimestamp(line string) (time.Time, string) {
	trimmed := strings.TrimLeft(line, " \t")
	bracketed := strings.HasPrefix(trimmed, "[")
	trimmed = strings.TrimPrefix(trimmed, "[")

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return time.Time{}, line
	}

	try := func(candidate string, layouts []string) (time.Time, bool) {
		candidate = strings.TrimSuffix(candidate, "]")
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, candidate); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	}

	if ts, ok := try(fields[0], oneTokenLayouts); ok {
		rest := strings.TrimPrefix(trimmed, fields[0])
		rest = strings.TrimPrefix(strings.TrimLeft(rest, " \t"), "] ")
		if bracketed {
			rest = strings.TrimPrefix(rest, "]")
		}
		return ts, strings.TrimLeft(rest, " \t-")
	}
	if len(fields) >= 2 {
		if ts, ok := try(fields[0]+" "+fields[1], twoTokenLayouts); ok {
			rest := trimmed
			rest = strings.TrimPrefix(rest, fields[0])
			rest = strings.TrimLeft(rest, " \t")
			rest = strings.TrimPrefix(rest, fields[1])
			rest = strings.TrimPrefix(strings.TrimLeft(rest, " \t"), "]")
			return ts, strings.TrimLeft(rest, " \t-")
		}
	}
	return time.Time{}, line
}
