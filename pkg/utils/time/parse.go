// ABOUTME: Time parsing utilities for the loosely formatted dates in the data files
// ABOUTME: Accepts ISO dates, RFC timestamps and a few human-written forms

package time

import (
	"strings"
	"time"
)

// Formats tried in order; date-only forms come first because the data files mostly use them
var timeFormats = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01",
	"January 2006",
	"Jan 2006",
}

// ParseFlexibleTime attempts to parse a time string using various formats.
// The zero time is returned when nothing matches.
func ParseFlexibleTime(timeStr string) time.Time {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return time.Time{}
	}

	for _, format := range timeFormats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseWithDefault attempts to parse a time string, returning a default if parsing fails
func ParseWithDefault(timeStr string, defaultTime time.Time) time.Time {
	if parsed := ParseFlexibleTime(timeStr); !parsed.IsZero() {
		return parsed
	}
	return defaultTime
}

// MonthYear renders a date as "Jan 2006". Unparseable input is returned unchanged.
func MonthYear(timeStr string) string {
	t := ParseFlexibleTime(timeStr)
	if t.IsZero() {
		return timeStr
	}
	return t.Format("Jan 2006")
}
