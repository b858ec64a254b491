package models

import (
	"strings"
	"time"
)

// DateFormat tags the textual date encoding an extract uses. The operational
// feeds are not consistent: order dates are day-first, everything else is
// ISO-like.
type DateFormat int

const (
	// DateDayFirst parses DD-MM-YYYY (order_date).
	DateDayFirst DateFormat = iota
	// DateISO parses YYYY-MM-DD, with a datetime fallback (sales, expenses, cashup).
	DateISO
)

var dateLayouts = map[DateFormat][]string{
	DateDayFirst: {
		"02-01-2006",
		"02/01/2006",
		"02-01-2006 15:04:05",
		// Database pulls render dates ISO regardless of source.
		"2006-01-02 15:04:05",
		"2006-01-02",
	},
	DateISO: {
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	},
}

// ParseDate parses raw into a canonical calendar date at UTC midnight.
// Unparsable values yield nil; the row then silently misses every date join.
func ParseDate(raw string, format DateFormat) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts[format] {
		if ts, err := time.Parse(layout, raw); err == nil {
			d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// FormatDate serializes a canonical date as ISO-8601.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
