package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// parseIntPtr coerces an id field. Unparsable values become nil rather than
// failing the row; a nil id simply never matches a join downstream.
func parseIntPtr(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return &n
	}
	// Extracts sometimes render integer ids as "12.0".
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
		n := int(f)
		return &n
	}
	return nil
}

// parseInt coerces a numeric field, defaulting instead of failing.
func parseInt(raw string, def int) int {
	if p := parseIntPtr(raw); p != nil {
		return *p
	}
	return def
}

// parseDecimal coerces a money field. Non-numeric values default to zero.
// Thousands separators are stripped first; some extracts format amounts.
func parseDecimal(raw string) decimal.Decimal {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseBool tests against the boolean literal exactly; anything else counts
// as false by omission, not as an error.
func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1":
		return true
	}
	return false
}
