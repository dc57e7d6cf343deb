package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// precision returns the number of decimals a property is displayed with.
// Cure Time is measured in hundredths; everything else in tenths.
func precision(property string) int {
	if property == "Cure Time" {
		return 2
	}
	return 1
}

// FormatValue formats a property value for display.
// Examples: ("Viscosity", 2554.4) -> "2554.4", ("Cure Time", 3.2) -> "3.20"
func FormatValue(property string, v float64) string {
	return strconv.FormatFloat(v, 'f', precision(property), 64)
}

// FormatRange formats a min/max pair at one decimal.
// Example: (400, 425) -> "400.0 - 425.0"
func FormatRange(lo, hi float64) string {
	return fmt.Sprintf("%.1f - %.1f", lo, hi)
}

// FormatBound formats a bucket boundary with the shortest exact representation.
// Examples: 10 -> "10", 2.5 -> "2.5"
func FormatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DisplayID shortens an experiment ID by dropping the shared "20170" date prefix.
// Example: "20170104_EXP_56" -> "104_EXP_56"
func DisplayID(id string) string {
	return strings.TrimPrefix(id, "20170")
}

// FormatCount renders "n of total experiments".
func FormatCount(n, total int) string {
	return fmt.Sprintf("%d of %d experiments", n, total)
}

// FormatDateTime formats a time to date-time format (2006-01-02 15:04).
// The zero time renders as "-".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

// ParseTimeSQLite parses a SQLite datetime or RFC3339 string to time.Time.
// Handles "YYYY-MM-DD HH:MM:SS" (SQLite) and RFC3339 formats.
// Returns zero time if parsing fails.
func ParseTimeSQLite(s string) time.Time {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
