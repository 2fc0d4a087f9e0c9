package utils

import (
	"fmt"
	"time"
)

// DateLayout is the DD-MM-YYYY format the billing API exchanges dates in.
const DateLayout = "02-01-2006"

// ParseDate parses a DD-MM-YYYY value in local time.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD-MM-YYYY: %w", value, err)
	}
	return t, nil
}

// FormatDate renders a time in the DD-MM-YYYY wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayRange returns the inclusive start and exclusive end of the day t falls on.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
