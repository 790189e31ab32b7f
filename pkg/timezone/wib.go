// Package timezone buckets stored UTC instants into WIB (UTC+7) calendar
// days and months. Ranges are half-open: [Start, End).
package timezone

import (
	"fmt"
	"time"
)

// WIB is Western Indonesia Time, a fixed UTC+7 offset with no DST
var WIB = time.FixedZone("WIB", 7*60*60)

const DateLayout = "2006-01-02"

// Range is a half-open UTC interval
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End)
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// DayRange returns the UTC bounds of the WIB calendar day containing t
func DayRange(t time.Time) Range {
	local := t.In(WIB)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, WIB)
	return Range{Start: start.UTC(), End: start.AddDate(0, 0, 1).UTC()}
}

// ParseDay parses YYYY-MM-DD as a WIB calendar day
func ParseDay(s string) (Range, error) {
	d, err := time.ParseInLocation(DateLayout, s, WIB)
	if err != nil {
		return Range{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DayRange(d), nil
}

// MonthRange returns the UTC bounds of a WIB calendar month
func MonthRange(year, month int) (Range, error) {
	if month < 1 || month > 12 {
		return Range{}, fmt.Errorf("invalid month %d", month)
	}
	if year < 1 {
		return Range{}, fmt.Errorf("invalid year %d", year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, WIB)
	return Range{Start: start.UTC(), End: start.AddDate(0, 1, 0).UTC()}, nil
}

// DateKey formats t as its WIB calendar date
func DateKey(t time.Time) string {
	return t.In(WIB).Format(DateLayout)
}
