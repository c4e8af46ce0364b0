package schema

import (
	"errors"
	"fmt"
	"time"
)

// DateKeyLayout is the layout of the day keys (YYYY-MM-DD)
const DateKeyLayout = "2006-01-02"

var errEmptyTimezone = errors.New("empty timezone name")

// LoadLocation resolves an IANA timezone name.
// "Local" is refused so the result never depends on the host configuration.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, errEmptyTimezone
	}
	if name == "Local" {
		return nil, fmt.Errorf("timezone %q depends on the host", name)
	}
	return time.LoadLocation(name)
}

// StartOfLocalDay returns the instant of the local midnight of t in loc
func StartOfLocalDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// LocalDaysBefore returns the local midnight `days` calendar days before the local date of t.
// Calendar days are not always 24h long when a DST transition occurs in between.
func LocalDaysBefore(t time.Time, loc *time.Location, days int) time.Time {
	return StartOfLocalDay(t, loc).AddDate(0, 0, -days)
}

// LocalDateKey returns the local calendar date of t in loc
func LocalDateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyLayout)
}
