package dateutil

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Parse accepts a calendar date (YYYY-MM-DD) or an RFC3339 timestamp and
// returns midnight UTC of that day.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return Truncate(t), nil
}

func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts calendar days from start to end, both included.
func DaysInclusive(start, end time.Time) int {
	s := Truncate(start)
	e := Truncate(end)
	return int(e.Sub(s).Hours()/24) + 1
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}
