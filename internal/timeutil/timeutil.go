package timeutil

import "time"

// ClockLayout renders a local start time for display.
const ClockLayout = "15:04"

// EpochSeconds returns t as whole seconds since the Unix epoch.
func EpochSeconds(t time.Time) int64 {
	return t.Unix()
}

// ResolveLocation returns a location for a tz string, or nil if empty or invalid.
func ResolveLocation(tz string) *time.Location {
	if tz == "" {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil
	}
	return loc
}

// FormatClock formats t as HH:MM in loc (UTC when loc is nil).
func FormatClock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(ClockLayout)
}
