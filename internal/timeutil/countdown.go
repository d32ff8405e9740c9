package timeutil

import (
	"fmt"
	"time"
)

// CountdownStatus classifies how close a race is to starting.
type CountdownStatus string

const (
	StatusNormal   CountdownStatus = "normal"
	StatusWarning  CountdownStatus = "warning"
	StatusCritical CountdownStatus = "critical"
	StatusExpired  CountdownStatus = "expired"
)

// Urgency thresholds in seconds; each band includes its upper bound.
const (
	CriticalThreshold = 30
	WarningThreshold  = 60
)

// SecondsRemaining returns whole seconds until start (epoch seconds), never negative.
func SecondsRemaining(start int64, now time.Time) int64 {
	remaining := start - now.Unix()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatCountdown renders seconds as MM:SS. Minutes are not wrapped into hours.
func FormatCountdown(seconds int64) string {
	if seconds <= 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// StatusFor classifies a countdown.
func StatusFor(seconds int64) CountdownStatus {
	switch {
	case seconds <= 0:
		return StatusExpired
	case seconds <= CriticalThreshold:
		return StatusCritical
	case seconds <= WarningThreshold:
		return StatusWarning
	default:
		return StatusNormal
	}
}
