package models

import (
	"fmt"
	"time"
)

// UnknownUptime is reported when a start time cannot be resolved.
const UnknownUptime = "Unknown"

// FormatUptime renders the time elapsed since start as "<days>d <hours>h".
// A zero start time yields UnknownUptime.
func FormatUptime(start, now time.Time) string {
	if start.IsZero() {
		return UnknownUptime
	}
	d := now.Sub(start)
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	hours := int((d % (24 * time.Hour)) / time.Hour)
	return fmt.Sprintf("%dd %dh", days, hours)
}

// ParseUptime formats a runtime-reported RFC 3339 start timestamp.
// Unparsable input yields UnknownUptime.
func ParseUptime(startedAt string, now time.Time) string {
	start, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return UnknownUptime
	}
	return FormatUptime(start, now)
}
