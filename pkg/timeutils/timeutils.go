package timeutils

import (
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for the schedule sheet's date-time cells. The sheet is
// human-edited, so both separators show up in practice.
const (
	LayoutDash  = "2006-01-02 15:04"
	LayoutSlash = "2006/01/02 15:04"
)

// FixedOffsetLocation returns the deployment's fixed schedule offset as a
// Location. Schedule cells are naive date-times; every run interprets them
// (and "now") in this one offset, never in the executor's local time.
func FixedOffsetLocation(offsetMinutes int) *time.Location {
	if offsetMinutes == 0 {
		return time.UTC
	}
	sign := "+"
	abs := offsetMinutes
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/60, abs%60)
	return time.FixedZone(name, offsetMinutes*60)
}

// ParseScheduleTime parses a schedule cell under the two accepted layouts,
// interpreting the naive value in loc.
func ParseScheduleTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("schedule time is empty")
	}

	if t, err := time.ParseInLocation(LayoutDash, value, loc); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(LayoutSlash, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule time %q matches neither %q nor %q", value, LayoutDash, LayoutSlash)
	}
	return t, nil
}
