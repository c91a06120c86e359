// Package timeutil converts the date and wall-clock strings used across the
// booking flow into comparable instants. Strings are interpreted as local
// wall-clock time in the location of the supplied reference time; no timezone
// conversion is applied.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// DefaultBookingWindowDays is how far ahead a court may be booked.
	DefaultBookingWindowDays = 7
)

// ToInstant combines a YYYY-MM-DD date and an HH:MM clock into an instant in loc.
// A nil loc means time.Local.
func ToInstant(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(DateLayout+" "+ClockLayout, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return parsed, nil
}

// IsInFuture reports whether date+clock is strictly after now.
func IsInFuture(date, clock string, now time.Time) bool {
	instant, err := ToInstant(date, clock, now.Location())
	if err != nil {
		return false
	}
	return instant.After(now)
}

// HasEnded reports whether a slot ending at date+endClock is over. A slot
// ending exactly at now counts as ended.
func HasEnded(date, endClock string, now time.Time) bool {
	instant, err := ToInstant(date, endClock, now.Location())
	if err != nil {
		return false
	}
	return !instant.After(now)
}

// HoursUntil returns the signed number of hours from now until date+clock.
// Past instants yield negative values.
func HoursUntil(date, clock string, now time.Time) float64 {
	instant, err := ToInstant(date, clock, now.Location())
	if err != nil {
		return 0
	}
	return instant.Sub(now).Hours()
}

// IsWithinBookingWindow reports whether date falls between today and
// today+days inclusive, compared at day granularity.
func IsWithinBookingWindow(date string, now time.Time, days int) bool {
	target, err := ParseDate(date, now.Location())
	if err != nil {
		return false
	}
	today := civilDay(now)
	day := civilDay(target)
	return !day.Before(today) && !day.After(today.AddDate(0, 0, days))
}

// civilDay strips the time of day. UTC keeps AddDate free of DST shifts.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ParseDate parses a YYYY-MM-DD string as midnight in loc (time.Local if nil).
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return parsed, nil
}

// ClockToMinutes converts HH:MM into minutes since midnight.
func ClockToMinutes(clock string) (int, error) {
	hours, minutes, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 || len(minutes) != 2 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	total := h*60 + m
	if total > 24*60 {
		return 0, fmt.Errorf("invalid clock %q", clock)
	}
	return total, nil
}

// MinutesToClock formats minutes since midnight as zero-padded HH:MM.
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
