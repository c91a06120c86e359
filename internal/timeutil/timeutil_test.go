package timeutil

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)

func TestToInstant(t *testing.T) {
	got, err := ToInstant("2025-03-10", "09:30", time.UTC)
	if err != nil {
		t.Fatalf("to instant: %v", err)
	}
	want := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("instant: got %v want %v", got, want)
	}

	if _, err := ToInstant("10/03/2025", "09:30", time.UTC); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestIsInFuture(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		want  bool
	}{
		{"later today", "2025-03-10", "10:00", true},
		{"exactly now", "2025-03-10", "09:15", false},
		{"earlier today", "2025-03-10", "08:00", false},
		{"tomorrow", "2025-03-11", "07:00", true},
		{"malformed", "not-a-date", "07:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInFuture(tt.date, tt.clock, testNow); got != tt.want {
				t.Errorf("IsInFuture(%q, %q) = %v, want %v", tt.date, tt.clock, got, tt.want)
			}
		})
	}
}

func TestHasEnded(t *testing.T) {
	tests := []struct {
		name string
		end  string
		want bool
	}{
		{"ends exactly now", "09:15", true},
		{"ended earlier", "09:00", true},
		{"still running", "09:30", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasEnded("2025-03-10", tt.end, testNow); got != tt.want {
				t.Errorf("HasEnded(%q) = %v, want %v", tt.end, got, tt.want)
			}
		})
	}
}

func TestHoursUntil(t *testing.T) {
	if got := HoursUntil("2025-03-10", "11:45", testNow); math.Abs(got-2.5) > 1e-9 {
		t.Fatalf("hours until: got %v want 2.5", got)
	}
	if got := HoursUntil("2025-03-10", "08:15", testNow); math.Abs(got+1) > 1e-9 {
		t.Fatalf("hours until past: got %v want -1", got)
	}
}

func TestIsWithinBookingWindow(t *testing.T) {
	today := FormatDate(testNow)
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"today", today, true},
		{"yesterday", FormatDate(testNow.AddDate(0, 0, -1)), false},
		{"seven days ahead", FormatDate(testNow.AddDate(0, 0, 7)), true},
		{"eight days ahead", FormatDate(testNow.AddDate(0, 0, 8)), false},
		{"malformed", "2025-13-40", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWithinBookingWindow(tt.date, testNow, DefaultBookingWindowDays); got != tt.want {
				t.Errorf("IsWithinBookingWindow(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsWithinBookingWindow_LateEvening(t *testing.T) {
	// Time of day must not matter: 23:59 today still allows the full seventh day.
	lateNow := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	if !IsWithinBookingWindow("2025-03-17", lateNow, 7) {
		t.Fatalf("expected seventh day to be bookable late in the evening")
	}
}

func TestDateRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
	for i := 0; i < 400; i++ {
		day := start.AddDate(0, 0, i)
		for _, clock := range []string{"00:00", "08:00", "21:30"} {
			instant, err := ToInstant(FormatDate(day), clock, loc)
			if err != nil {
				t.Fatalf("to instant %s %s: %v", FormatDate(day), clock, err)
			}
			if FormatDate(instant) != FormatDate(day) {
				t.Fatalf("round trip: got %s want %s", FormatDate(instant), FormatDate(day))
			}
		}
	}
}

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		clock   string
		minutes int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"22:00", 1320, false},
		{"00:30", 30, false},
		{"8:5", 0, true},
		{"25:00", 0, true},
		{"ab:cd", 0, true},
		{"0800", 0, true},
	}

	for _, tt := range tests {
		got, err := ClockToMinutes(tt.clock)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ClockToMinutes(%q) expected error", tt.clock)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockToMinutes(%q): %v", tt.clock, err)
			continue
		}
		if got != tt.minutes {
			t.Errorf("ClockToMinutes(%q) = %d, want %d", tt.clock, got, tt.minutes)
		}
		if back := MinutesToClock(got); back != tt.clock {
			t.Errorf("MinutesToClock(%d) = %q, want %q", got, back, tt.clock)
		}
	}
}
