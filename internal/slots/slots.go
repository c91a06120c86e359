// Package slots builds the fixed catalog of bookable intervals for a court day.
package slots

import (
	"errors"
	"fmt"
	"time"

	"github.com/codr1/Padelicious/internal/timeutil"
)

const (
	DefaultOpenTime  = "08:00"
	DefaultCloseTime = "22:00"
	DefaultDuration  = 30 * time.Minute
)

var ErrInvalidDuration = errors.New("slot duration must be a positive whole number of minutes")

// TimeSlot is a half-open [StartTime, EndTime) interval in HH:MM.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (s TimeSlot) String() string {
	return s.StartTime + "-" + s.EndTime
}

// Minutes returns the slot length, or 0 when either bound is malformed.
func (s TimeSlot) Minutes() int {
	start, err := timeutil.ClockToMinutes(s.StartTime)
	if err != nil {
		return 0
	}
	end, err := timeutil.ClockToMinutes(s.EndTime)
	if err != nil {
		return 0
	}
	return end - start
}

// Generate walks from openTime to closeTime in duration strides. Only whole
// slots are emitted, so the last one never ends after closeTime.
func Generate(openTime, closeTime string, duration time.Duration) ([]TimeSlot, error) {
	if duration <= 0 || duration%time.Minute != 0 {
		return nil, ErrInvalidDuration
	}
	openMinutes, err := timeutil.ClockToMinutes(openTime)
	if err != nil {
		return nil, fmt.Errorf("open time: %w", err)
	}
	closeMinutes, err := timeutil.ClockToMinutes(closeTime)
	if err != nil {
		return nil, fmt.Errorf("close time: %w", err)
	}
	if closeMinutes < openMinutes {
		return nil, fmt.Errorf("close time %s is before open time %s", closeTime, openTime)
	}

	step := int(duration / time.Minute)
	generated := make([]TimeSlot, 0, (closeMinutes-openMinutes)/step)
	for cursor := openMinutes; cursor+step <= closeMinutes; cursor += step {
		generated = append(generated, TimeSlot{
			StartTime: timeutil.MinutesToClock(cursor),
			EndTime:   timeutil.MinutesToClock(cursor + step),
		})
	}
	return generated, nil
}

// Overlaps is the half-open interval test. Clocks must be zero-padded HH:MM,
// which makes string order match time order.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

// Find returns the slot starting at startTime.
func Find(catalog []TimeSlot, startTime string) (TimeSlot, bool) {
	for _, slot := range catalog {
		if slot.StartTime == startTime {
			return slot, true
		}
	}
	return TimeSlot{}, false
}
