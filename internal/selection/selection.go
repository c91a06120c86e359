// Package selection tracks an apartment's pick of consecutive slots on one
// court day before it is submitted as a single reservation.
//
// An Engine is owned by a single caller and is not safe for concurrent use.
package selection

import (
	"errors"
	"sort"

	"github.com/codr1/Padelicious/internal/availability"
	"github.com/codr1/Padelicious/internal/slots"
)

// DefaultMaxSlots caps a selection at 1.5 hours of 30-minute slots.
const DefaultMaxSlots = 3

var (
	ErrMaxSlots        = errors.New("maximum number of slots already selected")
	ErrDifferentDay    = errors.New("slots must be on the same day")
	ErrNotConsecutive  = errors.New("slots must be consecutive")
	ErrSlotUnavailable = errors.New("slot is not available")
)

// Outcome describes what a successful Toggle did.
type Outcome int

const (
	Added Outcome = iota + 1
	Removed
)

// Entry is one selected slot.
type Entry struct {
	Date                   string `json:"date"`
	StartTime              string `json:"startTime"`
	EndTime                string `json:"endTime"`
	IsDisplacing           bool   `json:"isDisplacing"`
	DisplacedApartment     string `json:"displacedApartment,omitempty"`
	DisplacedReservationID int64  `json:"displacedReservationId,omitempty"`
}

func (e Entry) minutes() int {
	return slots.TimeSlot{StartTime: e.StartTime, EndTime: e.EndTime}.Minutes()
}

// Span is the reservation request derived from a selection.
type Span struct {
	Date           string  `json:"date"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	TotalMinutes   int     `json:"totalMinutes"`
	DisplacedSlots []Entry `json:"displacedSlots"`
}

type Engine struct {
	maxSlots int
	entries  []Entry
}

// NewEngine returns an empty engine. A non-positive maxSlots uses DefaultMaxSlots.
func NewEngine(maxSlots int) *Engine {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxSlots
	}
	return &Engine{maxSlots: maxSlots}
}

// Toggle removes slot when already selected, otherwise tries to add it.
// A rejected add leaves the selection untouched.
func (e *Engine) Toggle(slot availability.AnnotatedSlot, date string) (Outcome, error) {
	if idx := e.indexOf(date, slot.StartTime); idx >= 0 {
		// Removal does not re-check contiguity of the remainder; see Contiguous.
		e.entries = append(e.entries[:idx:idx], e.entries[idx+1:]...)
		return Removed, nil
	}

	if len(e.entries) >= e.maxSlots {
		return 0, ErrMaxSlots
	}
	if len(e.entries) > 0 && e.entries[0].Date != date {
		return 0, ErrDifferentDay
	}
	if slot.Blocked || (!slot.Available && !slot.Displaceable()) {
		return 0, ErrSlotUnavailable
	}

	entry := Entry{
		Date:      date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}
	if slot.Displaceable() {
		entry.IsDisplacing = true
		entry.DisplacedApartment = slot.ConflictingReservation.Apartment
		entry.DisplacedReservationID = slot.ConflictingReservation.ID
	}

	tentative := make([]Entry, len(e.entries), len(e.entries)+1)
	copy(tentative, e.entries)
	tentative = append(tentative, entry)
	sortEntries(tentative)
	if !contiguous(tentative) {
		return 0, ErrNotConsecutive
	}

	e.entries = tentative
	return Added, nil
}

// Span returns the contiguous range covered by the selection, or nil when
// nothing is selected. The range runs from the earliest start to the latest
// end; callers should check Contiguous after removals.
func (e *Engine) Span() *Span {
	if len(e.entries) == 0 {
		return nil
	}
	span := &Span{
		Date:           e.entries[0].Date,
		StartTime:      e.entries[0].StartTime,
		EndTime:        e.entries[len(e.entries)-1].EndTime,
		DisplacedSlots: []Entry{},
	}
	for _, entry := range e.entries {
		span.TotalMinutes += entry.minutes()
		if entry.IsDisplacing {
			span.DisplacedSlots = append(span.DisplacedSlots, entry)
		}
	}
	return span
}

// Contiguous reports whether the current selection is back-to-back. It can
// only be false after a middle slot was toggled off.
func (e *Engine) Contiguous() bool {
	return contiguous(e.entries)
}

func (e *Engine) Clear() {
	e.entries = nil
}

func (e *Engine) Len() int {
	return len(e.entries)
}

// Entries returns a copy of the selection sorted by start time.
func (e *Engine) Entries() []Entry {
	out := make([]Entry, len(e.entries))
	copy(out, e.entries)
	return out
}

func (e *Engine) Selected(date, startTime string) bool {
	return e.indexOf(date, startTime) >= 0
}

func (e *Engine) indexOf(date, startTime string) int {
	for i, entry := range e.entries {
		if entry.Date == date && entry.StartTime == startTime {
			return i
		}
	}
	return -1
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})
}

func contiguous(entries []Entry) bool {
	for i := 1; i < len(entries); i++ {
		if entries[i-1].EndTime != entries[i].StartTime {
			return false
		}
	}
	return true
}
