// Package availability annotates a day's slot catalog with the reservations
// and administrative overrides that touch each slot.
package availability

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/codr1/Padelicious/internal/slots"
)

// Tier is the priority tier of a reservation.
type Tier uint8

const (
	TierNone Tier = iota
	// TierFirst reservations are guaranteed and never displaced.
	TierFirst
	// TierSecond reservations are provisional and may be displaced unless protected.
	TierSecond
)

func (t Tier) String() string {
	switch t {
	case TierFirst:
		return "first"
	case TierSecond:
		return "second"
	default:
		return ""
	}
}

// ParseTier maps the stored tag back to a Tier. Empty input yields TierNone.
func ParseTier(value string) (Tier, error) {
	switch value {
	case "first":
		return TierFirst, nil
	case "second":
		return TierSecond, nil
	case "":
		return TierNone, nil
	default:
		return TierNone, fmt.Errorf("unknown priority tier %q", value)
	}
}

func (t Tier) MarshalJSON() ([]byte, error) {
	if t == TierNone {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TierNone
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTier(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusDisplaced = "displaced"
	StatusCompleted = "completed"
)

// Reservation is the read-only view of a booked range on one court day.
type Reservation struct {
	ID        int64     `json:"id"`
	CourtID   int64     `json:"courtId"`
	Apartment string    `json:"apartment"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Status    string    `json:"status"`
	Tier      Tier      `json:"priorityTier"`
	Protected bool      `json:"protected"`
	CreatedAt time.Time `json:"createdAt"`
}

// Active reports whether the reservation still occupies its slots.
func (r Reservation) Active() bool {
	return r.Status == StatusConfirmed
}

// Override is an administrative blockout and/or protection over a time range.
type Override struct {
	ID        int64  `json:"id"`
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Blocked   bool   `json:"blocked"`
	Protected bool   `json:"protected"`
	Reason    string `json:"reason,omitempty"`
}

// AnnotatedSlot is a TimeSlot resolved against one reservation snapshot.
type AnnotatedSlot struct {
	slots.TimeSlot
	Available              bool         `json:"available"`
	Blocked                bool         `json:"blocked"`
	PriorityTier           Tier         `json:"priorityTier"`
	Protected              bool         `json:"protected"`
	Ended                  bool         `json:"ended"`
	ConflictingReservation *Reservation `json:"conflictingReservation"`
}

// Displaceable reports whether a priority claim could bump the reservation
// holding this slot.
func (s AnnotatedSlot) Displaceable() bool {
	return s.ConflictingReservation != nil &&
		s.PriorityTier == TierSecond &&
		!s.Protected &&
		!s.Blocked
}

// Resolve annotates every slot in catalog order. Inputs are not modified.
func Resolve(catalog []slots.TimeSlot, reservations []Reservation, overrides []Override) []AnnotatedSlot {
	active := make([]Reservation, 0, len(reservations))
	for _, res := range reservations {
		if res.Active() {
			active = append(active, res)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return arrivedBefore(active[i], active[j])
	})

	annotated := make([]AnnotatedSlot, len(catalog))
	for i, slot := range catalog {
		annotated[i] = resolveSlot(slot, active, overrides)
	}
	return annotated
}

func resolveSlot(slot slots.TimeSlot, active []Reservation, overrides []Override) AnnotatedSlot {
	result := AnnotatedSlot{TimeSlot: slot}

	for _, override := range overrides {
		if !slots.Overlaps(override.StartTime, override.EndTime, slot.StartTime, slot.EndTime) {
			continue
		}
		result.Blocked = result.Blocked || override.Blocked
		result.Protected = result.Protected || override.Protected
	}

	var conflicts []Reservation
	for _, res := range active {
		if slots.Overlaps(res.StartTime, res.EndTime, slot.StartTime, slot.EndTime) {
			conflicts = append(conflicts, res)
		}
	}

	if len(conflicts) > 0 {
		holder, tier := pickHolder(conflicts)
		result.ConflictingReservation = &holder
		result.PriorityTier = tier
		result.Protected = result.Protected || holder.Protected
	}

	result.Available = !result.Blocked && result.ConflictingReservation == nil
	return result
}

// pickHolder chooses which of the overlapping reservations (already in arrival
// order) represents the slot: the first guaranteed one, else the earliest.
func pickHolder(conflicts []Reservation) (Reservation, Tier) {
	for i, res := range conflicts {
		if effectiveTier(conflicts, i) == TierFirst {
			return res, TierFirst
		}
	}
	return conflicts[0], effectiveTier(conflicts, 0)
}

// effectiveTier uses the stored tier when present. Rows without one are
// ranked by arrival: the first claim is guaranteed, a later claim from a
// different apartment is provisional.
func effectiveTier(conflicts []Reservation, i int) Tier {
	if conflicts[i].Tier != TierNone {
		return conflicts[i].Tier
	}
	if i == 0 || conflicts[i].Apartment == conflicts[0].Apartment {
		return TierFirst
	}
	return TierSecond
}

func arrivedBefore(a, b Reservation) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Find returns the annotated slot starting at startTime.
func Find(annotated []AnnotatedSlot, startTime string) (AnnotatedSlot, bool) {
	for _, slot := range annotated {
		if slot.StartTime == startTime {
			return slot, true
		}
	}
	return AnnotatedSlot{}, false
}
