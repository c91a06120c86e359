// Package booking applies the community booking policy on top of the slot
// engine: it loads court-day snapshots from the database, assigns priority
// tiers, and performs displacements transactionally.
package booking

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Padelicious/internal/availability"
	"github.com/codr1/Padelicious/internal/config"
	"github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/selection"
	"github.com/codr1/Padelicious/internal/slots"
	"github.com/codr1/Padelicious/internal/timeutil"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrCourtInactive  = errors.New("court is not accepting reservations")
	ErrOutsideWindow  = errors.New("date is outside the booking window")
	ErrEmptySelection = errors.New("no slots selected")
	ErrUnknownSlot    = errors.New("slot is not part of the court schedule")
	ErrSlotEnded      = errors.New("slot has already ended")
	ErrSlotTaken      = errors.New("slot is already reserved")
	ErrCannotDisplace = errors.New("only a guaranteed reservation can displace a provisional one")
	ErrNotOwner       = errors.New("reservation belongs to another apartment")
	ErrNotCancellable = errors.New("reservation can no longer be cancelled")
	ErrInvalidPhone   = errors.New("contact phone is not a valid phone number")
)

// Policy is the booking configuration the service enforces.
type Policy struct {
	OpenTime       string
	CloseTime      string
	SlotDuration   time.Duration
	MaxSlots       int
	WindowDays     int
	FirstTierLimit int
}

func DefaultPolicy() Policy {
	return Policy{
		OpenTime:       slots.DefaultOpenTime,
		CloseTime:      slots.DefaultCloseTime,
		SlotDuration:   slots.DefaultDuration,
		MaxSlots:       selection.DefaultMaxSlots,
		WindowDays:     timeutil.DefaultBookingWindowDays,
		FirstTierLimit: 1,
	}
}

func PolicyFromConfig(cfg config.BookingConfig) Policy {
	return Policy{
		OpenTime:       cfg.OpenTime,
		CloseTime:      cfg.CloseTime,
		SlotDuration:   cfg.SlotDuration(),
		MaxSlots:       cfg.MaxSlotsPerBooking,
		WindowDays:     cfg.BookingWindowDays,
		FirstTierLimit: cfg.FirstTierLimit,
	}
}

type Option func(*Service)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLocation sets the club timezone used to interpret dates and clocks.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithDefaultRegion sets the region assumed for contact phones without a country code.
func WithDefaultRegion(region string) Option {
	return func(s *Service) {
		s.region = strings.ToUpper(strings.TrimSpace(region))
	}
}

// Service is safe for concurrent use.
type Service struct {
	db      *db.DB
	policy  Policy
	clock   clockwork.Clock
	loc     *time.Location
	region  string
	catalog []slots.TimeSlot
}

func NewService(database *db.DB, policy Policy, opts ...Option) (*Service, error) {
	if database == nil {
		return nil, errors.New("booking service requires a database")
	}
	catalog, err := slots.Generate(policy.OpenTime, policy.CloseTime, policy.SlotDuration)
	if err != nil {
		return nil, fmt.Errorf("build slot catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, errors.New("booking hours leave no bookable slots")
	}
	if policy.MaxSlots <= 0 {
		policy.MaxSlots = selection.DefaultMaxSlots
	}

	s := &Service{
		db:      database,
		policy:  policy,
		clock:   clockwork.NewRealClock(),
		loc:     time.Local,
		region:  "ES",
		catalog: catalog,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Policy() Policy {
	return s.policy
}

// Catalog returns a copy of the day's slot layout.
func (s *Service) Catalog() []slots.TimeSlot {
	out := make([]slots.TimeSlot, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *Service) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *Service) parseDate(value string) (string, error) {
	parsed, err := timeutil.ParseDate(value, s.loc)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return timeutil.FormatDate(parsed), nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func notFound(err error, what string) error {
	if isNoRows(err) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// ToReservation converts a stored row into the resolver's view.
func ToReservation(row dbgen.Reservation) availability.Reservation {
	tier, err := availability.ParseTier(row.PriorityTier)
	if err != nil {
		tier = availability.TierNone
	}
	return availability.Reservation{
		ID:        row.ID,
		CourtID:   row.CourtID,
		Apartment: row.ApartmentCode,
		Date:      row.ReservationDate,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Status:    row.Status,
		Tier:      tier,
		Protected: row.Protected,
		CreatedAt: row.CreatedAt,
	}
}

func toReservations(rows []dbgen.Reservation) []availability.Reservation {
	out := make([]availability.Reservation, len(rows))
	for i, row := range rows {
		out[i] = ToReservation(row)
	}
	return out
}

func ToOverride(row dbgen.SlotOverride) availability.Override {
	return availability.Override{
		ID:        row.ID,
		CourtID:   row.CourtID,
		Date:      row.OverrideDate,
		StartTime: row.StartTime,
		EndTime:   row.EndTime,
		Blocked:   row.Blocked,
		Protected: row.Protected,
		Reason:    row.Reason,
	}
}

func toOverrides(rows []dbgen.SlotOverride) []availability.Override {
	out := make([]availability.Override, len(rows))
	for i, row := range rows {
		out[i] = ToOverride(row)
	}
	return out
}
