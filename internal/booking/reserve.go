package booking

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/availability"
	"github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/selection"
	"github.com/codr1/Padelicious/internal/slots"
	"github.com/codr1/Padelicious/internal/timeutil"
)

// DayAvailability is one court day as seen by an apartment choosing slots.
type DayAvailability struct {
	CourtID  int64                        `json:"courtId"`
	Date     string                       `json:"date"`
	Bookable bool                         `json:"bookable"`
	Slots    []availability.AnnotatedSlot `json:"slots"`
}

func (s *Service) Availability(ctx context.Context, courtID int64, date string) (DayAvailability, error) {
	date, err := s.parseDate(date)
	if err != nil {
		return DayAvailability{}, err
	}
	court, err := s.db.Queries.GetCourt(ctx, courtID)
	if err != nil {
		return DayAvailability{}, notFound(err, "court")
	}
	if !court.IsActive {
		return DayAvailability{}, ErrCourtInactive
	}

	annotated, err := s.resolveDay(ctx, s.db.Queries, courtID, date)
	if err != nil {
		return DayAvailability{}, err
	}

	return DayAvailability{
		CourtID:  courtID,
		Date:     date,
		Bookable: timeutil.IsWithinBookingWindow(date, s.now(), s.policy.WindowDays),
		Slots:    annotated,
	}, nil
}

// resolveDay annotates the catalog for one court day and flags slots that
// have already ended.
func (s *Service) resolveDay(ctx context.Context, q *dbgen.Queries, courtID int64, date string) ([]availability.AnnotatedSlot, error) {
	reservations, err := q.ListReservationsForDay(ctx, dbgen.ListReservationsForDayParams{
		CourtID:         courtID,
		ReservationDate: date,
	})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	overrides, err := q.ListOverrides(ctx, dbgen.ListOverridesParams{
		CourtID:      courtID,
		OverrideDate: date,
	})
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}

	annotated := availability.Resolve(s.catalog, toReservations(reservations), toOverrides(overrides))
	now := s.now()
	for i := range annotated {
		annotated[i].Ended = timeutil.HasEnded(date, annotated[i].EndTime, now)
	}
	return annotated, nil
}

type ReserveRequest struct {
	CourtID    int64    `json:"courtId"`
	Apartment  string   `json:"apartment"`
	Date       string   `json:"date"`
	StartTimes []string `json:"startTimes"`
}

type ReserveResult struct {
	Reservation   availability.Reservation `json:"reservation"`
	Span          selection.Span           `json:"span"`
	Displacements []dbgen.Displacement     `json:"displacements"`
}

// Reserve books the requested consecutive slots as a single reservation. The
// picks are replayed through a selection engine over a fresh snapshot, so the
// same contiguity, same-day and size rules apply as on the client.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (ReserveResult, error) {
	apartment := normalizeApartmentCode(req.Apartment)
	if apartment == "" {
		return ReserveResult{}, fmt.Errorf("%w: apartment is required", ErrInvalidInput)
	}
	date, err := s.parseDate(req.Date)
	if err != nil {
		return ReserveResult{}, err
	}
	starts := normalizeStartTimes(req.StartTimes)
	if len(starts) == 0 {
		return ReserveResult{}, ErrEmptySelection
	}

	now := s.now()
	if !timeutil.IsWithinBookingWindow(date, now, s.policy.WindowDays) {
		return ReserveResult{}, ErrOutsideWindow
	}

	logger := log.Ctx(ctx).With().
		Str("component", "booking").
		Int64("court_id", req.CourtID).
		Str("apartment", apartment).
		Str("date", date).
		Logger()

	var result ReserveResult
	err = s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		court, err := q.GetCourt(ctx, req.CourtID)
		if err != nil {
			return notFound(err, "court")
		}
		if !court.IsActive {
			return ErrCourtInactive
		}
		if _, err := q.GetApartment(ctx, apartment); err != nil {
			return notFound(err, "apartment")
		}

		annotated, err := s.resolveDay(ctx, q, req.CourtID, date)
		if err != nil {
			return err
		}

		engine := selection.NewEngine(s.policy.MaxSlots)
		for _, start := range starts {
			slot, ok := availability.Find(annotated, start)
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownSlot, start)
			}
			if slot.Ended {
				return fmt.Errorf("%w: %s", ErrSlotEnded, slot)
			}
			if slot.ConflictingReservation != nil && slot.ConflictingReservation.Apartment == apartment {
				return fmt.Errorf("%w: %s", ErrSlotTaken, slot)
			}
			if _, err := engine.Toggle(slot, date); err != nil {
				return fmt.Errorf("%w: %s", err, slot)
			}
		}
		if !engine.Contiguous() {
			return selection.ErrNotConsecutive
		}
		span := engine.Span()

		tier, err := s.tierFor(ctx, q, apartment, now)
		if err != nil {
			return err
		}
		if len(span.DisplacedSlots) > 0 && tier != availability.TierFirst {
			return ErrCannotDisplace
		}

		// The snapshot above already decided the picks; this pass collects
		// whole reservations to displace, including parts outside the span.
		overlapping, err := q.ListOverlappingReservations(ctx, dbgen.ListOverlappingReservationsParams{
			CourtID:         req.CourtID,
			ReservationDate: date,
			StartTime:       span.StartTime,
			EndTime:         span.EndTime,
		})
		if err != nil {
			return fmt.Errorf("list overlapping reservations: %w", err)
		}
		overrides, err := q.ListOverrides(ctx, dbgen.ListOverridesParams{
			CourtID:      req.CourtID,
			OverrideDate: date,
		})
		if err != nil {
			return fmt.Errorf("list overrides: %w", err)
		}
		// A displaced reservation is released whole, so protection anywhere
		// in its range shields it, not only on the picked slots.
		for _, existing := range overlapping {
			if !displaceable(existing, apartment, tier) ||
				protectedBy(overrides, existing.StartTime, existing.EndTime) {
				return fmt.Errorf("%w: %s-%s", ErrSlotTaken, existing.StartTime, existing.EndTime)
			}
		}

		stamp := now.UTC()
		created, err := q.CreateReservation(ctx, dbgen.CreateReservationParams{
			CourtID:         req.CourtID,
			ApartmentCode:   apartment,
			ReservationDate: date,
			StartTime:       span.StartTime,
			EndTime:         span.EndTime,
			PriorityTier:    tier.String(),
			Protected:       protectedBy(overrides, span.StartTime, span.EndTime),
			CreatedAt:       stamp,
			UpdatedAt:       stamp,
		})
		if err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		displacements := make([]dbgen.Displacement, 0, len(overlapping))
		for _, existing := range overlapping {
			changed, err := q.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
				ID:        existing.ID,
				Status:    availability.StatusDisplaced,
				UpdatedAt: stamp,
			})
			if err != nil {
				return fmt.Errorf("displace reservation %d: %w", existing.ID, err)
			}
			if changed == 0 {
				return fmt.Errorf("%w: reservation %d changed concurrently", ErrSlotTaken, existing.ID)
			}
			displacement, err := q.CreateDisplacement(ctx, dbgen.CreateDisplacementParams{
				DisplacedReservationID:  existing.ID,
				DisplacingReservationID: created.ID,
				DisplacedApartment:      existing.ApartmentCode,
				CourtID:                 existing.CourtID,
				ReservationDate:         existing.ReservationDate,
				StartTime:               existing.StartTime,
				EndTime:                 existing.EndTime,
				CreatedAt:               stamp,
			})
			if err != nil {
				return fmt.Errorf("record displacement of %d: %w", existing.ID, err)
			}
			displacements = append(displacements, displacement)
		}

		result = ReserveResult{
			Reservation:   ToReservation(created),
			Span:          *span,
			Displacements: displacements,
		}
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Strs("start_times", starts).Msg("Reservation rejected")
		return ReserveResult{}, err
	}

	event := logger.Info().
		Int64("reservation_id", result.Reservation.ID).
		Str("tier", result.Reservation.Tier.String()).
		Str("start_time", result.Span.StartTime).
		Str("end_time", result.Span.EndTime)
	if len(result.Displacements) > 0 {
		event = event.Int("displaced", len(result.Displacements))
	}
	event.Msg("Reservation created")

	return result, nil
}

// tierFor applies the apartment limit: guaranteed while the apartment holds
// fewer upcoming guaranteed reservations than the limit, provisional after.
func (s *Service) tierFor(ctx context.Context, q *dbgen.Queries, apartment string, now time.Time) (availability.Tier, error) {
	count, err := q.CountUpcomingFirstTier(ctx, upcomingParams(apartment, now))
	if err != nil {
		return availability.TierNone, fmt.Errorf("count guaranteed reservations: %w", err)
	}
	if count < int64(s.policy.FirstTierLimit) {
		return availability.TierFirst, nil
	}
	return availability.TierSecond, nil
}

func displaceable(existing dbgen.Reservation, apartment string, tier availability.Tier) bool {
	return tier == availability.TierFirst &&
		existing.PriorityTier == availability.TierSecond.String() &&
		!existing.Protected &&
		existing.ApartmentCode != apartment
}

// protectedBy reports whether a protected override intersects [start, end).
func protectedBy(overrides []dbgen.SlotOverride, start, end string) bool {
	for _, o := range overrides {
		if o.Protected && slots.Overlaps(o.StartTime, o.EndTime, start, end) {
			return true
		}
	}
	return false
}

type CancelResult struct {
	Reservation availability.Reservation  `json:"reservation"`
	Promoted    *availability.Reservation `json:"promoted,omitempty"`
}

// Cancel releases an apartment's upcoming reservation. Giving up a guaranteed
// reservation promotes the apartment's next provisional one when the limit
// allows it.
func (s *Service) Cancel(ctx context.Context, reservationID int64, apartment string) (CancelResult, error) {
	apartment = normalizeApartmentCode(apartment)
	if apartment == "" {
		return CancelResult{}, fmt.Errorf("%w: apartment is required", ErrInvalidInput)
	}
	now := s.now()

	var result CancelResult
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		existing, err := q.GetReservation(ctx, reservationID)
		if err != nil {
			return notFound(err, "reservation")
		}
		if existing.ApartmentCode != apartment {
			return ErrNotOwner
		}
		if existing.Status != availability.StatusConfirmed ||
			!timeutil.IsInFuture(existing.ReservationDate, existing.StartTime, now) {
			return ErrNotCancellable
		}

		stamp := now.UTC()
		changed, err := q.UpdateReservationStatus(ctx, dbgen.UpdateReservationStatusParams{
			ID:        existing.ID,
			Status:    availability.StatusCancelled,
			UpdatedAt: stamp,
		})
		if err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}
		if changed == 0 {
			return ErrNotCancellable
		}
		existing.Status = availability.StatusCancelled
		existing.UpdatedAt = stamp
		result.Reservation = ToReservation(existing)

		if existing.PriorityTier != availability.TierFirst.String() {
			return nil
		}
		promoted, err := s.promoteNext(ctx, q, apartment, now)
		if err != nil {
			return err
		}
		result.Promoted = promoted
		return nil
	})
	if err != nil {
		return CancelResult{}, err
	}

	event := log.Ctx(ctx).Info().
		Int64("reservation_id", reservationID).
		Str("apartment", apartment)
	if result.Promoted != nil {
		event = event.Int64("promoted_reservation_id", result.Promoted.ID)
	}
	event.Msg("Reservation cancelled")
	return result, nil
}

func (s *Service) promoteNext(ctx context.Context, q *dbgen.Queries, apartment string, now time.Time) (*availability.Reservation, error) {
	tier, err := s.tierFor(ctx, q, apartment, now)
	if err != nil || tier != availability.TierFirst {
		return nil, err
	}

	next, err := q.EarliestUpcomingSecondTier(ctx, dbgen.EarliestUpcomingSecondTierParams(upcomingParams(apartment, now)))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find provisional reservation to promote: %w", err)
	}
	if _, err := q.UpdateReservationTier(ctx, dbgen.UpdateReservationTierParams{
		ID:           next.ID,
		PriorityTier: availability.TierFirst.String(),
		UpdatedAt:    now.UTC(),
	}); err != nil {
		return nil, fmt.Errorf("promote reservation %d: %w", next.ID, err)
	}
	next.PriorityTier = availability.TierFirst.String()
	promoted := ToReservation(next)
	return &promoted, nil
}

func (s *Service) ListReservations(ctx context.Context, courtID int64, date string) ([]availability.Reservation, error) {
	date, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Queries.ListReservationsForDay(ctx, dbgen.ListReservationsForDayParams{
		CourtID:         courtID,
		ReservationDate: date,
	})
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return toReservations(rows), nil
}

func (s *Service) ApartmentReservations(ctx context.Context, apartment string) ([]availability.Reservation, error) {
	apartment = normalizeApartmentCode(apartment)
	if _, err := s.db.Queries.GetApartment(ctx, apartment); err != nil {
		return nil, notFound(err, "apartment")
	}
	rows, err := s.db.Queries.ListApartmentReservations(ctx, apartment)
	if err != nil {
		return nil, fmt.Errorf("list apartment reservations: %w", err)
	}
	return toReservations(rows), nil
}

func normalizeStartTimes(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		normalized = append(normalized, value)
	}
	// HH:MM sorts chronologically, so picks replay in slot order.
	sort.Strings(normalized)
	return normalized
}

func upcomingParams(apartment string, now time.Time) dbgen.CountUpcomingFirstTierParams {
	return dbgen.CountUpcomingFirstTierParams{
		ApartmentCode: apartment,
		Today:         timeutil.FormatDate(now),
		NowClock:      timeutil.FormatClock(now),
	}
}
