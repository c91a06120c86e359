package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/availability"
	"github.com/codr1/Padelicious/internal/db"
	dbgen "github.com/codr1/Padelicious/internal/db/generated"
	"github.com/codr1/Padelicious/internal/timeutil"
)

func (s *Service) CreateCourt(ctx context.Context, name string) (dbgen.Court, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dbgen.Court{}, fmt.Errorf("%w: court name is required", ErrInvalidInput)
	}
	court, err := s.db.Queries.CreateCourt(ctx, name)
	if err != nil {
		if isConstraintViolation(err) {
			return dbgen.Court{}, fmt.Errorf("court %q: %w", name, ErrAlreadyExists)
		}
		return dbgen.Court{}, fmt.Errorf("create court: %w", err)
	}
	log.Ctx(ctx).Info().Int64("court_id", court.ID).Str("name", court.Name).Msg("Court created")
	return court, nil
}

func (s *Service) ListCourts(ctx context.Context) ([]dbgen.Court, error) {
	courts, err := s.db.Queries.ListCourts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	return courts, nil
}

// SetCourtActive opens or closes a court for new reservations. Existing
// reservations are left untouched.
func (s *Service) SetCourtActive(ctx context.Context, courtID int64, active bool) error {
	changed, err := s.db.Queries.SetCourtActive(ctx, dbgen.SetCourtActiveParams{ID: courtID, IsActive: active})
	if err != nil {
		return fmt.Errorf("update court: %w", err)
	}
	if changed == 0 {
		return fmt.Errorf("court: %w", ErrNotFound)
	}
	return nil
}

type OverrideRequest struct {
	CourtID   int64  `json:"courtId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Blocked   bool   `json:"blocked"`
	Protected bool   `json:"protected"`
	Reason    string `json:"reason"`
}

// SetOverride records an administrative blockout and/or protection. A blockout
// does not cancel reservations already holding the range; it only stops new
// picks. A protection also marks the confirmed reservations it overlaps.
func (s *Service) SetOverride(ctx context.Context, req OverrideRequest) (availability.Override, error) {
	date, err := s.parseDate(req.Date)
	if err != nil {
		return availability.Override{}, err
	}
	if !req.Blocked && !req.Protected {
		return availability.Override{}, fmt.Errorf("%w: override must block or protect", ErrInvalidInput)
	}
	start, err := timeutil.ClockToMinutes(req.StartTime)
	if err != nil {
		return availability.Override{}, fmt.Errorf("%w: startTime must be HH:MM", ErrInvalidInput)
	}
	end, err := timeutil.ClockToMinutes(req.EndTime)
	if err != nil {
		return availability.Override{}, fmt.Errorf("%w: endTime must be HH:MM", ErrInvalidInput)
	}
	if end <= start {
		return availability.Override{}, fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	var (
		row       dbgen.SlotOverride
		protected int64
	)
	err = s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		if _, err := q.GetCourt(ctx, req.CourtID); err != nil {
			return notFound(err, "court")
		}

		row, err = q.CreateOverride(ctx, dbgen.CreateOverrideParams{
			CourtID:      req.CourtID,
			OverrideDate: date,
			StartTime:    timeutil.MinutesToClock(start),
			EndTime:      timeutil.MinutesToClock(end),
			Blocked:      req.Blocked,
			Protected:    req.Protected,
			Reason:       strings.TrimSpace(req.Reason),
		})
		if err != nil {
			return fmt.Errorf("create override: %w", err)
		}
		if !row.Protected {
			return nil
		}

		protected, err = q.ProtectOverlappingReservations(ctx, dbgen.ProtectOverlappingReservationsParams{
			UpdatedAt:       s.now().UTC(),
			CourtID:         row.CourtID,
			ReservationDate: row.OverrideDate,
			StartTime:       row.StartTime,
			EndTime:         row.EndTime,
		})
		if err != nil {
			return fmt.Errorf("protect reservations: %w", err)
		}
		return nil
	})
	if err != nil {
		return availability.Override{}, err
	}

	log.Ctx(ctx).Info().
		Int64("override_id", row.ID).
		Int64("court_id", row.CourtID).
		Str("date", row.OverrideDate).
		Str("start_time", row.StartTime).
		Str("end_time", row.EndTime).
		Bool("blocked", row.Blocked).
		Bool("protected", row.Protected).
		Int64("reservations_protected", protected).
		Msg("Slot override created")
	return ToOverride(row), nil
}

func (s *Service) ListOverrides(ctx context.Context, courtID int64, date string) ([]availability.Override, error) {
	date, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Queries.ListOverrides(ctx, dbgen.ListOverridesParams{CourtID: courtID, OverrideDate: date})
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return toOverrides(rows), nil
}

// DeleteOverride removes an override. Reservations it protected lose the flag
// unless another protected override still covers them.
func (s *Service) DeleteOverride(ctx context.Context, id int64) error {
	var released int64
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		q := txdb.Queries

		override, err := q.GetOverride(ctx, id)
		if err != nil {
			return notFound(err, "override")
		}
		if _, err := q.DeleteOverride(ctx, id); err != nil {
			return fmt.Errorf("delete override: %w", err)
		}
		if !override.Protected {
			return nil
		}

		released, err = q.ReleaseUncoveredProtection(ctx, dbgen.ReleaseUncoveredProtectionParams{
			UpdatedAt:       s.now().UTC(),
			CourtID:         override.CourtID,
			ReservationDate: override.OverrideDate,
		})
		if err != nil {
			return fmt.Errorf("release protection: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().
		Int64("override_id", id).
		Int64("reservations_released", released).
		Msg("Slot override deleted")
	return nil
}

func (s *Service) PendingDisplacements(ctx context.Context, apartment string) ([]dbgen.Displacement, error) {
	apartment = normalizeApartmentCode(apartment)
	if _, err := s.db.Queries.GetApartment(ctx, apartment); err != nil {
		return nil, notFound(err, "apartment")
	}
	rows, err := s.db.Queries.ListPendingDisplacements(ctx, apartment)
	if err != nil {
		return nil, fmt.Errorf("list displacements: %w", err)
	}
	return rows, nil
}

// AcknowledgeDisplacement marks a displacement as delivered to the apartment.
func (s *Service) AcknowledgeDisplacement(ctx context.Context, id int64) error {
	changed, err := s.db.Queries.AcknowledgeDisplacement(ctx, id)
	if err != nil {
		return fmt.Errorf("acknowledge displacement: %w", err)
	}
	if changed == 0 {
		return fmt.Errorf("pending displacement: %w", ErrNotFound)
	}
	return nil
}

// CompletePastReservations moves confirmed reservations whose end time has
// passed to completed.
func (s *Service) CompletePastReservations(ctx context.Context) (int64, error) {
	now := s.now()
	completed, err := s.db.Queries.CompletePastReservations(ctx, dbgen.CompletePastReservationsParams{
		Today:     timeutil.FormatDate(now),
		NowClock:  timeutil.FormatClock(now),
		UpdatedAt: now.UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("complete past reservations: %w", err)
	}
	return completed, nil
}

// PurgeExpiredOverrides deletes overrides dated more than retentionDays ago.
func (s *Service) PurgeExpiredOverrides(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 0 {
		return 0, fmt.Errorf("%w: retention days must be 0 or greater", ErrInvalidInput)
	}
	cutoff := timeutil.FormatDate(s.now().AddDate(0, 0, -retentionDays))
	deleted, err := s.db.Queries.DeleteOverridesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge overrides: %w", err)
	}
	return deleted, nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
