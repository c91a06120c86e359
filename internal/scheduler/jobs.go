package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Padelicious/internal/config"
)

const (
	CompletionJobName    = "reservation_completion"
	OverridePurgeJobName = "override_purge"
)

// Maintainer is the booking housekeeping the scheduled jobs drive.
type Maintainer interface {
	CompletePastReservations(ctx context.Context) (int64, error)
	PurgeExpiredOverrides(ctx context.Context, retentionDays int) (int64, error)
}

// RegisterMaintenanceJobs registers reservation completion and override purging.
func RegisterMaintenanceJobs(svc *Service, bookings Maintainer, cfg config.JobsConfig) error {
	if bookings == nil {
		return fmt.Errorf("maintenance jobs require a booking service")
	}

	if _, err := svc.AddJob(CompletionJobName, cfg.CompletionCron, func(ctx context.Context) error {
		completed, err := bookings.CompletePastReservations(ctx)
		if err != nil {
			return err
		}
		if completed > 0 {
			log.Ctx(ctx).Info().Int64("completed", completed).Msg("Completed past reservations")
		}
		return nil
	}); err != nil {
		return fmt.Errorf("register %s: %w", CompletionJobName, err)
	}

	retention := cfg.OverrideRetentionDays
	if _, err := svc.AddJob(OverridePurgeJobName, cfg.OverridePurgeCron, func(ctx context.Context) error {
		deleted, err := bookings.PurgeExpiredOverrides(ctx, retention)
		if err != nil {
			return err
		}
		log.Ctx(ctx).Info().Int64("deleted", deleted).Int("retention_days", retention).Msg("Purged expired slot overrides")
		return nil
	}); err != nil {
		return fmt.Errorf("register %s: %w", OverridePurgeJobName, err)
	}

	return nil
}
