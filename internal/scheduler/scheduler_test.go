package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Padelicious/internal/config"
)

type fakeMaintainer struct {
	mu        sync.Mutex
	completed int
	purged    []int
	ran       chan string
}

func newFakeMaintainer() *fakeMaintainer {
	return &fakeMaintainer{ran: make(chan string, 4)}
}

func (f *fakeMaintainer) CompletePastReservations(ctx context.Context) (int64, error) {
	f.mu.Lock()
	f.completed++
	f.mu.Unlock()
	f.ran <- CompletionJobName
	return 2, nil
}

func (f *fakeMaintainer) PurgeExpiredOverrides(ctx context.Context, retentionDays int) (int64, error) {
	f.mu.Lock()
	f.purged = append(f.purged, retentionDays)
	f.mu.Unlock()
	f.ran <- OverridePurgeJobName
	return 0, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	svc, err := New(WithClock(clockwork.NewFakeClock()), WithLocation(time.UTC))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = svc.Stop()
	})
	return svc
}

func TestAddJobValidation(t *testing.T) {
	svc := newTestService(t)
	noop := func(context.Context) error { return nil }

	if _, err := svc.AddJob(" ", "* * * * *", noop); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := svc.AddJob("job", "", noop); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := svc.AddJob("job", "not a cron", noop); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}

	var nilSvc *Service
	if _, err := nilSvc.AddJob("job", "* * * * *", noop); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRegisterMaintenanceJobs(t *testing.T) {
	svc := newTestService(t)
	maintainer := newFakeMaintainer()
	cfg := config.Default().Jobs
	cfg.OverrideRetentionDays = 14

	if err := RegisterMaintenanceJobs(svc, maintainer, cfg); err != nil {
		t.Fatalf("RegisterMaintenanceJobs: %v", err)
	}

	jobs := svc.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	svc.Start()
	for _, job := range jobs {
		if err := job.RunNow(); err != nil {
			t.Fatalf("RunNow(%s): %v", job.Name(), err)
		}
	}

	seen := map[string]bool{}
	for len(seen) < 2 {
		select {
		case name := <-maintainer.ran:
			seen[name] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for jobs, saw %v", seen)
		}
	}

	maintainer.mu.Lock()
	defer maintainer.mu.Unlock()
	if maintainer.completed != 1 {
		t.Fatalf("expected completion to run once, got %d", maintainer.completed)
	}
	if len(maintainer.purged) != 1 || maintainer.purged[0] != 14 {
		t.Fatalf("expected purge with 14 days retention, got %v", maintainer.purged)
	}
}

func TestRegisterMaintenanceJobsRequiresService(t *testing.T) {
	svc := newTestService(t)
	if err := RegisterMaintenanceJobs(svc, nil, config.Default().Jobs); err == nil {
		t.Fatal("expected error without a booking service")
	}
}

func TestSingletonNotInitialized(t *testing.T) {
	if service != nil || serviceErr != nil {
		t.Skip("singleton already initialized")
	}
	if err := Start(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
