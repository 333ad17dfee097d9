package reminder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/permissions"
	"github.com/dorfportal/reminder-service/internal/ratelimiter"
	"github.com/dorfportal/reminder-service/internal/reminder"
	"github.com/dorfportal/reminder-service/internal/repository"
)

func newCycleService(repo *repository.MockReminderRepository, transport *stubTransport) *reminder.Service {
	logger := zap.NewNop()
	scanner := reminder.NewScanner(repo, logger)
	dispatcher := reminder.NewDispatcher(repo, transport, ratelimiter.New(1000), logger, reminder.MetricHooks{})
	return reminder.NewService(scanner, dispatcher, "https://dorfportal.example", logger, nil)
}

func daysAgo(days int) time.Time {
	return time.Now().UTC().Add(-time.Duration(days*24+2) * time.Hour)
}

func TestService_RunCycle(t *testing.T) {
	repo := repository.NewMockReminderRepository()
	transport := newStubTransport()
	svc := newCycleService(repo, transport)
	ctx := context.Background()

	subscribe(t, repo, "u1", "https://push.example/portraits", permissions.PortraitsView)
	subscribe(t, repo, "u2", "https://push.example/gallery", permissions.GalleryView)

	repo.AddPendingPortrait(&domain.PendingItem{
		ResourceID: "portrait-1", SubmitterLabel: "Maria Huber", SubmittedAt: daysAgo(3),
	})
	repo.AddPendingPortrait(&domain.PendingItem{
		ResourceID: "portrait-2", SubmitterLabel: "Josef Maier", SubmittedAt: daysAgo(2),
	})
	repo.AddPendingGalleryGroup(&domain.PendingItem{
		ResourceID: "grp-1", SubmitterLabel: "Musikverein", ItemCount: 4, SubmittedAt: daysAgo(5),
	})

	svc.RunCycle(ctx)

	// portrait-1 (day 3) and grp-1 (day 5) fire; portrait-2 (day 2) does not.
	if n := transport.sentCount(); n != 2 {
		t.Fatalf("expected 2 deliveries, got %d", n)
	}
	if repo.LedgerSize() != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", repo.LedgerSize())
	}

	// A second cycle on unchanged data sends nothing new.
	svc.RunCycle(ctx)
	if n := transport.sentCount(); n != 2 {
		t.Fatalf("repeat cycle must not re-send, got %d deliveries", n)
	}
}

func TestService_RunCycleSurvivesOneQueueFailing(t *testing.T) {
	repo := repository.NewMockReminderRepository()
	repo.PortraitsErr = errors.New("relation does not exist")
	transport := newStubTransport()
	svc := newCycleService(repo, transport)
	ctx := context.Background()

	subscribe(t, repo, "u1", "https://push.example/gallery", permissions.GalleryView)
	repo.AddPendingGalleryGroup(&domain.PendingItem{
		ResourceID: "grp-1", SubmitterLabel: "Musikverein", ItemCount: 2, SubmittedAt: daysAgo(3),
	})

	svc.RunCycle(ctx)

	if n := transport.sentCount(); n != 1 {
		t.Fatalf("gallery reminder must still go out, got %d deliveries", n)
	}
}

func TestService_RunCycleWithEmptyQueues(t *testing.T) {
	repo := repository.NewMockReminderRepository()
	transport := newStubTransport()
	svc := newCycleService(repo, transport)

	svc.RunCycle(context.Background())

	if transport.sentCount() != 0 || repo.LedgerSize() != 0 {
		t.Fatal("empty queues must produce no deliveries and no ledger entries")
	}
}
