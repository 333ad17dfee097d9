package reminder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/reminder"
	"github.com/dorfportal/reminder-service/internal/repository"
)

func TestScanner_Portraits(t *testing.T) {
	repo := repository.NewMockReminderRepository()
	s := reminder.NewScanner(repo, zap.NewNop())
	ctx := context.Background()

	t.Run("empty queue yields no items", func(t *testing.T) {
		if items := s.Portraits(ctx); len(items) != 0 {
			t.Fatalf("expected no items, got %d", len(items))
		}
	})

	t.Run("pending portrait three days old", func(t *testing.T) {
		repo.AddPendingPortrait(&domain.PendingItem{
			ResourceID:     "portrait-1",
			SubmitterLabel: "Maria Huber",
			SubmittedAt:    time.Now().UTC().Add(-(3*24 + 2) * time.Hour),
		})

		items := s.Portraits(ctx)
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].DaysWaiting != 3 {
			t.Fatalf("expected DaysWaiting 3, got %d", items[0].DaysWaiting)
		}
		if items[0].ItemCount != 1 {
			t.Fatalf("portraits are singular, got ItemCount %d", items[0].ItemCount)
		}
	})
}

func TestScanner_GalleryGroups(t *testing.T) {
	repo := repository.NewMockReminderRepository()
	s := reminder.NewScanner(repo, zap.NewNop())
	ctx := context.Background()

	// Group of 4 photos submitted across 2 days; the oldest photo (5 days
	// ago) determines the group's age.
	repo.AddPendingGalleryGroup(&domain.PendingItem{
		ResourceID:     "grp-1",
		SubmitterLabel: "Musikverein",
		ItemCount:      4,
		SubmittedAt:    time.Now().UTC().Add(-(5*24 + 3) * time.Hour),
	})

	items := s.GalleryGroups(ctx)
	if len(items) != 1 {
		t.Fatalf("expected 1 grouped item, got %d", len(items))
	}
	if items[0].ItemCount != 4 {
		t.Fatalf("expected ItemCount 4, got %d", items[0].ItemCount)
	}
	if items[0].DaysWaiting != 5 {
		t.Fatalf("expected DaysWaiting 5, got %d", items[0].DaysWaiting)
	}
}

func TestScanner_DayTruncation(t *testing.T) {
	repo := repository.NewMockReminderRepository()
	s := reminder.NewScanner(repo, zap.NewNop())

	// 2 days 23 hours waiting truncates to 2, not 3.
	repo.AddPendingPortrait(&domain.PendingItem{
		ResourceID:  "portrait-1",
		SubmittedAt: time.Now().UTC().Add(-(2*24 + 23) * time.Hour),
	})

	items := s.Portraits(context.Background())
	if len(items) != 1 || items[0].DaysWaiting != 2 {
		t.Fatalf("expected DaysWaiting 2, got %+v", items)
	}
}

func TestScanner_StoreFailureYieldsEmptyResult(t *testing.T) {
	repo := repository.NewMockReminderRepository()
	repo.PortraitsErr = errors.New("connection refused")
	repo.AddPendingGalleryGroup(&domain.PendingItem{
		ResourceID:  "grp-1",
		ItemCount:   2,
		SubmittedAt: time.Now().UTC().Add(-4 * 24 * time.Hour),
	})
	s := reminder.NewScanner(repo, zap.NewNop())
	ctx := context.Background()

	if items := s.Portraits(ctx); items != nil {
		t.Fatalf("failed scan must yield empty result, got %d items", len(items))
	}
	// The other queue is unaffected.
	if items := s.GalleryGroups(ctx); len(items) != 1 {
		t.Fatalf("healthy queue must still scan, got %d items", len(items))
	}
}
