package reminder

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/permissions"
)

// Event type prefixes; the milestone day is appended so day-3 and day-5
// reminders for the same resource are independent ledger entries.
const (
	portraitEventPrefix = "portrait_reminder_"
	galleryEventPrefix  = "gallery_reminder_"
)

// Service runs one scan-and-dispatch cycle: both moderation queues are
// scanned concurrently (independent reads), then each item that has reached
// a reminder milestone is dispatched sequentially.
type Service struct {
	scanner    *Scanner
	dispatcher *Dispatcher
	adminURL   string
	logger     *zap.Logger

	onDispatched func(queue string)
}

func NewService(
	scanner *Scanner,
	dispatcher *Dispatcher,
	adminURL string,
	logger *zap.Logger,
	onDispatched func(queue string),
) *Service {
	if onDispatched == nil {
		onDispatched = func(string) {}
	}
	return &Service{
		scanner: scanner, dispatcher: dispatcher,
		adminURL: adminURL, logger: logger,
		onDispatched: onDispatched,
	}
}

// RunCycle is the Clock's cycle function. Every failure is handled where it
// occurs (logged, item skipped); nothing propagates past the cycle.
func (s *Service) RunCycle(ctx context.Context) {
	var portraits, groups []*domain.PendingItem

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		portraits = s.scanner.Portraits(ctx)
	}()
	go func() {
		defer wg.Done()
		groups = s.scanner.GalleryGroups(ctx)
	}()
	wg.Wait()

	s.remindPortraits(ctx, portraits)
	s.remindGalleryGroups(ctx, groups)
}

func (s *Service) remindPortraits(ctx context.Context, items []*domain.PendingItem) {
	for _, item := range items {
		day, ok := domain.ReminderMilestone(item.DaysWaiting)
		if !ok {
			continue
		}
		eventType := fmt.Sprintf("%s%d", portraitEventPrefix, day)
		payload := domain.ReminderPayload{
			Title: "Dorfportrait wartet auf Freigabe",
			Body: fmt.Sprintf("Das Portrait von %s wartet seit %d Tagen auf eine Freigabe.",
				item.SubmitterLabel, item.DaysWaiting),
			URL: s.adminURL + "/admin/portraits",
			Tag: eventType,
		}

		sent, err := s.dispatcher.DispatchReminder(ctx, eventType, item.ResourceID,
			permissions.PortraitsView, payload)
		if err != nil {
			s.logger.Error("portrait reminder dispatch failed",
				zap.String("resource_id", item.ResourceID), zap.Error(err))
			continue
		}
		if sent > 0 {
			s.onDispatched("portraits")
			s.logger.Info("portrait reminder sent",
				zap.String("resource_id", item.ResourceID),
				zap.Int("days_waiting", item.DaysWaiting),
				zap.Int("subscribers", sent))
		}
	}
}

func (s *Service) remindGalleryGroups(ctx context.Context, items []*domain.PendingItem) {
	for _, item := range items {
		day, ok := domain.ReminderMilestone(item.DaysWaiting)
		if !ok {
			continue
		}
		eventType := fmt.Sprintf("%s%d", galleryEventPrefix, day)
		payload := domain.ReminderPayload{
			Title: "Neue Bilder in der Dorfgalerie",
			Body: fmt.Sprintf("%s hat %d Bilder hochgeladen, die seit %d Tagen auf eine Freigabe warten.",
				item.SubmitterLabel, item.ItemCount, item.DaysWaiting),
			URL: s.adminURL + "/admin/galerie",
			Tag: eventType,
		}

		sent, err := s.dispatcher.DispatchReminder(ctx, eventType, item.ResourceID,
			permissions.GalleryView, payload)
		if err != nil {
			s.logger.Error("gallery reminder dispatch failed",
				zap.String("resource_id", item.ResourceID), zap.Error(err))
			continue
		}
		if sent > 0 {
			s.onDispatched("gallery")
			s.logger.Info("gallery reminder sent",
				zap.String("resource_id", item.ResourceID),
				zap.Int("item_count", item.ItemCount),
				zap.Int("days_waiting", item.DaysWaiting),
				zap.Int("subscribers", sent))
		}
	}
}
