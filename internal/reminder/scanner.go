package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/repository"
)

// Scanner loads the two moderation queues and attaches each pending item's
// age in whole days. Scans are read-only; a persistence failure in one queue
// is logged and yields an empty result so the other queue is still evaluated.
type Scanner struct {
	repo   repository.ReminderRepository
	logger *zap.Logger
}

func NewScanner(repo repository.ReminderRepository, logger *zap.Logger) *Scanner {
	return &Scanner{repo: repo, logger: logger}
}

// Portraits returns one item per pending community portrait.
func (s *Scanner) Portraits(ctx context.Context) []*domain.PendingItem {
	items, err := s.repo.FindPendingPortraits(ctx)
	if err != nil {
		s.logger.Error("portrait scan failed", zap.Error(err))
		return nil
	}
	s.age(items)
	return items
}

// GalleryGroups returns one item per pending shared-gallery submission group.
func (s *Scanner) GalleryGroups(ctx context.Context) []*domain.PendingItem {
	items, err := s.repo.FindPendingGalleryGroups(ctx)
	if err != nil {
		s.logger.Error("gallery scan failed", zap.Error(err))
		return nil
	}
	s.age(items)
	return items
}

func (s *Scanner) age(items []*domain.PendingItem) {
	now := time.Now().UTC()
	for _, item := range items {
		item.DaysWaiting = wholeDays(now.Sub(item.SubmittedAt))
	}
}

// wholeDays truncates to full elapsed days: 2 days 23 hours -> 2.
func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
