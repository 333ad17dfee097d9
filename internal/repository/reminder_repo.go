package repository

import (
	"context"

	"github.com/dorfportal/reminder-service/internal/domain"
)

// ReminderRepository defines all persistence operations the reminder
// subsystem touches. The pgx implementation is in pg_reminder_repo.go.
// Tests use a hand-written mock (mock_reminder_repo.go).
//
// Every operation is a single independent statement; the subsystem performs
// no multi-statement transactions. RecordReminder is the one place where
// storage-level atomicity matters: it must be insert-if-absent so two racing
// dispatchers cannot both claim the same milestone.
type ReminderRepository interface {
	FindPendingPortraits(ctx context.Context) ([]*domain.PendingItem, error)
	FindPendingGalleryGroups(ctx context.Context) ([]*domain.PendingItem, error)

	// FindSubscriptionsForPermission returns every push subscription whose
	// owner holds the given permission or the wildcard.
	FindSubscriptionsForPermission(ctx context.Context, permission string) ([]*domain.PushSubscription, error)

	ReminderRecorded(ctx context.Context, eventType, resourceID string) (bool, error)
	// RecordReminder inserts the ledger entry if absent and reports whether
	// this caller actually wrote it.
	RecordReminder(ctx context.Context, eventType, resourceID string) (bool, error)

	UpsertSubscription(ctx context.Context, sub *domain.PushSubscription) error
	DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error

	GrantPermission(ctx context.Context, userID, permission string) error
	RevokePermission(ctx context.Context, userID, permission string) error
}
