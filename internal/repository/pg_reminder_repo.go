package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/permissions"
)

type pgReminderRepository struct {
	pool *pgxpool.Pool
}

// NewPgReminderRepository returns a ReminderRepository backed by PostgreSQL.
func NewPgReminderRepository(pool *pgxpool.Pool) ReminderRepository {
	return &pgReminderRepository{pool: pool}
}

func (r *pgReminderRepository) FindPendingPortraits(ctx context.Context) ([]*domain.PendingItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, submitted_by, created_at
		FROM portraits
		WHERE status = 'pending'
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query pending portraits: %w", err)
	}
	defer rows.Close()

	var items []*domain.PendingItem
	for rows.Next() {
		item := &domain.PendingItem{ItemCount: 1}
		if err := rows.Scan(&item.ResourceID, &item.SubmitterLabel, &item.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan pending portrait: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgReminderRepository) FindPendingGalleryGroups(ctx context.Context) ([]*domain.PendingItem, error) {
	// One row per submission group; the oldest photo determines the group's
	// age, so MIN(created_at) is what the scanner ages against.
	rows, err := r.pool.Query(ctx, `
		SELECT group_id, submitted_by, COUNT(*), MIN(created_at)
		FROM gallery_images
		WHERE status = 'pending'
		GROUP BY group_id, submitted_by
		ORDER BY MIN(created_at)`)
	if err != nil {
		return nil, fmt.Errorf("query pending gallery groups: %w", err)
	}
	defer rows.Close()

	var items []*domain.PendingItem
	for rows.Next() {
		item := &domain.PendingItem{}
		if err := rows.Scan(&item.ResourceID, &item.SubmitterLabel, &item.ItemCount, &item.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan pending gallery group: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgReminderRepository) FindSubscriptionsForPermission(ctx context.Context, permission string) ([]*domain.PushSubscription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT s.id, s.user_id, s.endpoint, s.p256dh, s.auth, s.created_at
		FROM push_subscriptions s
		JOIN user_permissions p ON p.user_id = s.user_id
		WHERE p.permission = $1 OR p.permission = $2`,
		permission, permissions.Wildcard)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions for %q: %w", permission, err)
	}
	defer rows.Close()

	var subs []*domain.PushSubscription
	for rows.Next() {
		sub := &domain.PushSubscription{}
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *pgReminderRepository) ReminderRecorded(ctx context.Context, eventType, resourceID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reminder_ledger
			WHERE event_type = $1 AND resource_id = $2
		)`, eventType, resourceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reminder ledger: %w", err)
	}
	return exists, nil
}

func (r *pgReminderRepository) RecordReminder(ctx context.Context, eventType, resourceID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO reminder_ledger (event_type, resource_id, sent_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_type, resource_id) DO NOTHING`,
		eventType, resourceID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert reminder ledger entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *pgReminderRepository) UpsertSubscription(ctx context.Context, sub *domain.PushSubscription) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (endpoint) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    p256dh  = EXCLUDED.p256dh,
		    auth    = EXCLUDED.auth`,
		sub.ID, sub.UserID, sub.Endpoint, sub.P256dh, sub.Auth, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (r *pgReminderRepository) DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM push_subscriptions WHERE endpoint = $1`, endpoint)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

func (r *pgReminderRepository) GrantPermission(ctx context.Context, userID, permission string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_permissions (user_id, permission)
		VALUES ($1, $2)
		ON CONFLICT (user_id, permission) DO NOTHING`,
		userID, permission)
	if err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

func (r *pgReminderRepository) RevokePermission(ctx context.Context, userID, permission string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_permissions WHERE user_id = $1 AND permission = $2`,
		userID, permission)
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}
