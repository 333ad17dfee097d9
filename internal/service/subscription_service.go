package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/repository"
)

// SubscriptionService owns push-subscription lifecycle: browsers register
// endpoints, and endpoints are removed either explicitly or by the
// dispatcher when the push service reports them gone.
// HTTP handlers depend on this service, not on the repository.
type SubscriptionService struct {
	repo   repository.ReminderRepository
	logger *zap.Logger
}

func NewSubscriptionService(repo repository.ReminderRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, logger: logger}
}

// Register validates and upserts a subscription. Re-registering an existing
// endpoint (same browser, new session) updates its keys and owner in place.
func (s *SubscriptionService) Register(ctx context.Context, req domain.RegisterSubscriptionRequest) (*domain.PushSubscription, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub := &domain.PushSubscription{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("persist subscription: %w", err)
	}

	s.logger.Info("push subscription registered",
		zap.String("user_id", sub.UserID))
	return sub, nil
}

// Unregister removes a subscription by its endpoint URL.
func (s *SubscriptionService) Unregister(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return domain.ErrInvalidEndpoint
	}
	if err := s.repo.DeleteSubscriptionByEndpoint(ctx, endpoint); err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}
