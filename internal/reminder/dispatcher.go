package reminder

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/push"
	"github.com/dorfportal/reminder-service/internal/ratelimiter"
	"github.com/dorfportal/reminder-service/internal/repository"
)

// MetricHooks lets the dispatcher report delivery outcomes without importing
// the metrics package. All fields are optional (nil = no-op).
type MetricHooks struct {
	OnDelivered func()
	OnFailed    func(reason string)
	OnPruned    func()
}

// Dispatcher delivers one reminder to every subscriber entitled to act on a
// queue, at most once per (eventType, resourceID) across cycles and restarts.
//
// Ordering of the ledger write matters: the entry is inserted before any
// delivery is attempted, but only once at least one subscriber exists. An
// item with no subscribers therefore stays unclaimed and a later cycle can
// still send once somebody subscribes; a claimed milestone can never be sent
// twice even by two processes sharing the store, because the insert is
// if-absent and the loser backs off.
type Dispatcher struct {
	repo      repository.ReminderRepository
	transport push.Transport
	limiter   *ratelimiter.Limiter
	logger    *zap.Logger

	onDelivered func()
	onFailed    func(reason string)
	onPruned    func()
}

func NewDispatcher(
	repo repository.ReminderRepository,
	transport push.Transport,
	limiter *ratelimiter.Limiter,
	logger *zap.Logger,
	hooks MetricHooks,
) *Dispatcher {
	if hooks.OnDelivered == nil {
		hooks.OnDelivered = func() {}
	}
	if hooks.OnFailed == nil {
		hooks.OnFailed = func(string) {}
	}
	if hooks.OnPruned == nil {
		hooks.OnPruned = func() {}
	}
	return &Dispatcher{
		repo: repo, transport: transport, limiter: limiter, logger: logger,
		onDelivered: hooks.OnDelivered, onFailed: hooks.OnFailed, onPruned: hooks.OnPruned,
	}
}

// DispatchReminder sends payload to every subscription whose owner holds
// permission (or the wildcard) and returns the number of successful
// deliveries. Returns 0 without side effects when the milestone was already
// claimed or nobody is subscribed.
func (d *Dispatcher) DispatchReminder(
	ctx context.Context,
	eventType, resourceID, permission string,
	payload domain.ReminderPayload,
) (int, error) {
	log := d.logger.With(
		zap.String("event_type", eventType),
		zap.String("resource_id", resourceID),
	)

	recorded, err := d.repo.ReminderRecorded(ctx, eventType, resourceID)
	if err != nil {
		return 0, fmt.Errorf("ledger lookup: %w", err)
	}
	if recorded {
		return 0, nil
	}

	subs, err := d.repo.FindSubscriptionsForPermission(ctx, permission)
	if err != nil {
		return 0, fmt.Errorf("resolve subscribers: %w", err)
	}
	if len(subs) == 0 {
		// No ledger write: the milestone stays claimable so a later cycle
		// can still notify a freshly subscribed admin.
		log.Debug("no subscribers for reminder", zap.String("permission", permission))
		return 0, nil
	}

	won, err := d.repo.RecordReminder(ctx, eventType, resourceID)
	if err != nil {
		return 0, fmt.Errorf("record reminder: %w", err)
	}
	if !won {
		// Another dispatcher claimed the milestone between our existence
		// check and the insert.
		return 0, nil
	}

	var delivered atomic.Int64
	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *domain.PushSubscription) {
			defer wg.Done()
			if d.deliver(ctx, sub, payload, log) {
				delivered.Add(1)
			}
		}(sub)
	}
	wg.Wait()

	return int(delivered.Load()), nil
}

// deliver attempts one endpoint. Failures never affect sibling deliveries:
// permanently gone endpoints are pruned, transient failures are logged and
// left for no retry this cycle.
func (d *Dispatcher) deliver(
	ctx context.Context,
	sub *domain.PushSubscription,
	payload domain.ReminderPayload,
	log *zap.Logger,
) bool {
	if err := d.limiter.Wait(ctx); err != nil {
		// ctx cancelled while waiting for a token.
		return false
	}

	err := d.transport.Send(ctx, sub, payload)
	if err == nil {
		d.onDelivered()
		return true
	}

	if push.IsEndpointGone(err) {
		log.Info("pruning expired push subscription",
			zap.String("endpoint", sub.Endpoint), zap.Error(err))
		if derr := d.repo.DeleteSubscriptionByEndpoint(ctx, sub.Endpoint); derr != nil {
			log.Error("failed to prune subscription",
				zap.String("endpoint", sub.Endpoint), zap.Error(derr))
		}
		d.onFailed("gone")
		d.onPruned()
		return false
	}

	log.Warn("push delivery failed",
		zap.String("endpoint", sub.Endpoint), zap.Error(err))
	d.onFailed("transient")
	return false
}
