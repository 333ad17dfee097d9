package repository

import (
	"context"
	"sync"

	"github.com/dorfportal/reminder-service/internal/domain"
	"github.com/dorfportal/reminder-service/internal/permissions"
)

// MockReminderRepository is a hand-written, in-memory implementation of
// ReminderRepository used in unit tests. No mock-generation library needed.
type MockReminderRepository struct {
	mu            sync.RWMutex
	portraits     []*domain.PendingItem
	galleryGroups []*domain.PendingItem
	subscriptions map[string]*domain.PushSubscription // keyed by endpoint
	perms         map[string]map[string]struct{}      // userID -> permissions
	ledger        map[[2]string]struct{}              // (eventType, resourceID)

	// Optional error overrides — set in tests to simulate failure paths.
	PortraitsErr     error
	GalleryGroupsErr error
	SubscriptionsErr error
	LedgerReadErr    error
	LedgerWriteErr   error
}

func NewMockReminderRepository() *MockReminderRepository {
	return &MockReminderRepository{
		subscriptions: make(map[string]*domain.PushSubscription),
		perms:         make(map[string]map[string]struct{}),
		ledger:        make(map[[2]string]struct{}),
	}
}

// AddPendingPortrait seeds a pending portrait for scans.
func (m *MockReminderRepository) AddPendingPortrait(item *domain.PendingItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *item
	clone.ItemCount = 1
	m.portraits = append(m.portraits, &clone)
}

// AddPendingGalleryGroup seeds a pending gallery group for scans.
func (m *MockReminderRepository) AddPendingGalleryGroup(item *domain.PendingItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *item
	m.galleryGroups = append(m.galleryGroups, &clone)
}

func (m *MockReminderRepository) FindPendingPortraits(_ context.Context) ([]*domain.PendingItem, error) {
	if m.PortraitsErr != nil {
		return nil, m.PortraitsErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clonePending(m.portraits), nil
}

func (m *MockReminderRepository) FindPendingGalleryGroups(_ context.Context) ([]*domain.PendingItem, error) {
	if m.GalleryGroupsErr != nil {
		return nil, m.GalleryGroupsErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clonePending(m.galleryGroups), nil
}

func (m *MockReminderRepository) FindSubscriptionsForPermission(_ context.Context, permission string) ([]*domain.PushSubscription, error) {
	if m.SubscriptionsErr != nil {
		return nil, m.SubscriptionsErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var subs []*domain.PushSubscription
	for _, sub := range m.subscriptions {
		userPerms := m.perms[sub.UserID]
		if _, ok := userPerms[permission]; ok {
			clone := *sub
			subs = append(subs, &clone)
			continue
		}
		if _, ok := userPerms[permissions.Wildcard]; ok {
			clone := *sub
			subs = append(subs, &clone)
		}
	}
	return subs, nil
}

func (m *MockReminderRepository) ReminderRecorded(_ context.Context, eventType, resourceID string) (bool, error) {
	if m.LedgerReadErr != nil {
		return false, m.LedgerReadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.ledger[[2]string{eventType, resourceID}]
	return ok, nil
}

func (m *MockReminderRepository) RecordReminder(_ context.Context, eventType, resourceID string) (bool, error) {
	if m.LedgerWriteErr != nil {
		return false, m.LedgerWriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{eventType, resourceID}
	if _, ok := m.ledger[key]; ok {
		return false, nil
	}
	m.ledger[key] = struct{}{}
	return true, nil
}

func (m *MockReminderRepository) UpsertSubscription(_ context.Context, sub *domain.PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *sub
	m.subscriptions[sub.Endpoint] = &clone
	return nil
}

func (m *MockReminderRepository) DeleteSubscriptionByEndpoint(_ context.Context, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, endpoint)
	return nil
}

func (m *MockReminderRepository) GrantPermission(_ context.Context, userID, permission string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.perms[userID] == nil {
		m.perms[userID] = make(map[string]struct{})
	}
	m.perms[userID][permission] = struct{}{}
	return nil
}

func (m *MockReminderRepository) RevokePermission(_ context.Context, userID, permission string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.perms[userID], permission)
	return nil
}

// LedgerSize reports the number of recorded reminders (test helper).
func (m *MockReminderRepository) LedgerSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ledger)
}

func clonePending(items []*domain.PendingItem) []*domain.PendingItem {
	out := make([]*domain.PendingItem, 0, len(items))
	for _, item := range items {
		clone := *item
		out = append(out, &clone)
	}
	return out
}
