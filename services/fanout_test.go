package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"lms/models"
)

// memNotificationStore is an in-memory NotificationStore keyed by
// deterministic id, mirroring a unique-index create-if-absent
type memNotificationStore struct {
	byID    map[string]models.Notification
	failing bool
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{byID: make(map[string]models.Notification)}
}

func (s *memNotificationStore) CreateIfAbsent(n models.Notification) (models.Notification, bool, error) {
	if s.failing {
		return models.Notification{}, false, errors.New("notification store down")
	}
	if existing, ok := s.byID[n.NotificationID]; ok {
		return existing, false, nil
	}
	n.ID = uint(len(s.byID) + 1)
	s.byID[n.NotificationID] = n
	return n, true, nil
}

func TestNotificationIDDeterministic(t *testing.T) {
	a := NotificationID(EventExpired, "ASSET_VERSION", 7, 42)
	b := NotificationID(EventExpired, "ASSET_VERSION", 7, 42)
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, NotificationID(EventExpired, "ASSET_VERSION", 7, 43))
	assert.NotEqual(t, a, NotificationID(EventExpired, "ASSET_VERSION", 8, 42))
	assert.NotEqual(t, a, NotificationID(EventExpiringSoon, "ASSET_VERSION", 7, 42))
	assert.NotEqual(t, a, NotificationID(EventExpired, "CONTENT_ITEM", 7, 42))
}

func TestFanoutNotifyCreatesOnce(t *testing.T) {
	store := newMemNotificationStore()
	delivered := 0
	fanout := &Fanout{Store: store, Delivered: func(models.Notification) { delivered++ }}

	id := NotificationID(EventExpired, "ASSET_VERSION", 7, 42)

	first, err := fanout.Notify(42, id, "Content expired", "Gone.")
	assert.NoError(t, err)
	assert.Equal(t, id, first.NotificationID)
	assert.Equal(t, uint(42), first.UserID)
	assert.False(t, first.Read)

	// Retried delivery returns the existing record with no side effect
	second, err := fanout.Notify(42, id, "Content expired", "Gone.")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.byID, 1)
	assert.Equal(t, 1, delivered, "push hook fires only for the fresh create")
}

func TestFanoutNotifyStoreError(t *testing.T) {
	store := newMemNotificationStore()
	store.failing = true
	fanout := &Fanout{Store: store}

	_, err := fanout.Notify(42, "EXPIRED:CONTENT_ITEM:1:42", "t", "m")
	assert.Error(t, err)
}
