package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lms/models/content"
)

// fakeContentStore serves canned expirable items and applies conditional
// status updates the way the gorm store does
type fakeContentStore struct {
	items     []ExpirableItem
	scanErr   error
	updateErr map[uint]error // keyed by item id
}

func (s *fakeContentStore) ScanExpirable(offset, limit int) ([]ExpirableItem, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	if offset >= len(s.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	return s.items[offset:end], nil
}

func (s *fakeContentStore) ScanExpiringBetween(from, to time.Time) ([]ExpirableItem, error) {
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	var out []ExpirableItem
	for _, item := range s.items {
		if item.ExpireAt != nil && !item.ExpireAt.Before(from) && item.ExpireAt.Before(to) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *fakeContentStore) MarkExpired(item ExpirableItem) error {
	if err, ok := s.updateErr[item.ID]; ok {
		return err
	}
	for i := range s.items {
		if s.items[i].Kind == item.Kind && s.items[i].ID == item.ID {
			if s.items[i].Status != item.Status {
				return ErrConflict
			}
			switch item.Kind {
			case content.KindAssetVersion:
				s.items[i].Status = content.StatusExpired
			case content.KindContentItem:
				s.items[i].Status = content.ItemExpired
			}
			return nil
		}
	}
	return ErrConflict
}

type fakeSubscriptionStore struct {
	subs []content.Subscription
	err  error
}

func (s *fakeSubscriptionStore) ListActive() ([]content.Subscription, error) {
	return s.subs, s.err
}

type fakeAccessHistory struct {
	users map[uint][]uint // item id -> accessor ids
	err   error
}

func (s *fakeAccessHistory) RecentAccessors(itemKind string, itemID uint, since time.Time) ([]uint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[itemID], nil
}

func expiryFixture() (time.Time, *fakeContentStore, *fakeSubscriptionStore, *fakeAccessHistory, *memNotificationStore, *ExpiryJob) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(36 * time.Hour)

	contentStore := &fakeContentStore{items: []ExpirableItem{
		{Kind: content.KindAssetVersion, ID: 1, Title: "Pricing Guide", Status: content.StatusPublished, PrimaryCategory: "CRM", SecondaryCategory: "Contacts", ExpireAt: &past},
		{Kind: content.KindAssetVersion, ID: 2, Title: "Old Playbook", Status: content.StatusExpired, ExpireAt: &past},
		{Kind: content.KindAssetVersion, ID: 3, Title: "Evergreen Doc", Status: content.StatusPublished},
		{Kind: content.KindContentItem, ID: 4, Title: "Legacy PDF", Status: content.ItemActive, ExpireAt: &past},
		{Kind: content.KindAssetVersion, ID: 5, Title: "Next Quarter Plan", Status: content.StatusPublished, ExpireAt: &future},
	}}
	subStore := &fakeSubscriptionStore{subs: []content.Subscription{
		{UserID: 100, PrimaryCategory: "CRM", OnExpired: true},
		{UserID: 101, PrimaryCategory: "CRM", OnExpired: false}, // trigger disabled
		{UserID: 102, PrimaryCategory: "HR", OnExpired: true},   // filter mismatch
	}}
	access := &fakeAccessHistory{users: map[uint][]uint{1: {100, 200}, 4: {300}}}
	notifications := newMemNotificationStore()

	job := &ExpiryJob{
		Config:        ExpiryConfig{LookbackDays: 30, ReminderDays: 2, PageSize: 2},
		Content:       contentStore,
		Subscriptions: subStore,
		Access:        access,
		Fanout:        &Fanout{Store: notifications},
	}
	return now, contentStore, subStore, access, notifications, job
}

func TestExpiryJobRun(t *testing.T) {
	now, contentStore, _, _, notifications, job := expiryFixture()

	summary, err := job.Run(now)
	assert.NoError(t, err)

	assert.Equal(t, 5, summary.Scanned)
	assert.Equal(t, 2, summary.Expired) // items 1 and 4
	assert.Equal(t, 3, summary.Skipped) // already expired, no expiry, future expiry
	assert.Equal(t, 0, summary.Errors)

	assert.Equal(t, content.StatusExpired, contentStore.items[0].Status)
	assert.Equal(t, content.ItemExpired, contentStore.items[3].Status)
	assert.Equal(t, content.StatusPublished, contentStore.items[2].Status)
	assert.Equal(t, content.StatusPublished, contentStore.items[4].Status)

	// Item 1: matching subscriber (100) plus recent accessors (100, 200),
	// deduplicated. Item 4: accessor 300 only (no category on the item, so
	// the CRM filter does not match).
	assert.Len(t, notifications.byID, 3)
	_, ok := notifications.byID[NotificationID(EventExpired, content.KindAssetVersion, 1, 100)]
	assert.True(t, ok)
	_, ok = notifications.byID[NotificationID(EventExpired, content.KindAssetVersion, 1, 200)]
	assert.True(t, ok)
	_, ok = notifications.byID[NotificationID(EventExpired, content.KindContentItem, 4, 300)]
	assert.True(t, ok)
}

func TestExpiryJobRerunChangesNothing(t *testing.T) {
	now, _, _, _, notifications, job := expiryFixture()

	first, err := job.Run(now)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Expired)
	created := len(notifications.byID)

	// The terminal-state check plus deterministic ids make a rerun a no-op
	second, err := job.Run(now.Add(time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Expired)
	assert.Equal(t, 5, second.Skipped)
	assert.Len(t, notifications.byID, created)
}

func TestExpiryJobConflictCountsAsSkip(t *testing.T) {
	now, contentStore, _, _, _, job := expiryFixture()
	contentStore.updateErr = map[uint]error{1: ErrConflict}

	summary, err := job.Run(now)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Expired) // item 4 still goes through
	assert.Equal(t, 4, summary.Skipped)
	assert.Equal(t, 0, summary.Errors)
}

func TestExpiryJobItemErrorDoesNotAbortBatch(t *testing.T) {
	now, _, _, _, _, job := expiryFixture()
	job.Content.(*fakeContentStore).updateErr = map[uint]error{1: errors.New("write timeout")}

	summary, err := job.Run(now)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Expired)
	assert.Equal(t, 1, summary.Errors)
	assert.Len(t, summary.ErrorDetails, 1)
	assert.Equal(t, uint(1), summary.ErrorDetails[0].ID)
}

func TestExpiryJobScanFailureIsFatal(t *testing.T) {
	now, contentStore, _, _, _, job := expiryFixture()
	contentStore.scanErr = errors.New("store unreachable")

	_, err := job.Run(now)
	assert.Error(t, err)
}

func TestExpiryJobSubscriptionFailureDegrades(t *testing.T) {
	now, _, subStore, _, notifications, job := expiryFixture()
	subStore.err = errors.New("subscription store down")

	summary, err := job.Run(now)
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Expired)
	assert.Equal(t, 1, summary.Errors) // the degraded lookup is recorded

	// Access-history recipients still get notified
	_, ok := notifications.byID[NotificationID(EventExpired, content.KindAssetVersion, 1, 200)]
	assert.True(t, ok)

	// The run-level entry has no item behind it, so no id appears in the
	// rendered summary
	raw, err := json.Marshal(summary.ErrorDetails[0])
	assert.NoError(t, err)
	assert.Equal(t, `{"kind":"SUBSCRIPTIONS","error":"subscription store down"}`, string(raw))
}

func TestExpiryJobAccessHistoryFailureDegrades(t *testing.T) {
	now, _, _, access, notifications, job := expiryFixture()
	access.err = errors.New("history store down")

	summary, err := job.Run(now)
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Expired)

	// Subscriber fanout still happens for item 1
	_, ok := notifications.byID[NotificationID(EventExpired, content.KindAssetVersion, 1, 100)]
	assert.True(t, ok)
	_, ok = notifications.byID[NotificationID(EventExpired, content.KindAssetVersion, 1, 200)]
	assert.False(t, ok)
}

func TestExpiryJobReminders(t *testing.T) {
	now, _, subStore, _, notifications, job := expiryFixture()
	subStore.subs = append(subStore.subs, content.Subscription{UserID: 110, OnExpiringSoon: true})

	summary, err := job.RunReminders(now)
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Scanned) // only item 5 falls inside the window

	id := NotificationID(EventExpiringSoon, content.KindAssetVersion, 5, 110)
	_, ok := notifications.byID[id]
	assert.True(t, ok)

	// Daily rerun re-notifies nobody
	_, err = job.RunReminders(now.Add(time.Hour))
	assert.NoError(t, err)
	assert.Len(t, notifications.byID, 1)
}
