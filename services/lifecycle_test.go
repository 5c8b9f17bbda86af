package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lms/models/content"
)

func TestScheduleVersion(t *testing.T) {
	publishAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	v := content.AssetVersion{Status: content.StatusDraft}
	err := ScheduleVersion(&v, publishAt)
	assert.NoError(t, err)
	assert.Equal(t, content.StatusScheduled, v.Status)
	assert.Equal(t, publishAt, *v.PublishAt)

	// Only drafts can be scheduled
	for _, status := range []string{content.StatusScheduled, content.StatusPublished, content.StatusDeprecated, content.StatusExpired, content.StatusArchived} {
		v := content.AssetVersion{Status: status}
		err := ScheduleVersion(&v, publishAt)
		assert.Error(t, err)
		assert.Equal(t, status, v.Status, "failed transition must not mutate the version")
	}
}

func TestPublishVersion(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	publishAt := now.Add(-time.Hour)

	for _, from := range []string{content.StatusDraft, content.StatusScheduled} {
		v := content.AssetVersion{Status: from, PublishAt: &publishAt}
		err := PublishVersion(&v, 42, "initial release", now)
		assert.NoError(t, err)
		assert.Equal(t, content.StatusPublished, v.Status)
		assert.Equal(t, uint(42), *v.PublishedBy)
		assert.Equal(t, now, *v.PublishedAt)
		assert.Equal(t, "initial release", v.ChangeLog)
		assert.Nil(t, v.PublishAt, "publish clears the pending schedule")
	}

	v := content.AssetVersion{Status: content.StatusExpired}
	err := PublishVersion(&v, 42, "", now)
	assert.Error(t, err)
}

func TestAutoPublishVersion(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	publishAt := now.Add(-time.Minute)

	v := content.AssetVersion{Status: content.StatusScheduled, PublishAt: &publishAt, ChangeLog: "scheduled release"}
	assert.NoError(t, AutoPublishVersion(&v, now))
	assert.Equal(t, content.StatusPublished, v.Status)
	assert.Equal(t, now, *v.PublishedAt)
	assert.Nil(t, v.PublishAt)
	assert.Nil(t, v.PublishedBy, "system publishes carry no user")
	assert.Equal(t, "scheduled release", v.ChangeLog, "the change log from scheduling time survives")

	// Unlike the admin operation, drafts are not accepted
	for _, from := range []string{content.StatusDraft, content.StatusPublished, content.StatusExpired, content.StatusArchived} {
		v := content.AssetVersion{Status: from}
		err := AutoPublishVersion(&v, now)
		assert.Error(t, err, "auto publish from %s", from)
		assert.Equal(t, from, v.Status)

		var invalid *InvalidTransitionError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestLifecycleTransitionTable(t *testing.T) {
	ops := map[string]func(*content.AssetVersion) error{
		"expire":    ExpireVersion,
		"deprecate": DeprecateVersion,
		"archive":   ArchiveVersion,
	}

	cases := []struct {
		op     string
		from   string
		wantTo string
		wantOK bool
	}{
		{"expire", content.StatusPublished, content.StatusExpired, true},
		{"expire", content.StatusDraft, "", false},
		{"expire", content.StatusExpired, "", false},
		{"expire", content.StatusArchived, "", false},
		{"deprecate", content.StatusPublished, content.StatusDeprecated, true},
		{"deprecate", content.StatusScheduled, "", false},
		{"deprecate", content.StatusDeprecated, "", false},
		{"archive", content.StatusPublished, content.StatusArchived, true},
		{"archive", content.StatusDeprecated, content.StatusArchived, true},
		{"archive", content.StatusExpired, content.StatusArchived, true},
		{"archive", content.StatusDraft, "", false},
		{"archive", content.StatusArchived, "", false},
	}

	for _, tc := range cases {
		v := content.AssetVersion{Status: tc.from}
		err := ops[tc.op](&v)
		if tc.wantOK {
			assert.NoError(t, err, "%s from %s", tc.op, tc.from)
			assert.Equal(t, tc.wantTo, v.Status)
		} else {
			assert.Error(t, err, "%s from %s", tc.op, tc.from)
			assert.Equal(t, tc.from, v.Status)

			var invalid *InvalidTransitionError
			assert.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.from, invalid.Current)
			assert.Equal(t, tc.op, invalid.Requested)
		}
	}
}

func TestExpireItem(t *testing.T) {
	ci := content.ContentItem{Status: content.ItemActive}
	assert.NoError(t, ExpireItem(&ci))
	assert.Equal(t, content.ItemExpired, ci.Status)

	// Expiring twice is rejected, the caller counts it as a skip
	assert.Error(t, ExpireItem(&ci))
	assert.Equal(t, content.ItemExpired, ci.Status)

	archived := content.ContentItem{Status: content.ItemArchived}
	assert.Error(t, ExpireItem(&archived))
}
