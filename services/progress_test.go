package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	course "lms/models/course"
)

func TestApplyProgressCreatesRecord(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	progress, err := ApplyProgress(nil, 42, 7, 30, false, now)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), progress.UserID)
	assert.Equal(t, uint(7), progress.CourseID)
	assert.Equal(t, 30, progress.PercentComplete)
	assert.False(t, progress.Completed)
	assert.Nil(t, progress.CompletedAt)
	assert.Equal(t, now, progress.LastEventAt)
}

func TestApplyProgressUpdatesExistingRecord(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	existing := course.CourseProgress{UserID: 42, CourseID: 7, PercentComplete: 30, LastEventAt: now.Add(-time.Hour)}
	existing.ID = 11

	progress, err := ApplyProgress(&existing, 42, 7, 55, false, now)
	assert.NoError(t, err)
	assert.Equal(t, uint(11), progress.ID, "the stored row's identity is kept")
	assert.Equal(t, 55, progress.PercentComplete)
	assert.Equal(t, now, progress.LastEventAt)
}

func TestApplyProgressCompletionSetsFields(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	existing := course.CourseProgress{UserID: 42, CourseID: 7, PercentComplete: 80}

	progress, err := ApplyProgress(&existing, 42, 7, 80, true, now)
	assert.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.Equal(t, 100, progress.PercentComplete, "completion forces the percentage to 100")
	assert.Equal(t, now, *progress.CompletedAt)
}

func TestApplyProgressCompletionIsOneWay(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	completedAt := now.Add(-24 * time.Hour)

	existing := course.CourseProgress{UserID: 42, CourseID: 7, PercentComplete: 100, Completed: true, CompletedAt: &completedAt}

	_, err := ApplyProgress(&existing, 42, 7, 40, false, now)
	assert.ErrorIs(t, err, ErrConflict)

	// The stored record is untouched by the rejected event
	assert.True(t, existing.Completed)
	assert.Equal(t, 100, existing.PercentComplete)
	assert.Equal(t, completedAt, *existing.CompletedAt)
}
