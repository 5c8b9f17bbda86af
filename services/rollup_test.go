package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	course "lms/models/course"
)

// progressMap is an in-memory ProgressLookup for tests
func progressMap(records map[uint]*course.CourseProgress) ProgressLookup {
	return func(userID, courseID uint) (*course.CourseProgress, error) {
		return records[courseID], nil
	}
}

func completed() *course.CourseProgress {
	done := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	return &course.CourseProgress{Completed: true, PercentComplete: 100, CompletedAt: &done}
}

func inProgress(percent int) *course.CourseProgress {
	return &course.CourseProgress{Completed: false, PercentComplete: percent}
}

func TestComputeRollupEmptyPath(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	rollup := ComputeRollup(1, 10, nil, nil, progressMap(nil), now)

	assert.Equal(t, 0, rollup.TotalCourses)
	assert.Equal(t, 0, rollup.CompletedCourses)
	assert.Equal(t, 0, rollup.PercentComplete)
	assert.Equal(t, course.RollupNotStarted, rollup.Status)
	assert.Nil(t, rollup.NextCourseID)
	assert.Nil(t, rollup.StartedAt)
	assert.Equal(t, now, rollup.LastActivityAt)
}

func TestComputeRollupNothingStarted(t *testing.T) {
	now := time.Now()

	rollup := ComputeRollup(1, 10, []uint{101, 102}, nil, progressMap(nil), now)

	assert.Equal(t, 2, rollup.TotalCourses)
	assert.Equal(t, 0, rollup.CompletedCourses)
	assert.Equal(t, 0, rollup.PercentComplete)
	assert.Equal(t, course.RollupNotStarted, rollup.Status)
	assert.Equal(t, uint(101), *rollup.NextCourseID)
	assert.Nil(t, rollup.StartedAt)
}

func TestComputeRollupHalfway(t *testing.T) {
	now := time.Now()
	lookup := progressMap(map[uint]*course.CourseProgress{101: completed()})

	rollup := ComputeRollup(1, 10, []uint{101, 102}, nil, lookup, now)

	assert.Equal(t, 1, rollup.CompletedCourses)
	assert.Equal(t, 50, rollup.PercentComplete)
	assert.Equal(t, course.RollupInProgress, rollup.Status)
	assert.Equal(t, uint(102), *rollup.NextCourseID)
	assert.NotNil(t, rollup.StartedAt)
	assert.Nil(t, rollup.CompletedAt)
}

func TestComputeRollupInProgressRecordStartsPath(t *testing.T) {
	// A progress record with zero completions still moves the path out of
	// NOT_STARTED.
	now := time.Now()
	lookup := progressMap(map[uint]*course.CourseProgress{101: inProgress(40)})

	rollup := ComputeRollup(1, 10, []uint{101, 102}, nil, lookup, now)

	assert.Equal(t, 0, rollup.CompletedCourses)
	assert.Equal(t, course.RollupInProgress, rollup.Status)
	assert.Equal(t, uint(101), *rollup.NextCourseID)
	assert.NotNil(t, rollup.StartedAt)
}

func TestComputeRollupCompleted(t *testing.T) {
	now := time.Now()
	lookup := progressMap(map[uint]*course.CourseProgress{101: completed(), 102: completed()})

	rollup := ComputeRollup(1, 10, []uint{101, 102}, nil, lookup, now)

	assert.Equal(t, 2, rollup.CompletedCourses)
	assert.Equal(t, 100, rollup.PercentComplete)
	assert.Equal(t, course.RollupCompleted, rollup.Status)
	assert.Nil(t, rollup.NextCourseID)
	assert.NotNil(t, rollup.CompletedAt)
}

func TestComputeRollupStickyTimestamps(t *testing.T) {
	started := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	finished := time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	existing := &course.PathProgressRollup{StartedAt: &started, CompletedAt: &finished}

	lookup := progressMap(map[uint]*course.CourseProgress{101: completed(), 102: completed()})
	rollup := ComputeRollup(1, 10, []uint{101, 102}, existing, lookup, now)

	// Recomputation never overwrites the first-set timestamps
	assert.Equal(t, started, *rollup.StartedAt)
	assert.Equal(t, finished, *rollup.CompletedAt)
	assert.Equal(t, now, rollup.LastActivityAt)
}

func TestComputeRollupRecomputeIsStable(t *testing.T) {
	lookup := progressMap(map[uint]*course.CourseProgress{101: completed()})

	t1 := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	first := ComputeRollup(1, 10, []uint{101, 102, 103}, nil, lookup, t1)

	t2 := t1.Add(time.Hour)
	second := ComputeRollup(1, 10, []uint{101, 102, 103}, &first, lookup, t2)

	// Only LastActivityAt may differ on unchanged input
	assert.Equal(t, first.CompletedCourses, second.CompletedCourses)
	assert.Equal(t, first.PercentComplete, second.PercentComplete)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.StartedAt, *second.StartedAt)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
	assert.Equal(t, t2, second.LastActivityAt)
}

func TestComputeRollupLookupErrorDegrades(t *testing.T) {
	// One failing course lookup must not block the rest of the path
	lookup := func(userID, courseID uint) (*course.CourseProgress, error) {
		if courseID == 102 {
			return nil, errors.New("store unavailable")
		}
		if courseID == 101 {
			return completed(), nil
		}
		return nil, nil
	}

	rollup := ComputeRollup(1, 10, []uint{101, 102, 103}, nil, lookup, time.Now())

	assert.Equal(t, 3, rollup.TotalCourses)
	assert.Equal(t, 1, rollup.CompletedCourses)
	assert.Equal(t, 33, rollup.PercentComplete)
	assert.Equal(t, course.RollupInProgress, rollup.Status)
	assert.Equal(t, uint(102), *rollup.NextCourseID)
}

func TestComputeRollupDeduplicatesMembers(t *testing.T) {
	lookup := progressMap(map[uint]*course.CourseProgress{101: completed()})

	rollup := ComputeRollup(1, 10, []uint{101, 101, 102}, nil, lookup, time.Now())

	assert.Equal(t, 2, rollup.TotalCourses)
	assert.Equal(t, 1, rollup.CompletedCourses)
	assert.Equal(t, 50, rollup.PercentComplete)
}

func TestComputeRollupPercentBounds(t *testing.T) {
	cases := []struct {
		total, done int
		want        int
	}{
		{3, 1, 33},
		{3, 2, 67},
		{4, 1, 25},
		{7, 7, 100},
		{1, 0, 0},
	}

	for _, tc := range cases {
		records := map[uint]*course.CourseProgress{}
		ids := make([]uint, tc.total)
		for i := 0; i < tc.total; i++ {
			ids[i] = uint(200 + i)
			if i < tc.done {
				records[ids[i]] = completed()
			}
		}

		rollup := ComputeRollup(1, 10, ids, nil, progressMap(records), time.Now())
		assert.Equal(t, tc.want, rollup.PercentComplete, "%d/%d", tc.done, tc.total)
		assert.GreaterOrEqual(t, rollup.PercentComplete, 0)
		assert.LessOrEqual(t, rollup.PercentComplete, 100)
		assert.LessOrEqual(t, rollup.CompletedCourses, rollup.TotalCourses)
	}
}
