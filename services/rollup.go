package services

import (
	"log"
	"math"
	"time"

	course "lms/models/course"
)

// ComputeRollup derives a learner's aggregate progress across a path's
// ordered member courses. It performs no I/O beyond the injected lookup and
// is deterministic given identical inputs, except for LastActivityAt (always
// refreshed) and the one-time set of StartedAt/CompletedAt.
//
// A failing lookup for a single course is treated as "no progress" for that
// course rather than aborting the whole rollup; one unreadable course must
// not block the summary for the rest of the path.
func ComputeRollup(userID, pathID uint, courseIDs []uint, existing *course.PathProgressRollup, lookup ProgressLookup, now time.Time) course.PathProgressRollup {
	ordered := dedupeIDs(courseIDs)

	rollup := course.PathProgressRollup{
		UserID:       userID,
		PathID:       pathID,
		TotalCourses: len(ordered),
		Status:       course.RollupNotStarted,
	}

	anyProgress := false
	for _, courseID := range ordered {
		progress, err := lookup(userID, courseID)
		if err != nil {
			log.Printf("[ROLLUP] progress lookup failed for user %d course %d: %v", userID, courseID, err)
			progress = nil
		}
		if progress != nil {
			anyProgress = true
			if progress.Completed {
				rollup.CompletedCourses++
				continue
			}
		}
		if rollup.NextCourseID == nil {
			id := courseID
			rollup.NextCourseID = &id
		}
	}

	if rollup.TotalCourses > 0 {
		// Round half away from zero; the division is exact for the common
		// halves and quarters, fractions like 1/3 round to nearest.
		rollup.PercentComplete = int(math.Round(float64(rollup.CompletedCourses) / float64(rollup.TotalCourses) * 100))
	}

	switch {
	case rollup.TotalCourses > 0 && rollup.CompletedCourses == rollup.TotalCourses:
		rollup.Status = course.RollupCompleted
		rollup.NextCourseID = nil
	case rollup.CompletedCourses > 0 || anyProgress:
		rollup.Status = course.RollupInProgress
	}

	// Sticky fields: once set they survive every later recomputation.
	if existing != nil && existing.StartedAt != nil {
		rollup.StartedAt = existing.StartedAt
	} else if rollup.Status != course.RollupNotStarted {
		t := now
		rollup.StartedAt = &t
	}
	if existing != nil && existing.CompletedAt != nil {
		rollup.CompletedAt = existing.CompletedAt
	} else if rollup.Status == course.RollupCompleted {
		t := now
		rollup.CompletedAt = &t
	}

	rollup.LastActivityAt = now
	return rollup
}

// dedupeIDs drops repeated course ids while preserving path order
func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
