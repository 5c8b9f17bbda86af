package services

import (
	"time"

	course "lms/models/course"
)

// ApplyProgress folds one progress event into the learner's stored record,
// initializing a fresh one when none exists. A nil existing record means "no
// progress yet"; a storage failure must be handled by the caller before
// calling, never mapped to nil. Completion is one-way: an event that would
// un-complete a completed record returns ErrConflict and leaves the record
// unchanged.
func ApplyProgress(existing *course.CourseProgress, userID, courseID uint, percent int, completed bool, now time.Time) (course.CourseProgress, error) {
	var progress course.CourseProgress
	if existing != nil {
		progress = *existing
	} else {
		progress = course.CourseProgress{
			UserID:   userID,
			CourseID: courseID,
		}
	}

	if progress.Completed && !completed {
		return progress, ErrConflict
	}

	progress.PercentComplete = percent
	progress.LastEventAt = now
	if completed && !progress.Completed {
		progress.Completed = true
		progress.PercentComplete = 100
		progress.CompletedAt = &now
	}

	return progress, nil
}
