package course

import (
	"time"

	"gorm.io/gorm"
)

// RollupStatus enum values
const (
	RollupNotStarted = "NOT_STARTED"
	RollupInProgress = "IN_PROGRESS"
	RollupCompleted  = "COMPLETED"
)

// PathProgressRollup is the derived summary of a learner's progress across a
// path's ordered course list. It is recomputed on every progress event that
// touches a member course and persisted so StartedAt/CompletedAt survive
// recomputation.
type PathProgressRollup struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"index:idx_user_path,unique;not null"`
	PathID           uint       `json:"path_id" gorm:"index:idx_user_path,unique;not null"`
	TotalCourses     int        `json:"total_courses" gorm:"default:0"`
	CompletedCourses int        `json:"completed_courses" gorm:"default:0"`
	PercentComplete  int        `json:"percent_complete" gorm:"default:0"`
	Status           string     `json:"status" gorm:"default:'NOT_STARTED'"`
	StartedAt        *time.Time `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	LastActivityAt   time.Time  `json:"last_activity_at"`
	NextCourseID     *uint      `json:"next_course_id"`
}

func (PathProgressRollup) TableName() string {
	return "path_progress_rollups"
}
