package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseProgress is one learner's state in one course. Created on first
// activity, mutated on each progress event, never deleted.
type CourseProgress struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"index:idx_user_course,unique;not null"`
	CourseID        uint       `json:"course_id" gorm:"index:idx_user_course,unique;not null"`
	Completed       bool       `json:"completed" gorm:"default:false"`
	PercentComplete int        `json:"percent_complete" gorm:"default:0"` // 0-100
	CompletedAt     *time.Time `json:"completed_at"`
	LastEventAt     time.Time  `json:"last_event_at"`
}

func (CourseProgress) TableName() string {
	return "course_progresses"
}
