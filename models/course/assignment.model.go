package course

import (
	"time"

	"gorm.io/gorm"
)

// AssignmentStatus enum values
const (
	AssignmentAssigned  = "ASSIGNED"
	AssignmentStarted   = "STARTED"
	AssignmentCompleted = "COMPLETED"
	AssignmentWaived    = "WAIVED"
)

// AssignmentTarget enum values
const (
	TargetCourse = "COURSE"
	TargetPath   = "PATH"
)

// Assignment is a course or path assigned to a learner with a due date.
// COMPLETED and WAIVED are terminal; terminal assignments are never mutated.
type Assignment struct {
	gorm.Model
	UserID     uint       `json:"user_id" gorm:"index;not null"`
	TargetType string     `json:"target_type" gorm:"not null"` // COURSE, PATH
	TargetID   uint       `json:"target_id" gorm:"not null"`
	Status     string     `json:"status" gorm:"default:'ASSIGNED'"`
	AssignedBy uint       `json:"assigned_by"`
	DueAt      *time.Time `json:"due_at"`
	IsDeleted  bool       `gorm:"default:false"`
}

// Terminal reports whether the assignment has reached a terminal status
func (a *Assignment) Terminal() bool {
	return a.Status == AssignmentCompleted || a.Status == AssignmentWaived
}
