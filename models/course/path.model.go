package course

import "gorm.io/gorm"

// LearningPath is an ordered collection of courses a learner works through
type LearningPath struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`

	// Relations
	Courses []PathCourse `gorm:"foreignKey:PathID" json:"courses,omitempty"`
}

// PathCourse is one ordered member course of a learning path
type PathCourse struct {
	gorm.Model
	PathID     uint `json:"path_id" gorm:"index;not null"`
	CourseID   uint `json:"course_id" gorm:"not null"`
	OrderIndex int  `json:"order_index" gorm:"not null"`
	IsDeleted  bool `gorm:"default:false"`

	// Relations
	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
