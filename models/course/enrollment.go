package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a student's enrollment in a course with progress.
// (student, course) is unique; Progress is derived from LessonCompletion rows.
type Enrollment struct {
	gorm.Model
	StudentID        uint       `json:"student_id" gorm:"index;not null;uniqueIndex:idx_student_course"`
	CourseID         uint       `json:"course_id" gorm:"index;not null;uniqueIndex:idx_student_course"`
	Progress         int        `json:"progress" gorm:"default:0"` // Completion percentage (0-100)
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons     int        `json:"total_lessons" gorm:"default:0"`
	Completed        bool       `json:"completed" gorm:"default:false"`
	CompletedAt      *time.Time `json:"completed_at"`
	IsDeleted        bool       `gorm:"default:false"`
}

// LessonCompletion records a single lesson completed by a student.
// The unique index makes repeat completions a no-op instead of a duplicate.
type LessonCompletion struct {
	gorm.Model
	StudentID uint `json:"student_id" gorm:"index;not null;uniqueIndex:idx_student_lesson"`
	LessonID  uint `json:"lesson_id" gorm:"index;not null;uniqueIndex:idx_student_lesson"`
	CourseID  uint `json:"course_id" gorm:"index;not null"`
	IsDeleted bool `gorm:"default:false"`
}
