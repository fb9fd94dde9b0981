package course

import (
	"time"

	"gorm.io/gorm"
)

// Attendance statuses
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceLate    = "LATE"
)

// Attendance records a student's presence in a course on a given date.
// (student, course, date) is unique; re-marking updates the status in place.
type Attendance struct {
	gorm.Model
	StudentID   uint      `json:"student_id" gorm:"index;not null;uniqueIndex:idx_student_course_date"`
	CourseID    uint      `json:"course_id" gorm:"index;not null;uniqueIndex:idx_student_course_date"`
	Date        time.Time `json:"date" gorm:"not null;uniqueIndex:idx_student_course_date"`
	Status      string    `json:"status" gorm:"default:'PRESENT'"` // PRESENT, ABSENT, LATE
	InstituteID uint      `json:"institute_id" gorm:"index;not null"`
	MarkedBy    uint      `json:"marked_by"`
	IsDeleted   bool      `gorm:"default:false"`
}
