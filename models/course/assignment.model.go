package course

import (
	"time"

	"gorm.io/gorm"
)

// Submission statuses
const (
	SubmissionSubmitted = "SUBMITTED"
	SubmissionGraded    = "GRADED"
)

// Assignment is work set by a teacher for a course
type Assignment struct {
	gorm.Model
	CourseID     uint      `json:"course_id" gorm:"index;not null"`
	InstituteID  uint      `json:"institute_id" gorm:"index;not null"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DueDate      time.Time `json:"due_date"`
	ReminderSent bool      `json:"reminder_sent" gorm:"default:false"`
	IsDeleted    bool      `gorm:"default:false"`
}

// Submission is a student's answer to an assignment; upserted per (assignment, student)
type Submission struct {
	gorm.Model
	AssignmentID uint    `json:"assignment_id" gorm:"index;not null;uniqueIndex:idx_assignment_student"`
	StudentID    uint    `json:"student_id" gorm:"index;not null;uniqueIndex:idx_assignment_student"`
	Content      string  `json:"content" gorm:"type:text"`
	FileURL      string  `json:"file_url"` // Opaque URL returned by the upload endpoint
	Status       string  `json:"status" gorm:"default:'SUBMITTED'"` // SUBMITTED, GRADED
	Grade        float64 `json:"grade" gorm:"default:0"`
	Feedback     string  `json:"feedback"`
	IsDeleted    bool    `gorm:"default:false"`
}
