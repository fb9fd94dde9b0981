package course

import "gorm.io/gorm"

// Assessment result statuses. An attempt opens as IN_PROGRESS and a
// submission grades it to PASSED or FAILED, or COMPLETED when no pass
// threshold is configured.
const (
	ResultInProgress = "IN_PROGRESS"
	ResultCompleted  = "COMPLETED"
	ResultFailed     = "FAILED"
	ResultPassed     = "PASSED"
)

// Assessment is a quiz attached to a course
type Assessment struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	InstituteID uint   `json:"institute_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsDeleted   bool   `gorm:"default:false"`
}

// Question is a multiple choice question within an assessment.
// Options are stored as a JSON array of strings.
type Question struct {
	gorm.Model
	AssessmentID  uint   `json:"assessment_id" gorm:"index;not null"`
	Text          string `json:"text" gorm:"type:text"`
	Options       string `json:"options" gorm:"type:text"` // JSON array of option strings
	CorrectOption int    `json:"correct_option"`           // Index into Options
	Marks         int    `json:"marks" gorm:"default:1"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
	IsDeleted     bool   `gorm:"default:false"`
}

// AssessmentResult is a student's scored attempt; upserted per (assessment, student)
type AssessmentResult struct {
	gorm.Model
	AssessmentID uint   `json:"assessment_id" gorm:"index;not null;uniqueIndex:idx_assessment_student"`
	StudentID    uint   `json:"student_id" gorm:"index;not null;uniqueIndex:idx_assessment_student"`
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	Score        int    `json:"score"`
	TotalMarks   int    `json:"total_marks"`
	Status       string `json:"status" gorm:"default:'IN_PROGRESS'"` // IN_PROGRESS, COMPLETED, FAILED, PASSED
	IsDeleted    bool   `gorm:"default:false"`
}
