package models

import "gorm.io/gorm"

// Gamification point reasons
const (
	PointsLessonComplete   = "LESSON_COMPLETE"
	PointsAssessmentPassed = "ASSESSMENT_PASSED"
	PointsCourseComplete   = "COURSE_COMPLETE"
)

// GamificationPoint records points awarded to a student for an activity
type GamificationPoint struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index"`
	Points    int    `json:"points"`
	Reason    string `json:"reason"` // LESSON_COMPLETE, ASSESSMENT_PASSED, COURSE_COMPLETE
	IsDeleted bool   `gorm:"default:false"`
}
