package models

import "gorm.io/gorm"

// Remark is a teacher's note on a student, visible to institute staff
type Remark struct {
	gorm.Model
	StudentID   uint   `json:"student_id" gorm:"index;not null"`
	TeacherID   uint   `json:"teacher_id" gorm:"index;not null"`
	CourseID    uint   `json:"course_id" gorm:"index"`
	InstituteID uint   `json:"institute_id" gorm:"index;not null"`
	Text        string `json:"text" gorm:"type:text"`
	IsDeleted   bool   `gorm:"default:false"`
}
