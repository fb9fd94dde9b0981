package course

import "gorm.io/gorm"

// Course statuses
const (
	CourseDraft     = "DRAFT"
	CoursePublished = "PUBLISHED"
)

// Lesson content types
const (
	LessonVideo = "VIDEO"
	LessonText  = "TEXT"
	LessonQuiz  = "QUIZ"
	LessonPDF   = "PDF"
)

// Course represents a learning course owned by an institute and an instructor
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Status       string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PUBLISHED
	InstituteID  uint   `json:"institute_id" gorm:"index;not null"`
	InstructorID uint   `json:"instructor_id" gorm:"index;not null"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsDeleted    bool   `gorm:"default:false"`
}

// Chapter represents an ordered section within a course
type Chapter struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"` // Chapter order in course
	IsDeleted  bool   `gorm:"default:false"`
}

// Lesson represents a content item within a chapter
type Lesson struct {
	gorm.Model
	ChapterID  uint   `json:"chapter_id" gorm:"index;not null"`
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title"`
	Type       string `json:"type" gorm:"default:'TEXT'"` // VIDEO, TEXT, QUIZ, PDF
	ContentURL string `json:"content_url"`                // Opaque reference to the content
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
