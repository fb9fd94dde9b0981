package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:                "test-secret",
		AssessmentPassPercent: 40,
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite has a single writer; one pooled connection keeps concurrent
	// request transactions from tripping over each other in tests
	sqlDB.SetMaxOpenConns(1)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/course/:id/enroll", middleware.JWTMiddleware, courseValidator.CourseID(), EnrollInCourse)
	app.Post("/course/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware,
		courseValidator.CourseIDParam(), courseValidator.LessonIDParam(), CompleteLesson)
	app.Get("/user/enrollments", middleware.JWTMiddleware, GetMyEnrollments)
	app.Get("/assessment/:id", middleware.JWTMiddleware, courseValidator.AssessmentID(), GetAssessment)
	app.Post("/assessment/:id/submit", middleware.JWTMiddleware,
		courseValidator.AssessmentID(), courseValidator.SubmitAssessment(), SubmitAssessment)
	return app
}

func seedStudent(t *testing.T, instituteID uint) (models.User, string) {
	t.Helper()
	student := models.User{
		Name:        "Test Student",
		Email:       "student" + uuidSuffix() + "@test.dev",
		Password:    "hashed",
		Role:        models.RoleStudent,
		Status:      models.UserActive,
		InstituteID: instituteID,
	}
	require.NoError(t, database.Database.Db.Create(&student).Error)
	token, err := middleware.GenerateJWT(student.ID, student.Name, student.Role, student.Email, student.InstituteID)
	require.NoError(t, err)
	return student, token
}

func seedPublishedCourse(t *testing.T, instituteID uint, lessons int) (courseModels.Course, []courseModels.Lesson) {
	t.Helper()
	db := database.Database.Db

	course := courseModels.Course{
		Title:        "Intro to Go",
		Status:       courseModels.CoursePublished,
		InstituteID:  instituteID,
		InstructorID: 999,
	}
	require.NoError(t, db.Create(&course).Error)

	chapter := courseModels.Chapter{CourseID: course.ID, Title: "Basics"}
	require.NoError(t, db.Create(&chapter).Error)

	created := make([]courseModels.Lesson, 0, lessons)
	for i := 0; i < lessons; i++ {
		lesson := courseModels.Lesson{
			ChapterID: chapter.ID,
			CourseID:  course.ID,
			Title:     "Lesson",
			Type:      courseModels.LessonText,
		}
		require.NoError(t, db.Create(&lesson).Error)
		created = append(created, lesson)
	}
	return course, created
}

func uuidSuffix() string {
	return uuid.NewString()[:8]
}

func enrollPath(courseID uint) string {
	return fmt.Sprintf("/course/%d/enroll", courseID)
}

func completePath(courseID, lessonID uint) string {
	return fmt.Sprintf("/course/%d/lesson/%d/complete", courseID, lessonID)
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestEnrollInCourse(t *testing.T) {
	app := setupTestApp(t)

	institute := models.Institute{Name: "Acme", Code: "ACME" + uuidSuffix(), Status: "ACTIVE"}
	require.NoError(t, database.Database.Db.Create(&institute).Error)

	student, token := seedStudent(t, institute.ID)
	course, _ := seedPublishedCourse(t, institute.ID, 2)

	status, body := doRequest(t, app, http.MethodPost, enrollPath(course.ID), token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 2, enrollment.TotalLessons)
	assert.Equal(t, 0, enrollment.Progress)

	// Enrolling again conflicts instead of duplicating
	status, body = doRequest(t, app, http.MethodPost, enrollPath(course.ID), token)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])

	var count int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnrollRequiresPublishedCourse(t *testing.T) {
	app := setupTestApp(t)

	institute := models.Institute{Name: "Acme", Code: "ACME" + uuidSuffix(), Status: "ACTIVE"}
	require.NoError(t, database.Database.Db.Create(&institute).Error)

	_, token := seedStudent(t, institute.ID)

	draft := courseModels.Course{
		Title:        "Unreleased",
		Status:       courseModels.CourseDraft,
		InstituteID:  institute.ID,
		InstructorID: 999,
	}
	require.NoError(t, database.Database.Db.Create(&draft).Error)

	status, _ := doRequest(t, app, http.MethodPost, enrollPath(draft.ID), token)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestEnrollDeniedAcrossInstitutes(t *testing.T) {
	app := setupTestApp(t)

	mine := models.Institute{Name: "Mine", Code: "MINE" + uuidSuffix(), Status: "ACTIVE"}
	other := models.Institute{Name: "Other", Code: "OTHR" + uuidSuffix(), Status: "ACTIVE"}
	require.NoError(t, database.Database.Db.Create(&mine).Error)
	require.NoError(t, database.Database.Db.Create(&other).Error)

	_, token := seedStudent(t, mine.ID)
	course, _ := seedPublishedCourse(t, other.ID, 1)

	status, body := doRequest(t, app, http.MethodPost, enrollPath(course.ID), token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied", body["message"])
}

func TestCompleteLessonIdempotent(t *testing.T) {
	app := setupTestApp(t)

	institute := models.Institute{Name: "Acme", Code: "ACME" + uuidSuffix(), Status: "ACTIVE"}
	require.NoError(t, database.Database.Db.Create(&institute).Error)

	student, token := seedStudent(t, institute.ID)
	course, lessons := seedPublishedCourse(t, institute.ID, 2)

	status, _ := doRequest(t, app, http.MethodPost, enrollPath(course.ID), token)
	require.Equal(t, http.StatusOK, status)

	// First lesson: half done
	status, _ = doRequest(t, app, http.MethodPost, completePath(course.ID, lessons[0].ID), token)
	assert.Equal(t, http.StatusOK, status)

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 50, enrollment.Progress)
	assert.Equal(t, 1, enrollment.CompletedLessons)
	assert.False(t, enrollment.Completed)

	// Completing the same lesson again changes nothing
	status, body := doRequest(t, app, http.MethodPost, completePath(course.ID, lessons[0].ID), token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Lesson already completed!", body["message"])

	require.NoError(t, database.Database.Db.
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 50, enrollment.Progress)
	assert.Equal(t, 1, enrollment.CompletedLessons)

	// Second lesson finishes the course
	status, _ = doRequest(t, app, http.MethodPost, completePath(course.ID, lessons[1].ID), token)
	assert.Equal(t, http.StatusOK, status)

	require.NoError(t, database.Database.Db.
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.True(t, enrollment.Completed)
	assert.NotNil(t, enrollment.CompletedAt)

	// No regression after 100
	status, _ = doRequest(t, app, http.MethodPost, completePath(course.ID, lessons[1].ID), token)
	assert.Equal(t, http.StatusOK, status)
	require.NoError(t, database.Database.Db.
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.True(t, enrollment.Completed)

	// Lesson points once per lesson plus the completion bonus
	var points []models.GamificationPoint
	database.Database.Db.Where("user_id = ?", student.ID).Find(&points)
	total := 0
	for _, p := range points {
		total += p.Points
	}
	assert.Equal(t, 60, total)
}

func TestCompleteLessonRequiresEnrollment(t *testing.T) {
	app := setupTestApp(t)

	institute := models.Institute{Name: "Acme", Code: "ACME" + uuidSuffix(), Status: "ACTIVE"}
	require.NoError(t, database.Database.Db.Create(&institute).Error)

	_, token := seedStudent(t, institute.ID)
	course, lessons := seedPublishedCourse(t, institute.ID, 1)

	status, body := doRequest(t, app, http.MethodPost, completePath(course.ID, lessons[0].ID), token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Not enrolled in this course!", body["message"])
}

// Two requests finishing the last two lessons at the same time must both land
// in the recomputed totals. Neither request may freeze a stale count into the
// enrollment and leave it short of 100 with no lesson left to complete.
func TestCompleteLessonConcurrentRequests(t *testing.T) {
	app := setupTestApp(t)

	institute := models.Institute{Name: "Acme", Code: "ACME" + uuidSuffix(), Status: "ACTIVE"}
	require.NoError(t, database.Database.Db.Create(&institute).Error)

	student, token := seedStudent(t, institute.ID)
	course, lessons := seedPublishedCourse(t, institute.ID, 2)

	status, _ := doRequest(t, app, http.MethodPost, enrollPath(course.ID), token)
	require.Equal(t, http.StatusOK, status)

	statuses := make([]int, len(lessons))
	var wg sync.WaitGroup
	for i, lesson := range lessons {
		wg.Add(1)
		go func(i int, lessonID uint) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, completePath(course.ID, lessonID), nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req, -1)
			if err != nil {
				return
			}
			statuses[i] = resp.StatusCode
		}(i, lesson.ID)
	}
	wg.Wait()

	for _, s := range statuses {
		assert.Equal(t, http.StatusOK, s)
	}

	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, 2, enrollment.CompletedLessons)
	assert.True(t, enrollment.Completed)
	assert.NotNil(t, enrollment.CompletedAt)

	var completions int64
	database.Database.Db.Model(&courseModels.LessonCompletion{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&completions)
	assert.Equal(t, int64(2), completions)
}
