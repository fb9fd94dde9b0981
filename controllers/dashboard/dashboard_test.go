package dashboardController

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	courseValidator "lms/validators/course"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDashboardApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Get("/dashboard/student/:user_id", middleware.JWTMiddleware, userValidator.UserID(), GetStudentDashboard)
	app.Get("/dashboard/teacher/course/:course_id", middleware.JWTMiddleware, courseValidator.CourseIDParam(), GetCourseRoster)
	return app
}

func seedDashUser(t *testing.T, name, role string, instituteID uint) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:        name,
		Email:       name + "@test.dev",
		Password:    "hashed",
		Role:        role,
		Status:      models.UserActive,
		InstituteID: instituteID,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.InstituteID)
	require.NoError(t, err)
	return user, token
}

func getDashboard(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestStudentDashboardKeepsEnrollmentWithMissingCourse(t *testing.T) {
	app := setupDashboardApp(t)
	db := database.Database.Db

	institute := models.Institute{Name: "Acme", Code: "ACME"}
	require.NoError(t, db.Create(&institute).Error)

	student, token := seedDashUser(t, "dash-student", models.RoleStudent, institute.ID)

	course := courseModels.Course{
		Title:        "Intro to Go",
		Status:       courseModels.CoursePublished,
		InstituteID:  institute.ID,
		InstructorID: 999,
	}
	require.NoError(t, db.Create(&course).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		StudentID: student.ID, CourseID: course.ID, Progress: 40,
	}).Error)
	// Enrollment whose course row no longer exists
	require.NoError(t, db.Create(&courseModels.Enrollment{
		StudentID: student.ID, CourseID: 424242, Progress: 10,
	}).Error)

	status, body := getDashboard(t, app, fmt.Sprintf("/dashboard/student/%d", student.ID), token)
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	enrollments := data["enrollments"].([]interface{})
	require.Len(t, enrollments, 2)

	titles := map[float64]string{}
	for _, e := range enrollments {
		row := e.(map[string]interface{})
		titles[row["course_id"].(float64)] = row["course_title"].(string)
	}
	assert.Equal(t, "Intro to Go", titles[float64(course.ID)])
	assert.Equal(t, "", titles[424242])

	assert.Empty(t, data["errors"].([]interface{}))
}

func TestStudentDashboardReportsFailedSubFetch(t *testing.T) {
	app := setupDashboardApp(t)
	db := database.Database.Db

	institute := models.Institute{Name: "Acme", Code: "ACME"}
	require.NoError(t, db.Create(&institute).Error)

	student, token := seedDashUser(t, "dash-student", models.RoleStudent, institute.ID)

	// Losing one piece degrades that piece, never the whole page
	require.NoError(t, db.Migrator().DropTable(&models.GamificationPoint{}))

	status, body := getDashboard(t, app, fmt.Sprintf("/dashboard/student/%d", student.ID), token)
	require.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["total_points"])

	subErrors := data["errors"].([]interface{})
	require.Len(t, subErrors, 1)
	assert.Equal(t, "points unavailable", subErrors[0])
}

func TestCourseRosterSkipsMissingStudent(t *testing.T) {
	app := setupDashboardApp(t)
	db := database.Database.Db

	institute := models.Institute{Name: "Acme", Code: "ACME"}
	require.NoError(t, db.Create(&institute).Error)

	teacher, token := seedDashUser(t, "dash-teacher", models.RoleTeacher, institute.ID)
	student, _ := seedDashUser(t, "dash-student", models.RoleStudent, institute.ID)

	course := courseModels.Course{
		Title:        "Intro to Go",
		Status:       courseModels.CoursePublished,
		InstituteID:  institute.ID,
		InstructorID: teacher.ID,
	}
	require.NoError(t, db.Create(&course).Error)

	require.NoError(t, db.Create(&courseModels.Enrollment{
		StudentID: student.ID, CourseID: course.ID, Progress: 60,
	}).Error)
	// Enrollment whose student row no longer exists
	require.NoError(t, db.Create(&courseModels.Enrollment{
		StudentID: 424242, CourseID: course.ID,
	}).Error)

	status, body := getDashboard(t, app, fmt.Sprintf("/dashboard/teacher/course/%d", course.ID), token)
	require.Equal(t, http.StatusOK, status)

	students := body["data"].(map[string]interface{})["students"].([]interface{})
	require.Len(t, students, 1)
	row := students[0].(map[string]interface{})
	assert.Equal(t, float64(student.ID), row["student_id"])
	assert.Equal(t, float64(60), row["progress"])
}
