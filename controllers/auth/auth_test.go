package authController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestSignupAndLogin(t *testing.T) {
	app := setupAuthApp(t)

	email := "alice" + uuid.NewString()[:8] + "@test.dev"

	status, body := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Alice",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, models.RoleStudent, data["Role"])
	assert.Equal(t, models.UserActive, data["Status"])
	assert.Empty(t, data["Password"])

	// Re-using the email conflicts
	status, body = postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Alice Again",
		"email":    email,
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email is already registered!", body["message"])

	// Login with the right password
	status, body = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, status)
	loginData := body["data"].(map[string]interface{})
	assert.NotEmpty(t, loginData["token"])

	// Wrong password is rejected without detail
	status, body = postJSON(t, app, "/auth/login", fiber.Map{
		"email":    email,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password!", body["message"])
}

func TestSignupTeacherStartsPending(t *testing.T) {
	app := setupAuthApp(t)

	institute := models.Institute{Name: "Acme", Code: "AC" + uuid.NewString()[:6], Status: "ACTIVE"}
	require.NoError(t, database.Database.Db.Create(&institute).Error)

	status, body := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":           "Bob",
		"email":          "bob" + uuid.NewString()[:8] + "@test.dev",
		"password":       "secret123",
		"role":           models.RoleTeacher,
		"institute_code": institute.Code,
	})
	require.Equal(t, http.StatusCreated, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, models.UserPending, data["Status"])
	assert.Equal(t, float64(institute.ID), data["institute_id"])
}

func TestSignupUnknownInstituteCode(t *testing.T) {
	app := setupAuthApp(t)

	status, body := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":           "Carol",
		"email":          "carol" + uuid.NewString()[:8] + "@test.dev",
		"password":       "secret123",
		"institute_code": "NOPE",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Institute not found or inactive!", body["message"])
}

func TestLoginInactiveAccount(t *testing.T) {
	app := setupAuthApp(t)

	email := "dave" + uuid.NewString()[:8] + "@test.dev"
	status, _ := postJSON(t, app, "/auth/signup", fiber.Map{
		"name":     "Dave",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)

	require.NoError(t, database.Database.Db.Model(&models.User{}).
		Where("email = ?", email).Update("status", models.UserInactive).Error)

	status, body := postJSON(t, app, "/auth/login", fiber.Map{
		"email":    email,
		"password": "secret123",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Account is inactive. Contact your institute.", body["message"])
}
