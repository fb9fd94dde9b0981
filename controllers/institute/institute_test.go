package instituteController

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/policy"
	instituteValidator "lms/validators/institute"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupInstituteApp(t *testing.T) *fiber.App {
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
	app.Post("/admin/institute/create", middleware.JWTMiddleware, instituteValidator.CreateInstitute(), AdminCreateInstitute)
	app.Get("/admin/institute/list", middleware.JWTMiddleware, AdminListInstitutes)
	app.Get("/user/institute", middleware.JWTMiddleware, GetMyInstitute)
	return app
}

func seedUser(t *testing.T, role string, instituteID uint) (models.User, string) {
	t.Helper()
	user := models.User{
		Name:        "Test User",
		Email:       role + "@test.dev",
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

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAdminCreateAndListInstitutes(t *testing.T) {
	app := setupInstituteApp(t)
	_, token := seedUser(t, models.RoleAdmin, 0)

	payload := map[string]string{"name": "Acme Academy", "code": "acme1", "address": "1 Main St"}
	status, body := doJSON(t, app, http.MethodPost, "/admin/institute/create", token, payload)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	// Codes are uppercased and unique
	status, _ = doJSON(t, app, http.MethodPost, "/admin/institute/create", token,
		map[string]string{"name": "Other", "code": "ACME1"})
	assert.Equal(t, http.StatusConflict, status)

	status, body = doJSON(t, app, http.MethodGet, "/admin/institute/list", token, nil)
	assert.Equal(t, http.StatusOK, status)
	institutes := body["data"].([]interface{})
	require.Len(t, institutes, 1)
	assert.Equal(t, "ACME1", institutes[0].(map[string]interface{})["code"])
}

func TestInstituteAdminEndpointsDenyOtherRoles(t *testing.T) {
	app := setupInstituteApp(t)

	institute := models.Institute{Name: "Acme", Code: "ACME"}
	require.NoError(t, database.Database.Db.Create(&institute).Error)

	for _, role := range []string{models.RoleManager, models.RoleTeacher, models.RoleStudent} {
		t.Run(role, func(t *testing.T) {
			_, token := seedUser(t, role, institute.ID)

			status, body := doJSON(t, app, http.MethodGet, "/admin/institute/list", token, nil)
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, policy.ReasonAccessDenied, body["message"])

			status, body = doJSON(t, app, http.MethodPost, "/admin/institute/create", token,
				map[string]string{"name": "Rogue", "code": "RGE01"})
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, policy.ReasonAccessDenied, body["message"])
		})
	}
}

func TestGetMyInstituteRequiresLink(t *testing.T) {
	app := setupInstituteApp(t)
	_, token := seedUser(t, models.RoleAdmin, 0)

	status, body := doJSON(t, app, http.MethodGet, "/user/institute", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, policy.ReasonNoInstitute, body["message"])
}
