package instituteRoutes

import (
	instituteControllers "lms/controllers/institute"
	"lms/middleware"
	"lms/models"
	instituteValidators "lms/validators/institute"

	"github.com/gofiber/fiber/v2"
)

// SetupInstituteRoutes sets up institute management routes (admin only)
func SetupInstituteRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/institute")

	adminGroup.Post("/create", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), instituteValidators.CreateInstitute(), instituteControllers.AdminCreateInstitute)
	adminGroup.Get("/list", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), instituteControllers.AdminListInstitutes)
	adminGroup.Put("/:id/status", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), instituteValidators.InstituteID(), instituteValidators.UpdateStatus(), instituteControllers.AdminUpdateInstituteStatus)

	userGroup := app.Group("/user")
	userGroup.Get("/institute", middleware.JWTMiddleware, instituteControllers.GetMyInstitute)
}
