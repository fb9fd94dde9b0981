package userRoutes

import (
	notificationControllers "lms/controllers/notification"
	uploadControllers "lms/controllers/upload"
	userControllers "lms/controllers/user"
	"lms/middleware"
	"lms/models"
	userValidators "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up profile, user administration, remark and
// notification routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/me", middleware.JWTMiddleware, userControllers.GetMe)
	userGroup.Get("/notifications", middleware.JWTMiddleware, notificationControllers.GetMyNotifications)
	userGroup.Post("/notification/:id/read", middleware.JWTMiddleware, notificationControllers.MarkNotificationRead)
	userGroup.Post("/notifications/read/all", middleware.JWTMiddleware, notificationControllers.MarkAllNotificationsRead)

	// Remarks on students, written by teachers and managers
	userGroup.Post("/remark", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleTeacher, models.RoleManager, models.RoleAdmin), userValidators.CreateRemark(), userControllers.CreateRemark)
	userGroup.Get("/:user_id/remarks", middleware.JWTMiddleware, userValidators.UserID(), userControllers.ListStudentRemarks)

	adminGroup := app.Group("/admin")
	adminGroup.Get("/users", middleware.JWTMiddleware, userValidators.ListUsers(), userControllers.ListUsers)
	adminGroup.Put("/user/:user_id/status", middleware.JWTMiddleware, userValidators.UserID(), userValidators.UpdateStatus(), userControllers.UpdateUserStatus)

	app.Post("/upload", middleware.JWTMiddleware, uploadControllers.UploadFile)
}
