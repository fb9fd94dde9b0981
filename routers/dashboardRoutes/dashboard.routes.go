package dashboardRoutes

import (
	dashboardControllers "lms/controllers/dashboard"
	"lms/middleware"
	"lms/models"
	courseValidators "lms/validators/course"
	userValidators "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// SetupDashboardRoutes sets up the role dashboards
func SetupDashboardRoutes(app *fiber.App) {
	dashGroup := app.Group("/dashboard")

	dashGroup.Get("/student/:user_id", middleware.JWTMiddleware, userValidators.UserID(), dashboardControllers.GetStudentDashboard)
	dashGroup.Get("/teacher/course/:course_id", middleware.JWTMiddleware, courseValidators.CourseIDParam(), dashboardControllers.GetCourseRoster)
	dashGroup.Get("/manager", middleware.JWTMiddleware, dashboardControllers.GetManagerAnalytics)

	adminGroup := app.Group("/admin/dashboard")
	adminGroup.Get("/stats", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin), dashboardControllers.AdminDashboardStats)
}
