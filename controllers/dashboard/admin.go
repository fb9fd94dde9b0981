package dashboardController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboardStats returns platform-wide counts; admin only
func AdminDashboardStats(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	db := database.Database.Db

	count := func(model interface{}, query string, args ...interface{}) int64 {
		var n int64
		db.Model(model).Where(query, args...).Count(&n)
		return n
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", fiber.Map{
		"institutes": count(&models.Institute{}, "is_deleted = ?", false),
		"students":   count(&models.User{}, "role = ? AND is_deleted = ?", models.RoleStudent, false),
		"teachers":   count(&models.User{}, "role = ? AND is_deleted = ?", models.RoleTeacher, false),
		"managers":   count(&models.User{}, "role = ? AND is_deleted = ?", models.RoleManager, false),
		"courses":    count(&courseModels.Course{}, "is_deleted = ?", false),
		"published_courses": count(&courseModels.Course{}, "status = ? AND is_deleted = ?",
			courseModels.CoursePublished, false),
		"enrollments": count(&courseModels.Enrollment{}, "is_deleted = ?", false),
		"completed_enrollments": count(&courseModels.Enrollment{}, "completed = ? AND is_deleted = ?",
			true, false),
		"certificates": count(&courseModels.Certificate{}, "is_deleted = ?", false),
	})
}
