package userController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/policy"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// GetMe returns the caller's own profile
func GetMe(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// ListUsers lists users visible to the caller, filtered by role/status.
// Staff without an institute get an empty list, never everyone.
func ListUsers(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleManager {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	reqData := c.Locals("validatedUserList").(*userValidator.ListUsersQuery)

	scope := policy.ListScope(middleware.CallerOf(user), "")
	if scope.Empty {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", []models.User{})
	}

	db := database.Database.Db.Where("is_deleted = ?", false)
	if !scope.All {
		db = db.Where("institute_id = ?", scope.InstituteID)
	}
	if reqData.Role != "" {
		db = db.Where("role = ?", reqData.Role)
	}
	if reqData.Status != "" {
		db = db.Where("status = ?", reqData.Status)
	}

	var users []models.User
	if err := db.Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", users)
}

// UpdateUserStatus activates/deactivates a user within the caller's scope
func UpdateUserStatus(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleAdmin && user.Role != models.RoleManager {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	targetUserID := c.Locals("targetUserID").(int)
	status := c.Locals("validatedStatus").(string)

	db := database.Database.Db

	var target models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, policy.Resource{InstituteID: target.InstituteID}); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	if err := db.Model(&target).Update("status", status).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	target.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User status updated successfully!", target)
}
