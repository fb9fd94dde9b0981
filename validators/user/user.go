package userValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var validRoles = map[string]bool{"STUDENT": true, "TEACHER": true, "MANAGER": true, "ADMIN": true}
var validStatuses = map[string]bool{"ACTIVE": true, "PENDING": true, "INACTIVE": true}

// ListUsersQuery carries the optional role/status list filters
type ListUsersQuery struct {
	Role   string `query:"role"`
	Status string `query:"status"`
}

// ListUsers validates the user list query filters
func ListUsers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListUsersQuery)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		reqData.Role = strings.ToUpper(strings.TrimSpace(reqData.Role))
		if reqData.Role != "" && !validRoles[reqData.Role] {
			errors["role"] = "Role must be one of STUDENT, TEACHER, MANAGER or ADMIN!"
		}

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
		if reqData.Status != "" && !validStatuses[reqData.Status] {
			errors["status"] = "Status must be one of ACTIVE, PENDING or INACTIVE!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

// UserID validates the :user_id path parameter
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("user_id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
		}
		c.Locals("targetUserID", id)
		return c.Next()
	}
}

// UpdateStatus validates the user status update body
func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
		if !validStatuses[reqData.Status] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be one of ACTIVE, PENDING or INACTIVE!",
			})
		}

		c.Locals("validatedStatus", reqData.Status)
		return c.Next()
	}
}
