package middleware

import (
	"lms/database"
	"lms/models"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser loads the authenticated user set by JWTMiddleware. The user is
// re-read from the database so role and institute changes take effect without
// waiting for the token to expire.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, err
	}
	if user.Status == models.UserInactive {
		return nil, fiber.ErrUnauthorized
	}
	return &user, nil
}

// CallerOf builds the policy caller for a loaded user
func CallerOf(user *models.User) policy.Caller {
	return policy.Caller{
		UserID:      user.ID,
		Role:        user.Role,
		InstituteID: user.InstituteID,
	}
}

// RequireRoles restricts a route to the given roles. It runs after
// JWTMiddleware and before the handler.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentUser(c)
		if err != nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}
}
