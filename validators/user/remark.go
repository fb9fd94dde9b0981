package userValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateRemarkRequest is the remark creation payload
type CreateRemarkRequest struct {
	StudentID uint   `json:"student_id"`
	CourseID  uint   `json:"course_id"`
	Text      string `json:"text"`
}

// CreateRemark validates the remark creation body
func CreateRemark() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRemarkRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.StudentID == 0 {
			errors["student_id"] = "Student ID is required!"
		}
		if strings.TrimSpace(reqData.Text) == "" {
			errors["text"] = "Text is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRemark", reqData)
		return c.Next()
	}
}
