package instituteValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateInstituteRequest is the institute creation payload
type CreateInstituteRequest struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	Address    string `json:"address"`
	WebhookURL string `json:"webhook_url"`
}

// CreateInstitute validates the institute creation body
func CreateInstitute() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateInstituteRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}
		if strings.TrimSpace(reqData.Code) == "" {
			errors["code"] = "Code is required!"
		} else if len(strings.TrimSpace(reqData.Code)) < 3 {
			errors["code"] = "Code must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Code = strings.ToUpper(strings.TrimSpace(reqData.Code))
		c.Locals("validatedInstitute", reqData)
		return c.Next()
	}
}

// InstituteID validates the :id path parameter
func InstituteID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid institute ID!", nil)
		}
		c.Locals("instituteID", id)
		return c.Next()
	}
}

// UpdateStatus validates the institute status update body
func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Status = strings.ToUpper(strings.TrimSpace(reqData.Status))
		if reqData.Status != "ACTIVE" && reqData.Status != "INACTIVE" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be ACTIVE or INACTIVE!",
			})
		}

		c.Locals("validatedStatus", reqData.Status)
		return c.Next()
	}
}
