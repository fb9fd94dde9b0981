package courseValidator

import (
	"strings"
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateAssignmentRequest is the assignment creation payload
type CreateAssignmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"` // RFC3339
}

// CreateAssignment validates the assignment creation body
func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateAssignmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.DueDate) == "" {
			errors["due_date"] = "Due date is required!"
		} else if _, err := time.Parse(time.RFC3339, reqData.DueDate); err != nil {
			errors["due_date"] = "Due date must be a valid RFC3339 timestamp!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

// AssignmentID validates the :id path parameter
func AssignmentID() fiber.Handler {
	return paramID("id", "assignmentID", "Invalid Assignment ID!")
}

// SubmissionID validates the :submission_id path parameter
func SubmissionID() fiber.Handler {
	return paramID("submission_id", "submissionID", "Invalid Submission ID!")
}

// SubmitAssignmentRequest is the submission payload
type SubmitAssignmentRequest struct {
	Content string `json:"content"`
	FileURL string `json:"file_url"`
}

// SubmitAssignment validates the submission body
func SubmitAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitAssignmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Content) == "" && strings.TrimSpace(reqData.FileURL) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"content": "Either content or a file is required!",
			})
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// GradeSubmissionRequest is the grading payload
type GradeSubmissionRequest struct {
	Grade    *float64 `json:"grade"`
	Feedback string   `json:"feedback"`
}

// GradeSubmission validates the grading body
func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(GradeSubmissionRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Grade == nil || *reqData.Grade < 0 || *reqData.Grade > 100 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"grade": "Grade must be between 0 and 100!",
			})
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
