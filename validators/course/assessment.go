package courseValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// QuestionRequest is one question in an assessment creation payload
type QuestionRequest struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Marks         int      `json:"marks"`
}

// CreateAssessmentRequest is the assessment creation payload
type CreateAssessmentRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []QuestionRequest `json:"questions"`
}

// CreateAssessment validates the assessment creation body
func CreateAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateAssessmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}
		for i := range reqData.Questions {
			q := &reqData.Questions[i]
			if strings.TrimSpace(q.Text) == "" {
				errors["questions"] = "Every question needs text!"
				break
			}
			if len(q.Options) < 2 {
				errors["questions"] = "Every question needs at least 2 options!"
				break
			}
			if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
				errors["questions"] = "Correct option index out of range!"
				break
			}
			if q.Marks <= 0 {
				q.Marks = 1
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssessment", reqData)
		return c.Next()
	}
}

// AssessmentID validates the :id path parameter
func AssessmentID() fiber.Handler {
	return paramID("id", "assessmentID", "Invalid Assessment ID!")
}

// SubmitAssessmentRequest maps question ids to chosen option indexes
type SubmitAssessmentRequest struct {
	Answers map[uint]int `json:"answers"`
}

// SubmitAssessment validates the assessment submission body
func SubmitAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitAssessmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Answers) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "At least one answer is required!",
			})
		}

		c.Locals("validatedAnswers", reqData)
		return c.Next()
	}
}
