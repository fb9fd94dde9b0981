package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseRequest is the course creation payload. InstituteID is honored
// only for unscoped admins; everyone else creates in their own institute.
type CreateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	InstituteID uint   `json:"institute_id"`
}

// CreateCourse validates the course creation body
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourseRequest is the course update payload; empty fields are kept
type UpdateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateCourse validates the course update body
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Title != "" && len(strings.TrimSpace(reqData.Title)) < 3 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"title": "Title must be at least 3 characters long!",
			})
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// CourseID validates the :id path parameter
func CourseID() fiber.Handler {
	return paramID("id", "courseID", "Invalid Course ID!")
}

// CourseIDParam validates the :course_id path parameter
func CourseIDParam() fiber.Handler {
	return paramID("course_id", "courseID", "Invalid Course ID!")
}

// LessonIDParam validates the :lesson_id path parameter
func LessonIDParam() fiber.Handler {
	return paramID("lesson_id", "lessonID", "Invalid Lesson ID!")
}

// ChapterIDParam validates the :chapter_id path parameter
func ChapterIDParam() fiber.Handler {
	return paramID("chapter_id", "chapterID", "Invalid Chapter ID!")
}

func paramID(param, local, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params(param))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, message, nil)
		}
		c.Locals(local, id)
		return c.Next()
	}
}

// CreateChapterRequest is the chapter creation payload
type CreateChapterRequest struct {
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
}

// CreateChapter validates the chapter creation body
func CreateChapter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateChapterRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Title) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"title": "Title is required!",
			})
		}

		c.Locals("validatedChapter", reqData)
		return c.Next()
	}
}

// CreateLessonRequest is the lesson creation payload
type CreateLessonRequest struct {
	Title      string `json:"title"`
	Type       string `json:"type"`
	ContentURL string `json:"content_url"`
	OrderIndex int    `json:"order_index"`
}

var validLessonTypes = map[string]bool{"VIDEO": true, "TEXT": true, "QUIZ": true, "PDF": true}

// CreateLesson validates the lesson creation body
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateLessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}

		reqData.Type = strings.ToUpper(strings.TrimSpace(reqData.Type))
		if reqData.Type == "" {
			reqData.Type = "TEXT"
		} else if !validLessonTypes[reqData.Type] {
			errors["type"] = "Type must be one of VIDEO, TEXT, QUIZ or PDF!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// PageQuery is the shared pagination query
type PageQuery struct {
	Page  *int `query:"page"`
	Limit *int `query:"limit"`
}

// CourseList validates list pagination; both values are optional
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PageQuery)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// ResolvePage extracts page/limit with defaults from the validated query
func ResolvePage(c *fiber.Ctx) (page, limit, offset int) {
	page, limit = 1, 10
	if reqData, ok := c.Locals("validatedList").(*PageQuery); ok && reqData != nil {
		if reqData.Page != nil {
			page = *reqData.Page
		}
		if reqData.Limit != nil {
			limit = *reqData.Limit
		}
	}
	return page, limit, (page - 1) * limit
}
