package courseValidator

import (
	"strings"
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var validAttendanceStatuses = map[string]bool{"PRESENT": true, "ABSENT": true, "LATE": true}

// AttendanceRecord is one student's status in a mark request
type AttendanceRecord struct {
	StudentID uint   `json:"student_id"`
	Status    string `json:"status"`
}

// MarkAttendanceRequest marks a course's attendance for one date
type MarkAttendanceRequest struct {
	CourseID uint               `json:"course_id"`
	Date     string             `json:"date"` // YYYY-MM-DD
	Records  []AttendanceRecord `json:"records"`
}

// MarkAttendance validates the attendance marking body
func MarkAttendance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(MarkAttendanceRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CourseID == 0 {
			errors["course_id"] = "Course ID is required!"
		}
		if strings.TrimSpace(reqData.Date) == "" {
			errors["date"] = "Date is required!"
		} else if _, err := time.Parse("2006-01-02", reqData.Date); err != nil {
			errors["date"] = "Date must be in YYYY-MM-DD format!"
		}
		if len(reqData.Records) == 0 {
			errors["records"] = "At least one attendance record is required!"
		}
		for i := range reqData.Records {
			r := &reqData.Records[i]
			r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
			if r.StudentID == 0 || !validAttendanceStatuses[r.Status] {
				errors["records"] = "Every record needs a student ID and a status of PRESENT, ABSENT or LATE!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAttendance", reqData)
		return c.Next()
	}
}

// AttendanceQuery carries the list filters for attendance records
type AttendanceQuery struct {
	CourseID  uint `query:"courseId"`
	StudentID uint `query:"studentId"`
}

// AttendanceList validates the attendance query filters
func AttendanceList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AttendanceQuery)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedAttendanceQuery", reqData)
		return c.Next()
	}
}
