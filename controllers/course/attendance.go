package controllers

import (
	"time"

	"lms/analytics"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// MarkAttendance records attendance for a course on one date. Existing
// (student, course, date) rows are updated in place, so re-marking a day
// succeeds instead of conflicting.
func MarkAttendance(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role == models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	reqData := c.Locals("validatedAttendance").(*courseValidator.MarkAttendanceRequest)

	course, err := findCourse(int(reqData.CourseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, courseResource(course)); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}
	// Teachers may only mark their own courses
	if user.Role == models.RoleTeacher && course.InstructorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	date, _ := time.Parse("2006-01-02", reqData.Date)

	db := database.Database.Db
	marked := make([]courseModels.Attendance, 0, len(reqData.Records))

	for _, record := range reqData.Records {
		// Only enrolled students get attendance rows
		var enrollment courseModels.Enrollment
		if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ?",
			record.StudentID, course.ID, false).First(&enrollment).Error; err != nil {
			continue
		}

		var attendance courseModels.Attendance
		if err := db.Where("student_id = ? AND course_id = ? AND date = ? AND is_deleted = ?",
			record.StudentID, course.ID, date, false).First(&attendance).Error; err == nil {
			attendance.Status = record.Status
			attendance.MarkedBy = user.ID
			db.Save(&attendance)
		} else {
			attendance = courseModels.Attendance{
				StudentID:   record.StudentID,
				CourseID:    course.ID,
				Date:        date,
				Status:      record.Status,
				InstituteID: course.InstituteID,
				MarkedBy:    user.ID,
			}
			if err := db.Create(&attendance).Error; err != nil {
				continue
			}
		}
		marked = append(marked, attendance)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance marked successfully!", fiber.Map{
		"marked": len(marked),
		"date":   reqData.Date,
	})
}

// ListAttendance lists attendance records filtered by course and/or student.
// Students may only query their own records.
func ListAttendance(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	reqData := c.Locals("validatedAttendanceQuery").(*courseValidator.AttendanceQuery)

	caller := middleware.CallerOf(user)

	// Students always query themselves
	studentID := reqData.StudentID
	if user.Role == models.RoleStudent {
		studentID = user.ID
	} else if studentID != 0 {
		var target models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", studentID, false).First(&target).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
		}
		if d := policy.CanActFor(caller, target.ID, target.InstituteID); !d.Allowed {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
		}
	}

	scope := policy.ListScope(caller, "")
	if scope.Empty {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance fetched successfully!", []courseModels.Attendance{})
	}

	db := database.Database.Db.Where("is_deleted = ?", false)
	if !scope.All {
		db = db.Where("institute_id = ?", scope.InstituteID)
	}
	if reqData.CourseID != 0 {
		db = db.Where("course_id = ?", reqData.CourseID)
	}
	if studentID != 0 {
		db = db.Where("student_id = ?", studentID)
	}

	var records []courseModels.Attendance
	if err := db.Order("date desc").Find(&records).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attendance!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance fetched successfully!", records)
}

// GetAttendanceSummary returns the attendance percentage for a student,
// optionally narrowed to one course.
func GetAttendanceSummary(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	reqData := c.Locals("validatedAttendanceQuery").(*courseValidator.AttendanceQuery)

	studentID := reqData.StudentID
	if user.Role == models.RoleStudent {
		studentID = user.ID
	}
	if studentID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Student ID is required!", nil)
	}

	caller := middleware.CallerOf(user)
	if user.Role != models.RoleStudent {
		var target models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", studentID, false).First(&target).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
		}
		if d := policy.CanActFor(caller, target.ID, target.InstituteID); !d.Allowed {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
		}
	}

	db := database.Database.Db.Model(&courseModels.Attendance{}).
		Where("student_id = ? AND is_deleted = ?", studentID, false)
	if reqData.CourseID != 0 {
		db = db.Where("course_id = ?", reqData.CourseID)
	}

	var total int64
	db.Count(&total)

	var present int64
	db.Where("status = ?", courseModels.AttendancePresent).Count(&present)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attendance summary fetched successfully!", fiber.Map{
		"student_id": studentID,
		"present":    present,
		"total":      total,
		"percentage": analytics.AttendancePercent(int(present), int(total)),
	})
}
