package dashboardController

import (
	"lms/analytics"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
)

// GetCourseRoster builds the teacher-facing per-student roll-up for one
// course: progress, attendance, overall score and a status band.
func GetCourseRoster(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, policy.Resource{InstituteID: course.InstituteID, OwnerID: course.InstructorID}); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}
	// Teachers only see their own rosters; managers see the institute's
	if user.Role == models.RoleTeacher && course.InstructorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}
	if user.Role == models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	var enrollments []courseModels.Enrollment
	if err := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type StudentRollup struct {
		StudentID         uint    `json:"student_id"`
		StudentName       string  `json:"student_name"`
		StudentEmail      string  `json:"student_email"`
		Progress          int     `json:"progress"`
		AttendancePercent int     `json:"attendance_percent"`
		OverallScore      float64 `json:"overall_score"`
		Status            string  `json:"status"`
	}

	roster := make([]StudentRollup, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var student models.User
		if err := db.Where("id = ? AND is_deleted = ?", enrollment.StudentID, false).First(&student).Error; err != nil {
			// Dangling student reference, drop the row and keep going
			continue
		}

		var total, present int64
		q := db.Model(&courseModels.Attendance{}).
			Where("student_id = ? AND course_id = ? AND is_deleted = ?", student.ID, course.ID, false)
		q.Count(&total)
		q.Where("status = ?", courseModels.AttendancePresent).Count(&present)
		attendancePercent := analytics.AttendancePercent(int(present), int(total))

		var results []courseModels.AssessmentResult
		db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", student.ID, course.ID, false).Find(&results)
		entries := make([]analytics.ScoreEntry, len(results))
		for i, r := range results {
			entries[i] = analytics.ScoreEntry{Score: r.Score, TotalMarks: r.TotalMarks}
		}
		overallScore := analytics.OverallScore(entries)

		roster = append(roster, StudentRollup{
			StudentID:         student.ID,
			StudentName:       student.Name,
			StudentEmail:      student.Email,
			Progress:          enrollment.Progress,
			AttendancePercent: attendancePercent,
			OverallScore:      overallScore,
			Status:            analytics.ClassifyStatus(overallScore, float64(attendancePercent)),
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Roster fetched successfully!", fiber.Map{
		"course": fiber.Map{
			"id":    course.ID,
			"title": course.Title,
		},
		"students": roster,
	})
}
