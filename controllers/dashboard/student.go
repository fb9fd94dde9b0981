package dashboardController

import (
	"log"

	"lms/analytics"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
)

// GetStudentDashboard aggregates a student's enrollments, attendance,
// scores and pending work. Each sub-fetch is isolated: a failing piece is
// reported in the errors list and zeroed, never failing the whole page.
func GetStudentDashboard(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	targetUserID := c.Locals("targetUserID").(int)

	db := database.Database.Db

	var student models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanActFor(caller, student.ID, student.InstituteID); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	subErrors := []string{}

	// Enrollments with course titles
	type EnrollmentView struct {
		courseModels.Enrollment
		CourseTitle string `json:"course_title"`
	}
	enrollmentViews := []EnrollmentView{}
	var enrollments []courseModels.Enrollment
	if err := db.Where("student_id = ? AND is_deleted = ?", student.ID, false).Find(&enrollments).Error; err != nil {
		log.Printf("Dashboard: enrollments fetch failed for user %d: %v", student.ID, err)
		subErrors = append(subErrors, "enrollments unavailable")
	} else {
		for _, enrollment := range enrollments {
			view := EnrollmentView{Enrollment: enrollment}
			var course courseModels.Course
			if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
				// Dangling course reference: skip the title, keep the row
				enrollmentViews = append(enrollmentViews, view)
				continue
			}
			view.CourseTitle = course.Title
			enrollmentViews = append(enrollmentViews, view)
		}
	}

	// Attendance percentage across all courses
	attendancePercent := 0
	{
		var total, present int64
		q := db.Model(&courseModels.Attendance{}).Where("student_id = ? AND is_deleted = ?", student.ID, false)
		if err := q.Count(&total).Error; err != nil {
			log.Printf("Dashboard: attendance fetch failed for user %d: %v", student.ID, err)
			subErrors = append(subErrors, "attendance unavailable")
		} else {
			q.Where("status = ?", courseModels.AttendancePresent).Count(&present)
			attendancePercent = analytics.AttendancePercent(int(present), int(total))
		}
	}

	// Overall assessment score
	overallScore := 0.0
	{
		var results []courseModels.AssessmentResult
		if err := db.Where("student_id = ? AND is_deleted = ?", student.ID, false).Find(&results).Error; err != nil {
			log.Printf("Dashboard: results fetch failed for user %d: %v", student.ID, err)
			subErrors = append(subErrors, "assessment results unavailable")
		} else {
			entries := make([]analytics.ScoreEntry, len(results))
			for i, r := range results {
				entries[i] = analytics.ScoreEntry{Score: r.Score, TotalMarks: r.TotalMarks}
			}
			overallScore = analytics.OverallScore(entries)
		}
	}

	// Pending work: assignments without a submission plus assessments
	// without a result, across enrolled courses
	pendingWork := 0
	{
		courseIDs := make([]uint, 0, len(enrollments))
		for _, enrollment := range enrollments {
			courseIDs = append(courseIDs, enrollment.CourseID)
		}
		if len(courseIDs) > 0 {
			var assignments []courseModels.Assignment
			if err := db.Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Find(&assignments).Error; err != nil {
				log.Printf("Dashboard: assignments fetch failed for user %d: %v", student.ID, err)
				subErrors = append(subErrors, "assignments unavailable")
			} else {
				for _, assignment := range assignments {
					var submission courseModels.Submission
					if err := db.Where("assignment_id = ? AND student_id = ? AND is_deleted = ?",
						assignment.ID, student.ID, false).First(&submission).Error; err != nil {
						pendingWork++
					}
				}
			}

			var assessments []courseModels.Assessment
			if err := db.Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Find(&assessments).Error; err != nil {
				log.Printf("Dashboard: assessments fetch failed for user %d: %v", student.ID, err)
				subErrors = append(subErrors, "assessments unavailable")
			} else {
				for _, assessment := range assessments {
					var result courseModels.AssessmentResult
					if err := db.Where("assessment_id = ? AND student_id = ? AND is_deleted = ?",
						assessment.ID, student.ID, false).First(&result).Error; err != nil {
						pendingWork++
					}
				}
			}
		}
	}

	// Recent notifications
	notifications := []models.Notification{}
	if err := db.Where("user_id = ? AND is_deleted = ?", student.ID, false).
		Order("created_at desc").Limit(10).Find(&notifications).Error; err != nil {
		subErrors = append(subErrors, "notifications unavailable")
	}

	// Gamification total
	totalPoints := 0
	{
		var points []models.GamificationPoint
		if err := db.Where("user_id = ? AND is_deleted = ?", student.ID, false).Find(&points).Error; err != nil {
			subErrors = append(subErrors, "points unavailable")
		} else {
			for _, p := range points {
				totalPoints += p.Points
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"student": fiber.Map{
			"id":    student.ID,
			"name":  student.Name,
			"email": student.Email,
		},
		"enrollments":        enrollmentViews,
		"attendance_percent": attendancePercent,
		"overall_score":      overallScore,
		"pending_work":       pendingWork,
		"notifications":      notifications,
		"total_points":       totalPoints,
		"errors":             subErrors,
	})
}
