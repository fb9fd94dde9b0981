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

// GetManagerAnalytics aggregates institute-wide numbers for managers:
// user/course counts, the completion rate and the top performing courses.
// Sub-fetches are isolated like the student dashboard.
func GetManagerAnalytics(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleManager && user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	scope := policy.ListScope(middleware.CallerOf(user), "")
	if scope.Empty {
		// Manager without an institute sees empty analytics, not an error
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
			"total_students":    0,
			"total_teachers":    0,
			"total_courses":     0,
			"total_enrollments": 0,
			"completion_rate":   "0.0",
			"top_courses":       []analytics.CoursePerformance{},
			"errors":            []string{},
		})
	}

	db := database.Database.Db
	subErrors := []string{}

	countUsers := func(role string) int64 {
		q := db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", role, false)
		if !scope.All {
			q = q.Where("institute_id = ?", scope.InstituteID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			log.Printf("Analytics: user count failed: %v", err)
			subErrors = append(subErrors, "user counts unavailable")
		}
		return n
	}

	totalStudents := countUsers(models.RoleStudent)
	totalTeachers := countUsers(models.RoleTeacher)

	var totalCourses int64
	{
		q := db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
		if !scope.All {
			q = q.Where("institute_id = ?", scope.InstituteID)
		}
		if err := q.Count(&totalCourses).Error; err != nil {
			subErrors = append(subErrors, "course count unavailable")
		}
	}

	// Enrollments joined with institute courses
	var courses []courseModels.Course
	{
		q := db.Where("is_deleted = ?", false)
		if !scope.All {
			q = q.Where("institute_id = ?", scope.InstituteID)
		}
		if err := q.Find(&courses).Error; err != nil {
			log.Printf("Analytics: course fetch failed: %v", err)
			subErrors = append(subErrors, "courses unavailable")
		}
	}

	courseTitles := make(map[uint]string, len(courses))
	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseTitles[course.ID] = course.Title
		courseIDs = append(courseIDs, course.ID)
	}

	var totalEnrollments, completedEnrollments int64
	progressEntries := []analytics.ProgressEntry{}
	if len(courseIDs) > 0 {
		var enrollments []courseModels.Enrollment
		if err := db.Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Find(&enrollments).Error; err != nil {
			log.Printf("Analytics: enrollment fetch failed: %v", err)
			subErrors = append(subErrors, "enrollments unavailable")
		} else {
			totalEnrollments = int64(len(enrollments))
			for _, enrollment := range enrollments {
				if enrollment.Completed {
					completedEnrollments++
				}
				progressEntries = append(progressEntries, analytics.ProgressEntry{
					CourseID:    enrollment.CourseID,
					CourseTitle: courseTitles[enrollment.CourseID],
					Progress:    enrollment.Progress,
				})
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"total_students":    totalStudents,
		"total_teachers":    totalTeachers,
		"total_courses":     totalCourses,
		"total_enrollments": totalEnrollments,
		"completion_rate":   analytics.CompletionRate(completedEnrollments, totalEnrollments),
		"top_courses":       analytics.CourseRanking(progressEntries, 5),
		"errors":            subErrors,
	})
}
