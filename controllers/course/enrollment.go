package controllers

import (
	"time"

	"lms/analytics"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"
	"lms/utils"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

// EnrollmentWithCourse is the read-side view of an enrollment joined with
// its course, so clients never chase course ids themselves.
type EnrollmentWithCourse struct {
	courseModels.Enrollment
	CourseTitle    string `json:"course_title"`
	CourseCategory string `json:"course_category"`
}

// EnrollInCourse enrolls the calling student into a published course.
// The (student, course) unique index makes duplicate attempts fail safely.
func EnrollInCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?",
		courseID, false, courseModels.CoursePublished).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, courseResource(&course)); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	// Check if user is already enrolled
	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND is_deleted = ?",
		user.ID, course.ID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&totalLessons)

	enrollment := courseModels.Enrollment{
		StudentID:    user.ID,
		CourseID:     course.ID,
		TotalLessons: int(totalLessons),
	}

	// The unique index turns a concurrent duplicate into an error here
	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}

	utils.Notify(user.ID, "Enrolled", "You are now enrolled in '"+course.Title+"'.", "/courses")
	utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// GetMyEnrollments lists the caller's enrollments with their courses
func GetMyEnrollments(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	page, limit, offset := courseValidator.ResolvePage(c)

	db := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("student_id = ? AND is_deleted = ?", user.ID, false)

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		view := EnrollmentWithCourse{Enrollment: enrollment}
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ?", enrollment.CourseID).First(&course).Error; err == nil {
			view.CourseTitle = course.Title
			view.CourseCategory = course.Category
		}
		result = append(result, view)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// CompleteLesson marks a lesson complete for the calling student and
// recomputes enrollment progress. Completing the same lesson twice is a
// no-op that reports success with the current state.
func CompleteLesson(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?",
		courseID, false, courseModels.CoursePublished).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	var lesson courseModels.Lesson
	if err := db.Where("id = ? AND course_id = ? AND is_deleted = ?", lessonID, course.ID, false).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	}

	// Repeat completion: succeed with the current state unchanged
	var existing courseModels.LessonCompletion
	if err := db.Where("student_id = ? AND lesson_id = ? AND is_deleted = ?", user.ID, lesson.ID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson already completed!", enrollment)
	}

	tx := db.Begin()

	// Lock the enrollment row first so concurrent completions of different
	// lessons by the same student recompute counts one at a time. Without
	// the lock both requests can count before either commits and leave the
	// enrollment stuck below 100.
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).
		First(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	}

	wasCompleted := enrollment.Completed

	completion := courseModels.LessonCompletion{
		StudentID: user.ID,
		LessonID:  lesson.ID,
		CourseID:  course.ID,
	}
	if err := tx.Create(&completion).Error; err != nil {
		tx.Rollback()
		// Lost the race with a concurrent completion of the same lesson;
		// the outcome is the same as the repeat case above.
		if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).First(&enrollment).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson already completed!", enrollment)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
	}

	// Recompute progress from counts inside the same transaction
	var totalLessons int64
	tx.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&totalLessons)

	var completedCount int64
	tx.Model(&courseModels.LessonCompletion{}).Where("student_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).Count(&completedCount)

	progress := analytics.Progress(int(completedCount), int(totalLessons), enrollment.Progress)
	completed := progress == 100

	updates := map[string]interface{}{
		"progress":          progress,
		"completed_lessons": int(completedCount),
		"total_lessons":     int(totalLessons),
		"completed":         completed,
	}
	if completed && !wasCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}

	if err := tx.Model(&courseModels.Enrollment{}).Where("id = ?", enrollment.ID).Updates(updates).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}
	tx.Commit()

	db.Where("id = ?", enrollment.ID).First(&enrollment)

	// Points for the lesson, bonus on finishing the course
	awardPoints(user.ID, course.ID, 5, models.PointsLessonComplete)
	if completed && !wasCompleted {
		awardPoints(user.ID, course.ID, 50, models.PointsCourseComplete)
		utils.Notify(user.ID, "Course Completed",
			"Congratulations, you completed '"+course.Title+"'!", "/courses")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as completed!", enrollment)
}

// awardPoints records gamification points; failures are ignored
func awardPoints(userID, courseID uint, points int, reason string) {
	database.Database.Db.Create(&models.GamificationPoint{
		UserID:   userID,
		CourseID: courseID,
		Points:   points,
		Reason:   reason,
	})
}

// GetMyPoints returns the caller's gamification point history and total
func GetMyPoints(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	var points []models.GamificationPoint
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Order("created_at desc").Find(&points).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch points!", nil)
	}

	total := 0
	for _, p := range points {
		total += p.Points
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Points fetched successfully!", fiber.Map{
		"total":  total,
		"points": points,
	})
}
