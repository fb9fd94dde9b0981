package controllers

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// findCourse loads a live course by id
func findCourse(courseID int) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// courseResource converts a course into the policy resource shape
func courseResource(course *courseModels.Course) policy.Resource {
	return policy.Resource{InstituteID: course.InstituteID, OwnerID: course.InstructorID}
}

// CreateCourse creates a draft course; teacher or admin only
func CreateCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleTeacher && user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.RequireInstitute(caller); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)

	instituteID := user.InstituteID
	if instituteID == 0 {
		// Unscoped admin must name the target institute
		if reqData.InstituteID == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Institute ID is required!", nil)
		}
		instituteID = reqData.InstituteID
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		Category:     reqData.Category,
		Status:       courseModels.CourseDraft,
		InstituteID:  instituteID,
		InstructorID: user.ID,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates course fields; owner or admin only
func UpdateCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	courseID := c.Locals("courseID").(int)
	course, err := findCourse(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonModifyCourse); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	reqData := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)

	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Category != "" {
		course.Category = reqData.Category
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse soft-deletes a course; owner or admin only.
// Enrollments are left in place intentionally.
func DeleteCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	courseID := c.Locals("courseID").(int)
	course, err := findCourse(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonDeleteCourse); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	if err := database.Database.Db.Model(course).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// PublishCourse moves a course from DRAFT to PUBLISHED; owner or admin only
func PublishCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	courseID := c.Locals("courseID").(int)
	course, err := findCourse(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonModifyCourse); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	if err := database.Database.Db.Model(course).Update("status", courseModels.CoursePublished).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", course)
}

// ListCourses lists courses under the caller's scope: students see published
// institute courses, teachers their own, managers the whole institute.
func ListCourses(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	scope := policy.ListScope(middleware.CallerOf(user), policy.KindCourse)
	if scope.Empty {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
			"courses": []courseModels.Course{},
			"pagination": fiber.Map{
				"total": 0,
				"page":  1,
				"limit": 0,
			},
		})
	}

	page, limit, offset := courseValidator.ResolvePage(c)

	db := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if !scope.All {
		db = db.Where("institute_id = ?", scope.InstituteID)
	}
	if scope.PublishedOnly {
		db = db.Where("status = ?", courseModels.CoursePublished)
	}
	if scope.InstructorID != 0 {
		db = db.Where("instructor_id = ?", scope.InstructorID)
	}

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails returns a course with its chapters and lessons
func GetCourseDetails(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	courseID := c.Locals("courseID").(int)
	course, err := findCourse(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, courseResource(course)); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	// Students only see published courses
	if user.Role == models.RoleStudent && course.Status != courseModels.CoursePublished {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	db := database.Database.Db

	var chapters []courseModels.Chapter
	db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("order_index asc").Find(&chapters)

	type ChapterWithLessons struct {
		courseModels.Chapter
		Lessons []courseModels.Lesson `json:"lessons"`
	}

	result := make([]ChapterWithLessons, len(chapters))
	for i, chapter := range chapters {
		var lessons []courseModels.Lesson
		db.Where("chapter_id = ? AND is_deleted = ?", chapter.ID, false).Order("order_index asc").Find(&lessons)
		result[i] = ChapterWithLessons{Chapter: chapter, Lessons: lessons}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":   course,
		"chapters": result,
	})
}

// CreateChapter appends a chapter to a course; owner or admin only
func CreateChapter(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	courseID := c.Locals("courseID").(int)
	course, err := findCourse(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonModifyCourse); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	reqData := c.Locals("validatedChapter").(*courseValidator.CreateChapterRequest)

	chapter := courseModels.Chapter{
		CourseID:   course.ID,
		Title:      reqData.Title,
		OrderIndex: reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create chapter!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", chapter)
}

// CreateLesson appends a lesson to a chapter; owner or admin only
func CreateLesson(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	courseID := c.Locals("courseID").(int)
	chapterID := c.Locals("chapterID").(int)

	course, err := findCourse(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonModifyCourse); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	var chapter courseModels.Chapter
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", chapterID, course.ID, false).First(&chapter).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chapter not found!", nil)
	}

	reqData := c.Locals("validatedLesson").(*courseValidator.CreateLessonRequest)

	lesson := courseModels.Lesson{
		ChapterID:  chapter.ID,
		CourseID:   course.ID,
		Title:      reqData.Title,
		Type:       reqData.Type,
		ContentURL: reqData.ContentURL,
		OrderIndex: reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}
