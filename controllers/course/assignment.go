package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"
	"lms/utils"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateAssignment creates an assignment on a course; owner or admin only
func CreateAssignment(c *fiber.Ctx) error {
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
	if d := policy.RequireInstitute(caller); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonModifyCourse); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	reqData := c.Locals("validatedAssignment").(*courseValidator.CreateAssignmentRequest)
	dueDate, _ := time.Parse(time.RFC3339, reqData.DueDate)

	assignment := courseModels.Assignment{
		CourseID:    course.ID,
		InstituteID: course.InstituteID,
		Title:       reqData.Title,
		Description: reqData.Description,
		DueDate:     dueDate,
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

// ListCourseAssignments lists assignments for a course the caller can see
func ListCourseAssignments(c *fiber.Ctx) error {
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

	var assignments []courseModels.Assignment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("due_date asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", assignments)
}

// DeleteAssignment soft-deletes an assignment; course owner or admin only
func DeleteAssignment(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	db := database.Database.Db

	var assignment courseModels.Assignment
	if err := db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	course, err := findCourse(int(assignment.CourseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonModifyCourse); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	if err := db.Model(&assignment).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment deleted successfully!", nil)
}

// SubmitAssignment upserts the calling student's submission for an
// assignment. Repeat submissions replace the previous one and succeed.
func SubmitAssignment(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	db := database.Database.Db

	var assignment courseModels.Assignment
	if err := db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, policy.Resource{InstituteID: assignment.InstituteID}); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	// Must be enrolled in the owning course
	var enrollment courseModels.Enrollment
	if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ?",
		user.ID, assignment.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	}

	reqData := c.Locals("validatedSubmission").(*courseValidator.SubmitAssignmentRequest)

	// Upsert by (assignment, student)
	var submission courseModels.Submission
	if err := db.Where("assignment_id = ? AND student_id = ? AND is_deleted = ?",
		assignment.ID, user.ID, false).First(&submission).Error; err == nil {
		submission.Content = reqData.Content
		submission.FileURL = reqData.FileURL
		submission.Status = courseModels.SubmissionSubmitted
		if err := db.Save(&submission).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission updated successfully!", submission)
	}

	submission = courseModels.Submission{
		AssignmentID: assignment.ID,
		StudentID:    user.ID,
		Content:      reqData.Content,
		FileURL:      reqData.FileURL,
		Status:       courseModels.SubmissionSubmitted,
	}

	if err := db.Create(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment submitted successfully!", submission)
}

// ListSubmissions lists submissions for an assignment; course owner or admin
func ListSubmissions(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	db := database.Database.Db

	var assignment courseModels.Assignment
	if err := db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	course, err := findCourse(int(assignment.CourseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonAccessDenied); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	var submissions []courseModels.Submission
	if err := db.Where("assignment_id = ? AND is_deleted = ?", assignment.ID, false).
		Order("created_at desc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	type SubmissionWithStudent struct {
		courseModels.Submission
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
	}

	result := make([]SubmissionWithStudent, len(submissions))
	for i, submission := range submissions {
		result[i] = SubmissionWithStudent{Submission: submission}
		var student models.User
		if err := db.Where("id = ?", submission.StudentID).First(&student).Error; err == nil {
			result[i].StudentName = student.Name
			result[i].StudentEmail = student.Email
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", result)
}

// GradeSubmission grades a submission; course owner or admin only
func GradeSubmission(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	submissionID := c.Locals("submissionID").(int)

	db := database.Database.Db

	var submission courseModels.Submission
	if err := db.Where("id = ? AND is_deleted = ?", submissionID, false).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	var assignment courseModels.Assignment
	if err := db.Where("id = ? AND is_deleted = ?", submission.AssignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	course, err := findCourse(int(assignment.CourseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonAccessDenied); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	reqData := c.Locals("validatedGrade").(*courseValidator.GradeSubmissionRequest)

	submission.Grade = *reqData.Grade
	submission.Feedback = reqData.Feedback
	submission.Status = courseModels.SubmissionGraded

	if err := db.Save(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	utils.Notify(submission.StudentID, "Submission Graded",
		"Your submission for '"+assignment.Title+"' has been graded.", "/assignments")

	var student models.User
	if err := db.Where("id = ? AND is_deleted = ?", submission.StudentID, false).First(&student).Error; err == nil {
		utils.SendGradedEmail(student.Email, student.Name, assignment.Title, submission.Grade)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}
