package controllers

import (
	"encoding/json"
	"fmt"

	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"
	"lms/utils"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// CreateAssessment creates an assessment with its questions; owner or admin
func CreateAssessment(c *fiber.Ctx) error {
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

	reqData := c.Locals("validatedAssessment").(*courseValidator.CreateAssessmentRequest)

	assessment := courseModels.Assessment{
		CourseID:    course.ID,
		InstituteID: course.InstituteID,
		Title:       reqData.Title,
		Description: reqData.Description,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&assessment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assessment!", nil)
	}

	for i, q := range reqData.Questions {
		optionsJSON, _ := json.Marshal(q.Options)
		question := courseModels.Question{
			AssessmentID:  assessment.ID,
			Text:          q.Text,
			Options:       string(optionsJSON),
			CorrectOption: q.CorrectOption,
			Marks:         q.Marks,
			OrderIndex:    i,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create questions!", nil)
		}
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assessment created successfully!", assessment)
}

// GetAssessment returns an assessment with its questions. Students do not
// receive the correct option indexes.
func GetAssessment(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	assessmentID := c.Locals("assessmentID").(int)

	db := database.Database.Db

	var assessment courseModels.Assessment
	if err := db.Where("id = ? AND is_deleted = ?", assessmentID, false).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, policy.Resource{InstituteID: assessment.InstituteID}); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	var questions []courseModels.Question
	db.Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).Order("order_index asc").Find(&questions)

	type QuestionView struct {
		ID            uint     `json:"id"`
		Text          string   `json:"text"`
		Options       []string `json:"options"`
		Marks         int      `json:"marks"`
		CorrectOption *int     `json:"correct_option,omitempty"`
	}

	isStudent := user.Role == models.RoleStudent

	// An enrolled student opening the assessment starts an attempt
	if isStudent {
		var enrollment courseModels.Enrollment
		if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ?",
			user.ID, assessment.CourseID, false).First(&enrollment).Error; err == nil {
			var attempt courseModels.AssessmentResult
			if err := db.Where("assessment_id = ? AND student_id = ? AND is_deleted = ?",
				assessment.ID, user.ID, false).First(&attempt).Error; err != nil {
				db.Create(&courseModels.AssessmentResult{
					AssessmentID: assessment.ID,
					StudentID:    user.ID,
					CourseID:     assessment.CourseID,
					Status:       courseModels.ResultInProgress,
				})
			}
		}
	}

	result := make([]QuestionView, len(questions))
	for i, q := range questions {
		var options []string
		json.Unmarshal([]byte(q.Options), &options)
		result[i] = QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Options: options,
			Marks:   q.Marks,
		}
		if !isStudent {
			correct := q.CorrectOption
			result[i].CorrectOption = &correct
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment fetched successfully!", fiber.Map{
		"assessment": assessment,
		"questions":  result,
	})
}

// ListCourseAssessments lists assessments for a course the caller can see
func ListCourseAssessments(c *fiber.Ctx) error {
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

	var assessments []courseModels.Assessment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("created_at asc").Find(&assessments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assessments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessments fetched successfully!", assessments)
}

// SubmitAssessment scores the calling student's answers server-side and
// upserts the (assessment, student) result. Repeat submissions replace the
// previous attempt.
func SubmitAssessment(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	assessmentID := c.Locals("assessmentID").(int)

	db := database.Database.Db

	var assessment courseModels.Assessment
	if err := db.Where("id = ? AND is_deleted = ?", assessmentID, false).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, policy.Resource{InstituteID: assessment.InstituteID}); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	// Must be enrolled in the owning course
	var enrollment courseModels.Enrollment
	if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ?",
		user.ID, assessment.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	}

	var questions []courseModels.Question
	db.Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).Find(&questions)
	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Assessment has no questions!", nil)
	}

	reqData := c.Locals("validatedAnswers").(*courseValidator.SubmitAssessmentRequest)

	score := 0
	totalMarks := 0
	for _, q := range questions {
		totalMarks += q.Marks
		if answer, ok := reqData.Answers[q.ID]; ok && answer == q.CorrectOption {
			score += q.Marks
		}
	}

	// With no pass threshold configured the attempt is recorded as
	// completed; otherwise it is graded pass or fail.
	status := courseModels.ResultCompleted
	passed := false
	if config.AppConfig.AssessmentPassPercent > 0 {
		passed = score*100 >= totalMarks*config.AppConfig.AssessmentPassPercent
		if passed {
			status = courseModels.ResultPassed
		} else {
			status = courseModels.ResultFailed
		}
	}

	// Upsert by (assessment, student)
	var result courseModels.AssessmentResult
	if err := db.Where("assessment_id = ? AND student_id = ? AND is_deleted = ?",
		assessment.ID, user.ID, false).First(&result).Error; err == nil {
		result.Score = score
		result.TotalMarks = totalMarks
		result.Status = status
		if err := db.Save(&result).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assessment!", nil)
		}
	} else {
		result = courseModels.AssessmentResult{
			AssessmentID: assessment.ID,
			StudentID:    user.ID,
			CourseID:     assessment.CourseID,
			Score:        score,
			TotalMarks:   totalMarks,
			Status:       status,
		}
		if err := db.Create(&result).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assessment!", nil)
		}
	}

	if passed {
		awardPoints(user.ID, assessment.CourseID, 20, models.PointsAssessmentPassed)
		utils.Notify(user.ID, "Assessment Passed",
			"You passed '"+assessment.Title+"' with "+formatScore(score, totalMarks)+".", "/assessments")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment submitted successfully!", result)
}

func formatScore(score, totalMarks int) string {
	return fmt.Sprintf("%d/%d", score, totalMarks)
}

// ListAssessmentResults lists results for an assessment; owner or admin only
func ListAssessmentResults(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	assessmentID := c.Locals("assessmentID").(int)

	db := database.Database.Db

	var assessment courseModels.Assessment
	if err := db.Where("id = ? AND is_deleted = ?", assessmentID, false).First(&assessment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assessment not found!", nil)
	}

	course, err := findCourse(int(assessment.CourseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanModifyOwned(caller, courseResource(course), policy.ReasonAccessDenied); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	var results []courseModels.AssessmentResult
	if err := db.Where("assessment_id = ? AND is_deleted = ?", assessment.ID, false).
		Order("score desc").Find(&results).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", results)
}

// GetMyResults lists the caller's own assessment results
func GetMyResults(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	var results []courseModels.AssessmentResult
	if err := database.Database.Db.Where("student_id = ? AND is_deleted = ?", user.ID, false).
		Order("created_at desc").Find(&results).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", results)
}
