package userController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/policy"
	userValidator "lms/validators/user"

	"github.com/gofiber/fiber/v2"
)

// CreateRemark records a staff note on a student in the caller's institute
func CreateRemark(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role == models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.RequireInstitute(caller); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	reqData := c.Locals("validatedRemark").(*userValidator.CreateRemarkRequest)

	db := database.Database.Db

	var student models.User
	if err := db.Where("id = ? AND role = ? AND is_deleted = ?",
		reqData.StudentID, models.RoleStudent, false).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	if d := policy.CanAccess(caller, policy.Resource{InstituteID: student.InstituteID}); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	instituteID := user.InstituteID
	if instituteID == 0 {
		instituteID = student.InstituteID
	}

	remark := models.Remark{
		StudentID:   student.ID,
		TeacherID:   user.ID,
		CourseID:    reqData.CourseID,
		InstituteID: instituteID,
		Text:        reqData.Text,
	}

	if err := db.Create(&remark).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create remark!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Remark created successfully!", remark)
}

// ListStudentRemarks lists remarks on a student. Students see their own;
// staff must share the student's institute.
func ListStudentRemarks(c *fiber.Ctx) error {
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

	var remarks []models.Remark
	if err := db.Where("student_id = ? AND is_deleted = ?", student.ID, false).
		Order("created_at desc").Find(&remarks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch remarks!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Remarks fetched successfully!", remarks)
}
