package controllers

import (
	"strings"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestCertificate lets a student request a certificate for a completed
// course. An existing pending request is returned as-is.
func RequestCertificate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	course, err := findCourse(courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ?", user.ID, course.ID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	}
	if !enrollment.Completed {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not completed yet!", nil)
	}

	// An un-rejected request already exists: return it unchanged
	var existing courseModels.CertificateRequest
	if err := db.Where("student_id = ? AND course_id = ? AND is_deleted = ? AND status <> ?",
		user.ID, course.ID, false, courseModels.CertificateRejected).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request already exists!", existing)
	}

	request := courseModels.CertificateRequest{
		StudentID:    user.ID,
		CourseID:     course.ID,
		EnrollmentID: enrollment.ID,
		InstituteID:  course.InstituteID,
		Status:       courseModels.CertificatePending,
		RequestedAt:  time.Now(),
	}

	if err := db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to request certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate requested successfully!", request)
}

// ListPendingCertificates lists pending requests visible to institute staff
func ListPendingCertificates(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role == models.RoleStudent || user.Role == models.RoleTeacher {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	scope := policy.ListScope(middleware.CallerOf(user), "")
	if scope.Empty {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending requests fetched successfully!", []courseModels.CertificateRequest{})
	}

	db := database.Database.Db.Where("status = ? AND is_deleted = ?", courseModels.CertificatePending, false)
	if !scope.All {
		db = db.Where("institute_id = ?", scope.InstituteID)
	}

	var requests []courseModels.CertificateRequest
	if err := db.Order("requested_at asc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending requests fetched successfully!", requests)
}

// ApproveCertificate approves a request and issues the certificate
func ApproveCertificate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role == models.RoleStudent || user.Role == models.RoleTeacher {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	requestID := c.Locals("requestID").(int)

	db := database.Database.Db

	var request courseModels.CertificateRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, policy.Resource{InstituteID: request.InstituteID}); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	if request.Status != courseModels.CertificatePending {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Request already processed!", nil)
	}

	now := time.Now()
	approver := user.ID
	request.Status = courseModels.CertificateApproved
	request.ApprovedAt = &now
	request.ApprovedBy = &approver

	certificateNumber := "CERT-" + strings.ToUpper(uuid.NewString()[:8])
	certificate := courseModels.Certificate{
		StudentID:         request.StudentID,
		CourseID:          request.CourseID,
		InstituteID:       request.InstituteID,
		CertificateNumber: certificateNumber,
		IssuedAt:          now,
	}

	tx := db.Begin()
	if err := tx.Save(&request).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve request!", nil)
	}
	if err := tx.Create(&certificate).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}
	tx.Commit()

	var course courseModels.Course
	db.Where("id = ?", request.CourseID).First(&course)

	utils.Notify(request.StudentID, "Certificate Issued",
		"Your certificate for '"+course.Title+"' has been issued.", "/certificates")

	var student models.User
	if err := db.Where("id = ? AND is_deleted = ?", request.StudentID, false).First(&student).Error; err == nil {
		utils.SendCertificateEmail(student.Email, student.Name, course.Title, certificateNumber)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate approved and issued!", certificate)
}

// RejectCertificate rejects a pending request with a reason
func RejectCertificate(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role == models.RoleStudent || user.Role == models.RoleTeacher {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	requestID := c.Locals("requestID").(int)

	reqData := new(struct {
		Reason string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var request courseModels.CertificateRequest
	if err := db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}

	caller := middleware.CallerOf(user)
	if d := policy.CanAccess(caller, policy.Resource{InstituteID: request.InstituteID}); !d.Allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, d.Reason, nil)
	}

	if request.Status != courseModels.CertificatePending {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Request already processed!", nil)
	}

	request.Status = courseModels.CertificateRejected
	request.RejectionReason = reqData.Reason

	if err := db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject request!", nil)
	}

	utils.Notify(request.StudentID, "Certificate Request Rejected", reqData.Reason, "/certificates")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request rejected.", request)
}

// GetMyCertificates lists the caller's issued certificates
func GetMyCertificates(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("student_id = ? AND is_deleted = ?", user.ID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}
