package instituteController

import (
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/policy"
	instituteValidator "lms/validators/institute"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateInstitute creates a new institute (admin only)
func AdminCreateInstitute(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	reqData := c.Locals("validatedInstitute").(*instituteValidator.CreateInstituteRequest)

	db := database.Database.Db

	// Institute codes are unique
	if err := db.Where("code = ? AND is_deleted = ?", reqData.Code, false).First(&models.Institute{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Institute code already in use!", nil)
	}

	institute := models.Institute{
		Name:       reqData.Name,
		Code:       reqData.Code,
		Address:    reqData.Address,
		WebhookURL: reqData.WebhookURL,
	}

	if err := db.Create(&institute).Error; err != nil {
		log.Printf("Error creating institute: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create institute!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Institute created successfully!", institute)
}

// AdminListInstitutes lists institutes; a scoped admin sees only their own
func AdminListInstitutes(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	db := database.Database.Db.Where("is_deleted = ?", false)
	if user.InstituteID != 0 {
		db = db.Where("id = ?", user.InstituteID)
	}

	var institutes []models.Institute
	if err := db.Order("created_at desc").Find(&institutes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch institutes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Institutes fetched successfully!", institutes)
}

// AdminUpdateInstituteStatus activates or deactivates an institute
func AdminUpdateInstituteStatus(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}
	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, policy.ReasonAccessDenied, nil)
	}

	instituteID := c.Locals("instituteID").(int)
	status := c.Locals("validatedStatus").(string)

	db := database.Database.Db

	var institute models.Institute
	if err := db.Where("id = ? AND is_deleted = ?", instituteID, false).First(&institute).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Institute not found!", nil)
	}

	if err := db.Model(&institute).Update("status", status).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update institute!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Institute status updated successfully!", institute)
}

// GetMyInstitute returns the caller's institute
func GetMyInstitute(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, policy.ReasonUnauthorized, nil)
	}

	if user.InstituteID == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, policy.ReasonNoInstitute, nil)
	}

	var institute models.Institute
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", user.InstituteID, false).First(&institute).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Institute not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Institute fetched successfully!", institute)
}
