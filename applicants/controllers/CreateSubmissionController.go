package controllers

import (
	"enrollment-backend/applicants/services"
	"enrollment-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CreateSubmissionController accepts the registration form with its documents.
func (ac *ApplicantController) CreateSubmissionController(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		config.Logger.Error("Failed to parse multipart form", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid form data",
			"error":   "invalid_form_data",
		})
	}

	uploads, err := readUploads(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"error":   "invalid_documents",
		})
	}

	request := services.SubmissionRequest{
		ApplicantID:    formValue(form, "applicant_id"),
		TemporaryID:    formValue(form, "temporary_id"),
		FullName:       formValue(form, "full_name"),
		Email:          formValue(form, "email"),
		Phone:          formValue(form, "phone"),
		Program:        formValue(form, "program"),
		BirthDate:      formValue(form, "birth_date"),
		ReferralSource: formValue(form, "referral_source"),
		Final:          formBool(form, "final"),
		Documents:      uploads,
	}

	result := ac.Submissions.Submit(c.UserContext(), request)
	return respondWithResult(c, result)
}

// StageDocumentsController stores documents before the applicant has an id.
func (ac *ApplicantController) StageDocumentsController(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		config.Logger.Error("Failed to parse multipart form", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid form data",
			"error":   "invalid_form_data",
		})
	}

	uploads, err := readUploads(form)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"error":   "invalid_documents",
		})
	}

	result := ac.Submissions.StageDocuments(c.UserContext(), services.StageRequest{
		TemporaryID: formValue(form, "temporary_id"),
		FullName:    formValue(form, "full_name"),
		Program:     formValue(form, "program"),
		Documents:   uploads,
	})
	return respondWithResult(c, result)
}
