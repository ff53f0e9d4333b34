package controllers

import (
	"strings"

	documents_repositories "enrollment-backend/documents/repositories"

	"github.com/gofiber/fiber/v2"
)

// GetApplicantDocumentsController lists the documents recorded for one applicant.
func (ac *ApplicantController) GetApplicantDocumentsController(c *fiber.Ctx) error {
	applicantID := strings.TrimSpace(c.Params("id"))
	if applicantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Applicant ID is required",
		})
	}

	ledger := ac.Submissions.Ledger().Load(c.UserContext())
	documents := documents_repositories.ByOwner(ledger.Documents, applicantID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":  documents,
		"total": len(documents),
	})
}
