package controllers

import (
	"enrollment-backend/applicants/repositories"
	"enrollment-backend/config"
	"enrollment-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetFilteredApplicantsController lists applicants, optionally filtered by
// status, program or a case-insensitive name/email search.
func (ac *ApplicantController) GetFilteredApplicantsController(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	ledger := ac.Submissions.Ledger().Load(c.UserContext())
	if status := ledger.Status[ledger.Applicants.Name]; status.Degraded() {
		config.Logger.Error("Applicant table unavailable", zap.Error(status.Err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Applicant table is unavailable",
		})
	}

	applicants := repositories.GetFilteredApplicants(ledger.Applicants, repositories.ApplicantFilters{
		Status:  params.Filters["status"],
		Program: params.Filters["program"],
		Search:  params.Filters["search"],
	})

	start, end := pagination.Bounds(params, len(applicants))
	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, applicants[start:end], int64(len(applicants)), params))
}
