package controllers

import (
	"fmt"
	"time"

	"enrollment-backend/config"
	"enrollment-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExportApplicantsController downloads the applicant table as a workbook.
func (ac *ApplicantController) ExportApplicantsController(c *fiber.Ctx) error {
	ledger := ac.Submissions.Ledger().Load(c.UserContext())

	data, err := utils.GenerateTableWorkbook("Inscritos", ledger.Applicants.Columns, ledger.Applicants.Matrix())
	if err != nil {
		config.Logger.Error("Failed to generate applicant export", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate export",
		})
	}

	fileName := fmt.Sprintf("inscritos-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Status(fiber.StatusOK).Send(data)
}
