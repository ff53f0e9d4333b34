package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// RunLedgerAuditController runs the ledger audit on demand.
func (ac *ApplicantController) RunLedgerAuditController(c *fiber.Ctx) error {
	report := ac.Audit.Run(c.UserContext())

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"clean": report.Clean(),
		"data":  report,
	})
}
