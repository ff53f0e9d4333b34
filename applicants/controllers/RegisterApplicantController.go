package controllers

import (
	"enrollment-backend/applicants/services"

	"github.com/gofiber/fiber/v2"
)

// RegisterApplicantController pre-registers an applicant from a JSON body.
func (ac *ApplicantController) RegisterApplicantController(c *fiber.Ctx) error {
	var request services.RegistrationRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	result := ac.Submissions.Register(c.UserContext(), request)
	return respondWithResult(c, result)
}
