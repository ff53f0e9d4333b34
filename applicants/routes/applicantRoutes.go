package routes

import (
	controllers "enrollment-backend/applicants/controllers"
	"enrollment-backend/applicants/services"
	"enrollment-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func ApplicantInitRoutes(
	app *fiber.App,
	appCtx *middleware.AppContext,
	submissionService *services.SubmissionService,
	auditService *services.AuditService,
) {
	applicantController := &controllers.ApplicantController{
		Submissions: submissionService,
		Audit:       auditService,
	}

	// Create API v1 group
	api := app.Group("/api/v1")

	api.Post("/submissions", applicantController.CreateSubmissionController)
	api.Post("/submissions/stage", applicantController.StageDocumentsController)
	api.Post("/registrations", applicantController.RegisterApplicantController)

	// Operator endpoints
	protected := middleware.ProtectedRoute(appCtx)
	api.Get("/applicants", protected, applicantController.GetFilteredApplicantsController)
	api.Get("/applicants/export", protected, applicantController.ExportApplicantsController)
	api.Get("/applicants/:id/documents", protected, applicantController.GetApplicantDocumentsController)
	api.Get("/audit", protected, applicantController.RunLedgerAuditController)
}
