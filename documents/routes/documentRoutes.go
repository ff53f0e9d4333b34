package router

import (
	document_controllers "enrollment-backend/documents/controllers"
	"enrollment-backend/documents/services"
	"enrollment-backend/middleware"
	"enrollment-backend/tables"

	"github.com/gofiber/fiber/v2"
)

func DocumentRouterInit(app *fiber.App,
	appCtx *middleware.AppContext,
	ledger tables.LedgerRepository,
	placer *services.Placer,
) {
	documentController := document_controllers.NewDocumentController(ledger, placer)

	documents := app.Group("/api/v1/documents", middleware.ProtectedRoute(appCtx))
	documents.Get("/", documentController.GetFilteredDocumentsController)
	documents.Get("/:filename", documentController.DownloadDocumentController)
}
