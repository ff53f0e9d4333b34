package controllers

import (
	"enrollment-backend/db/models"
	"enrollment-backend/documents/services"
	"enrollment-backend/tables"
	"enrollment-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type DocumentController struct {
	Ledger tables.LedgerRepository
	Placer *services.Placer
}

func NewDocumentController(ledger tables.LedgerRepository, placer *services.Placer) *DocumentController {
	return &DocumentController{
		Ledger: ledger,
		Placer: placer,
	}
}

// documentView is a document row plus the link it can be fetched from.
type documentView struct {
	models.Document
	DownloadURL string `json:"download_url"`
}

func withDownloadURLs(c *fiber.Ctx, documents []models.Document) []documentView {
	views := make([]documentView, 0, len(documents))
	for _, doc := range documents {
		views = append(views, documentView{
			Document:    doc,
			DownloadURL: utils.GetDownloadURL(c, "api/v1/documents/"+doc.StoredFilename),
		})
	}
	return views
}
