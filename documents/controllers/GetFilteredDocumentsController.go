package controllers

import (
	"strings"

	"enrollment-backend/config"
	"enrollment-backend/db/models"
	"enrollment-backend/documents/repositories"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetFilteredDocumentsController lists document rows, optionally limited to
// one owner, one document type or one review status.
func (dc *DocumentController) GetFilteredDocumentsController(c *fiber.Ctx) error {
	ledger := dc.Ledger.Load(c.UserContext())
	if status := ledger.Status[ledger.Documents.Name]; status.Degraded() {
		config.Logger.Error("Document table unavailable", zap.Error(status.Err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Document table is unavailable",
		})
	}

	owner := strings.TrimSpace(c.Query("owner_id"))
	documentType := strings.ToLower(strings.TrimSpace(c.Query("document_type")))
	reviewStatus := strings.TrimSpace(c.Query("review_status"))

	var documents []models.Document
	if owner != "" {
		documents = repositories.ByOwner(ledger.Documents, owner)
	} else {
		documents = repositories.All(ledger.Documents)
	}

	filtered := documents[:0]
	for _, doc := range documents {
		if documentType != "" && !strings.Contains(strings.ToLower(doc.DocumentType), documentType) {
			continue
		}
		if reviewStatus != "" && doc.ReviewStatus != reviewStatus {
			continue
		}
		filtered = append(filtered, doc)
	}

	return c.JSON(fiber.Map{
		"message": "Documents retrieved successfully",
		"data":    withDownloadURLs(c, filtered),
		"total":   len(filtered),
	})
}
