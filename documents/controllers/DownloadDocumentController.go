package controllers

import (
	"fmt"
	"mime"
	"path"

	"enrollment-backend/config"
	"enrollment-backend/documents/repositories"
	"enrollment-backend/remote"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DownloadDocumentController streams a stored document by its filename.
// Only names recorded in the document table can be fetched.
func (dc *DocumentController) DownloadDocumentController(c *fiber.Ctx) error {
	name := c.Params("filename")

	ledger := dc.Ledger.Load(c.UserContext())
	doc, found := repositories.ByStoredFilename(ledger.Documents, name)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Document not found",
		})
	}

	content, err := dc.Placer.ReadDocument(c.UserContext(), doc.StoragePath)
	if err != nil {
		if remote.IsNotExist(err) {
			config.Logger.Warn("Recorded document missing from store", zap.String("path", doc.StoragePath))
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Document file is missing",
			})
		}
		config.Logger.Error("Failed to read document", zap.String("path", doc.StoragePath), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Failed to read document",
			"error":   err.Error(),
		})
	}

	contentType := mime.TypeByExtension(path.Ext(doc.StoredFilename))
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.StoredFilename))
	return c.Status(fiber.StatusOK).Send(content)
}
