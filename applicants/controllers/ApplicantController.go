package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"enrollment-backend/applicants/services"
	documents_requests "enrollment-backend/documents/requests"
	"enrollment-backend/documents/validators"

	"github.com/gofiber/fiber/v2"
)

type ApplicantController struct {
	Submissions *services.SubmissionService
	Audit       *services.AuditService
}

func formValue(form *multipart.Form, key string) string {
	if values, exists := form.Value[key]; exists && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func formBool(form *multipart.Form, key string) bool {
	v, err := strconv.ParseBool(formValue(form, key))
	return err == nil && v
}

// readUploads pairs each file in "documents" with the value at the same
// position in "document_types".
func readUploads(form *multipart.Form) ([]documents_requests.UploadedDocument, error) {
	files := form.File["documents"]
	types := form.Value["document_types"]
	if len(files) != len(types) {
		return nil, fmt.Errorf("mismatch between number of files (%d) and document types (%d)", len(files), len(types))
	}

	uploads := make([]documents_requests.UploadedDocument, 0, len(files))
	for i, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", fileHeader.Filename, err)
		}
		// One byte past the limit lets the validator see the file is too large.
		content, err := io.ReadAll(io.LimitReader(src, validators.MaxDocumentSize+1))
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", fileHeader.Filename, err)
		}

		uploads = append(uploads, documents_requests.UploadedDocument{
			FileName:     fileHeader.Filename,
			DocumentType: strings.TrimSpace(types[i]),
			ContentType:  fileHeader.Header.Get("Content-Type"),
			Content:      content,
		})
	}
	return uploads, nil
}

// respondWithResult maps the result status onto an HTTP status code.
func respondWithResult(c *fiber.Ctx, result services.SubmissionResult) error {
	status := fiber.StatusCreated
	switch result.Status {
	case services.SubmissionPartial:
		status = fiber.StatusMultiStatus
	case services.SubmissionFailed:
		status = fiber.StatusServiceUnavailable
		if result.Validation != nil {
			status = fiber.StatusBadRequest
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"success": result.Status != services.SubmissionFailed,
		"message": result.Message,
		"data":    result,
	})
}
