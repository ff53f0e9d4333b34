package validators

import (
	"errors"
	"fmt"
	"strings"

	documents_requests "enrollment-backend/documents/requests"
)

// MaxDocumentSize caps a single upload.
const MaxDocumentSize = 20 << 20

type DocumentValidator struct{}

func NewDocumentValidator() *DocumentValidator {
	return &DocumentValidator{}
}

// ValidateUploadedDocument checks one uploaded file before anything is stored.
func (v *DocumentValidator) ValidateUploadedDocument(doc documents_requests.UploadedDocument) error {
	if err := v.validateFileName(doc.FileName); err != nil {
		return err
	}

	if strings.TrimSpace(doc.DocumentType) == "" {
		return errors.New("document type cannot be empty")
	}

	if len(doc.Content) > MaxDocumentSize {
		return fmt.Errorf("file %s exceeds maximum allowed size (%dMB)", doc.FileName, MaxDocumentSize>>20)
	}

	return v.validateFileType(doc.ContentType)
}

// validateFileName ensures the filename is valid
func (v *DocumentValidator) validateFileName(fileName string) error {
	if strings.TrimSpace(fileName) == "" {
		return errors.New("file name cannot be empty")
	}

	if len(fileName) > 255 {
		return errors.New("file name cannot exceed 255 characters")
	}

	return nil
}

// validateFileType accepts the formats applicants scan documents into. An
// empty content type is allowed; the extension still decides the stored name.
func (v *DocumentValidator) validateFileType(fileType string) error {
	allowedMimeTypes := map[string]bool{
		"application/pdf":          true,
		"image/jpeg":               true,
		"image/png":                true,
		"image/heic":               true,
		"application/octet-stream": true,
	}

	cleanFileType := strings.ToLower(strings.TrimSpace(strings.Split(fileType, ";")[0]))
	if cleanFileType == "" {
		return nil
	}

	if !allowedMimeTypes[cleanFileType] {
		return fmt.Errorf("unsupported file type: %s", fileType)
	}

	return nil
}
