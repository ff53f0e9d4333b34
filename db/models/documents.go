package models

// PendingReview is the review status of every freshly uploaded document.
const PendingReview = "pending review"

const (
	DocumentColumnOwnerID        = "owner_id"
	DocumentColumnStoredFilename = "stored_filename"
	DocumentColumnDocumentType   = "document_type"
	DocumentColumnUploadedAt     = "uploaded_at"
	DocumentColumnReviewStatus   = "review_status"
	DocumentColumnStoragePath    = "storage_path"
)

var DocumentColumns = []string{
	DocumentColumnOwnerID,
	DocumentColumnStoredFilename,
	DocumentColumnDocumentType,
	DocumentColumnUploadedAt,
	DocumentColumnReviewStatus,
	DocumentColumnStoragePath,
}

// Document is one uploaded file. OwnerID may briefly hold a temporary id
// until the applicant's permanent id is assigned.
type Document struct {
	OwnerID        string `json:"owner_id"`
	StoredFilename string `json:"stored_filename"`
	DocumentType   string `json:"document_type"`
	UploadedAt     string `json:"uploaded_at"`
	ReviewStatus   string `json:"review_status"`
	StoragePath    string `json:"storage_path"`
}

func (d Document) ToRow() map[string]string {
	return map[string]string{
		DocumentColumnOwnerID:        d.OwnerID,
		DocumentColumnStoredFilename: d.StoredFilename,
		DocumentColumnDocumentType:   d.DocumentType,
		DocumentColumnUploadedAt:     d.UploadedAt,
		DocumentColumnReviewStatus:   d.ReviewStatus,
		DocumentColumnStoragePath:    d.StoragePath,
	}
}

func DocumentFromRow(row map[string]string) Document {
	return Document{
		OwnerID:        row[DocumentColumnOwnerID],
		StoredFilename: row[DocumentColumnStoredFilename],
		DocumentType:   row[DocumentColumnDocumentType],
		UploadedAt:     row[DocumentColumnUploadedAt],
		ReviewStatus:   row[DocumentColumnReviewStatus],
		StoragePath:    row[DocumentColumnStoragePath],
	}
}
