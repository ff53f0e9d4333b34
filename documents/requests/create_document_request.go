package requests

// UploadedDocument is one file received with a submission. DocumentType is
// the human label chosen by the applicant, e.g. "Acta de nacimiento".
type UploadedDocument struct {
	FileName     string `json:"file_name" validate:"required,max=255"`
	DocumentType string `json:"document_type" validate:"required,max=120"`
	ContentType  string `json:"content_type"`
	Content      []byte `json:"-"`
}

// DocumentsByOwnerRequest filters the document table.
type DocumentsByOwnerRequest struct {
	OwnerID string `params:"id" validate:"required"`
}
