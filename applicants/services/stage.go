package services

import (
	"context"
	"fmt"
	"strings"

	"enrollment-backend/config"
	"enrollment-backend/db/models"
	documents_repositories "enrollment-backend/documents/repositories"
	"enrollment-backend/tables"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StageResult reports a staging call. Mirror and Notification are always
// skipped; ApplicantID stays empty until a later Submit.
type StageResult = SubmissionResult

// StageDocuments places documents under a temporary id and records them in
// the document table only. Submit with the same TemporaryID re-keys them.
func (s *SubmissionService) StageDocuments(ctx context.Context, req StageRequest) StageResult {
	req.TemporaryID = strings.TrimSpace(req.TemporaryID)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Program = strings.TrimSpace(req.Program)

	result := StageResult{
		CorrelationID: uuid.NewString(),
		Documents:     []models.Document{},
		Mirror:        stepSkipped("staging does not mirror"),
		Notification:  stepSkipped("staging does not notify"),
	}
	logger := config.Logger.With(zap.String("correlation_id", result.CorrelationID))

	verr := &ValidationError{}
	validateStruct(s.validate, req, verr)
	validateDocuments(s.documents, req.Documents, verr)
	if len(req.Documents) == 0 {
		verr.add("documents", "at least one document is required")
	}
	if len(verr.Fields) > 0 {
		logger.Info("Staging rejected", zap.Error(verr))
		result.Validation = verr
		result.Err = verr
		result.finish()
		return result
	}

	ledger := s.ledger.Load(ctx)

	// Without an applicant id to verify there is no error path.
	if verr, _ := checkCallerIDs(ledger, "", req.TemporaryID); verr != nil {
		logger.Info("Staging rejected", zap.Error(verr))
		result.Validation = verr
		result.Err = verr
		result.finish()
		return result
	}

	tempID := req.TemporaryID
	if tempID == "" {
		taken := ledger.Documents.Values(models.DocumentColumnOwnerID)
		for id := range ledger.Applicants.Values(models.ApplicantColumnID) {
			taken[id] = struct{}{}
		}
		var err error
		if tempID, err = s.ids.TemporaryID(taken); err != nil {
			result.Err = fmt.Errorf("failed to generate temporary id: %w", err)
			result.finish()
			return result
		}
	}
	result.TemporaryID = tempID

	placed := s.placeDocuments(ctx, ledger, tempID, req.FullName, req.Program, req.Documents, &result)
	documents_repositories.Append(ledger.Documents, placed...)
	result.Documents = append(result.Documents, placed...)

	if len(placed) > 0 {
		save := s.ledger.SaveOnly(ctx, ledger, tables.DocumentSchema.Name)
		result.Tables = save.Results
	}

	result.finish()
	logger.Info("Documents staged",
		zap.String("temporary_id", tempID),
		zap.Int("placed", result.DocumentsSucceeded),
		zap.Int("failed", result.DocumentsFailed))
	return result
}
