package services

import (
	"context"
	"fmt"

	"enrollment-backend/config"
	"enrollment-backend/db/models"
	"enrollment-backend/tables"

	"go.uber.org/zap"
)

// pushToMirror copies the applicant's documents and the three tables to the
// mirror host. Failures are reported, never fatal to the submission.
func (s *SubmissionService) pushToMirror(ctx context.Context, ledger *tables.Ledger, documents []models.Document) StepResult {
	if s.mirror == nil || s.mirror.Placer == nil || s.mirror.Ledger == nil {
		return stepSkipped("mirror host is not configured")
	}

	copied, failed := 0, 0
	var firstErr error
	for _, doc := range documents {
		content, err := s.placer.ReadDocument(ctx, doc.StoragePath)
		if err == nil {
			_, err = s.mirror.Placer.Copy(ctx, doc, s.placer.Root(), content)
		}
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			config.Logger.Warn("Failed to mirror document",
				zap.String("path", doc.StoragePath),
				zap.Error(err))
			continue
		}
		copied++
	}

	save := s.mirror.Ledger.Save(ctx, ledger)
	if !save.OK() {
		err := fmt.Errorf("documents %s; %s", documentCounts(copied, failed), save.Message())
		return stepFailed(err)
	}
	if failed > 0 {
		return stepFailed(fmt.Errorf("documents %s: %w", documentCounts(copied, failed), firstErr))
	}

	config.Logger.Info("Mirror push completed", zap.Int("documents", copied))
	return stepDone("%d document(s) and %d tables mirrored", copied, len(save.Results))
}
