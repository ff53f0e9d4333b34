package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	applicants_repositories "enrollment-backend/applicants/repositories"
	"enrollment-backend/config"
	"enrollment-backend/db/models"
	documents_repositories "enrollment-backend/documents/repositories"
	documents_requests "enrollment-backend/documents/requests"
	documents_services "enrollment-backend/documents/services"
	"enrollment-backend/documents/validators"
	"enrollment-backend/tables"
	"enrollment-backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Notifier tells the operator about a finished submission.
type Notifier interface {
	NotifySubmission(applicant models.Applicant, documents []models.Document, completed bool) error
}

// SubmissionRequest is everything a caller supplies for one submit. The
// service keeps no state between calls; a progressive flow passes back the
// ApplicantID or TemporaryID it was given.
type SubmissionRequest struct {
	ApplicantID    string                                `json:"applicant_id" validate:"omitempty,applicant_id"`
	TemporaryID    string                                `json:"temporary_id" validate:"omitempty,temporary_id"`
	FullName       string                                `json:"full_name" validate:"required,max=200"`
	Email          string                                `json:"email" validate:"required,max=254,applicant_email"`
	Phone          string                                `json:"phone" validate:"required,min=7,max=30"`
	Program        string                                `json:"program" validate:"max=200"`
	BirthDate      string                                `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	ReferralSource string                                `json:"referral_source" validate:"max=200"`
	Final          bool                                  `json:"final"`
	Documents      []documents_requests.UploadedDocument `json:"-"`
}

// StageRequest places documents before the applicant has an id.
type StageRequest struct {
	TemporaryID string                                `json:"temporary_id" validate:"omitempty,temporary_id"`
	FullName    string                                `json:"full_name" validate:"required,max=200"`
	Program     string                                `json:"program" validate:"max=200"`
	Documents   []documents_requests.UploadedDocument `json:"-"`
}

// RegistrationRequest pre-registers an applicant without documents.
type RegistrationRequest struct {
	FullName       string `json:"full_name" validate:"required,max=200"`
	Email          string `json:"email" validate:"required,max=254,applicant_email"`
	Phone          string `json:"phone" validate:"required,min=7,max=30"`
	Program        string `json:"program" validate:"max=200"`
	BirthDate      string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	ReferralSource string `json:"referral_source" validate:"max=200"`
}

// MirrorTarget is the second host a final submission is copied to.
type MirrorTarget struct {
	Placer *documents_services.Placer
	Ledger tables.LedgerRepository
}

// SubmissionConfig wires a SubmissionService. Notifier and Mirror may be nil.
type SubmissionConfig struct {
	Ledger        tables.LedgerRepository
	Placer        *documents_services.Placer
	Identifiers   *utils.IdentifierGenerator
	Notifier      Notifier
	Mirror        *MirrorTarget
	MirrorEnabled bool
	SecretCost    int
	Now           func() time.Time
}

// SubmissionService runs the load, place, upsert, save, mirror, notify
// sequence. Each step is reported on its own.
type SubmissionService struct {
	ledger        tables.LedgerRepository
	placer        *documents_services.Placer
	ids           *utils.IdentifierGenerator
	notifier      Notifier
	mirror        *MirrorTarget
	mirrorEnabled bool
	secretCost    int
	now           func() time.Time
	validate      *validator.Validate
	documents     *validators.DocumentValidator
}

func NewSubmissionService(cfg SubmissionConfig) *SubmissionService {
	s := &SubmissionService{
		ledger:        cfg.Ledger,
		placer:        cfg.Placer,
		ids:           cfg.Identifiers,
		notifier:      cfg.Notifier,
		mirror:        cfg.Mirror,
		mirrorEnabled: cfg.MirrorEnabled,
		secretCost:    cfg.SecretCost,
		now:           cfg.Now,
		validate:      newValidator(),
		documents:     validators.NewDocumentValidator(),
	}
	if s.ids == nil {
		s.ids = utils.NewIdentifierGenerator()
	}
	if s.secretCost == 0 {
		s.secretCost = bcrypt.DefaultCost
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// MirrorEnabled reports the operator's mirror flag.
func (s *SubmissionService) MirrorEnabled() bool {
	return s.mirrorEnabled
}

// Ledger exposes the repository for read-only handlers.
func (s *SubmissionService) Ledger() tables.LedgerRepository {
	return s.ledger
}

func (s *SubmissionService) Placer() *documents_services.Placer {
	return s.placer
}

// Submit saves an applicant and any uploaded documents. Non-final calls with
// the same ApplicantID update one row; a final call also mirrors and notifies
// when the mirror flag is on.
func (s *SubmissionService) Submit(ctx context.Context, req SubmissionRequest) SubmissionResult {
	target := models.InProgressApplicant
	if req.Final {
		target = models.CompletedApplicant
	}
	return s.submit(ctx, req, target)
}

// Register creates a pre-registered applicant with no documents.
func (s *SubmissionService) Register(ctx context.Context, req RegistrationRequest) SubmissionResult {
	return s.submit(ctx, SubmissionRequest{
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Program:        req.Program,
		BirthDate:      req.BirthDate,
		ReferralSource: req.ReferralSource,
	}, models.PreRegisteredApplicant)
}

func normalizeSubmission(req *SubmissionRequest) {
	req.ApplicantID = strings.TrimSpace(req.ApplicantID)
	req.TemporaryID = strings.TrimSpace(req.TemporaryID)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Program = strings.TrimSpace(req.Program)
	req.BirthDate = strings.TrimSpace(req.BirthDate)
	req.ReferralSource = strings.TrimSpace(req.ReferralSource)
}

// ValidateSubmission checks a request without touching the store.
func (s *SubmissionService) ValidateSubmission(req SubmissionRequest) *ValidationError {
	normalizeSubmission(&req)

	verr := &ValidationError{}
	validateStruct(s.validate, req, verr)
	validateDocuments(s.documents, req.Documents, verr)
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func (s *SubmissionService) submit(ctx context.Context, req SubmissionRequest, target models.ApplicantStatus) SubmissionResult {
	normalizeSubmission(&req)
	result := SubmissionResult{
		CorrelationID: uuid.NewString(),
		Documents:     []models.Document{},
		Mirror:        stepSkipped("submission is not final"),
		Notification:  stepSkipped("submission is not final"),
	}
	logger := config.Logger.With(zap.String("correlation_id", result.CorrelationID))

	if verr := s.ValidateSubmission(req); verr != nil {
		logger.Info("Submission rejected", zap.Error(verr))
		result.Validation = verr
		result.Err = verr
		result.finish()
		return result
	}

	ledger := s.ledger.Load(ctx)
	if degraded := ledger.Degraded(); len(degraded) > 0 {
		logger.Warn("Continuing with degraded tables", zap.Strings("tables", degraded))
	}

	applicantIDs := ledger.Applicants.Values(models.ApplicantColumnID)
	if verr, err := checkCallerIDs(ledger, req.ApplicantID, req.TemporaryID); verr != nil || err != nil {
		if verr != nil {
			logger.Info("Submission rejected", zap.Error(verr))
			result.Validation = verr
			result.Err = verr
		} else {
			logger.Error("Submission failed", zap.Error(err))
			result.Err = err
		}
		result.finish()
		return result
	}

	// Documents are named after the permanent id when there is one, else
	// after a temporary id that is re-keyed below.
	ownerID := req.ApplicantID
	tempID := req.TemporaryID
	if ownerID == "" && tempID == "" && len(req.Documents) > 0 {
		taken := ledger.Documents.Values(models.DocumentColumnOwnerID)
		for id := range applicantIDs {
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

	placeOwner := ownerID
	if placeOwner == "" {
		placeOwner = tempID
	}
	placed := s.placeDocuments(ctx, ledger, placeOwner, req.FullName, req.Program, req.Documents, &result)
	documents_repositories.Append(ledger.Documents, placed...)

	if ownerID == "" {
		taken := make(map[string]struct{}, len(applicantIDs)+1)
		for id := range applicantIDs {
			taken[id] = struct{}{}
		}
		if tempID != "" {
			taken[tempID] = struct{}{}
		}

		id, err := s.ids.ApplicantID(taken)
		if err != nil {
			// Keep what was placed under the temporary id so a retry can re-key it.
			result.Err = fmt.Errorf("failed to generate applicant id: %w", err)
			result.Tables = s.ledger.Save(ctx, ledger).Results
			result.finish()
			logger.Error("Submission failed", zap.Error(err))
			return result
		}
		ownerID = id
	}
	documents_repositories.RekeyOwner(ledger.Documents, tempID, ownerID)

	applicant, err := s.upsertApplicant(ledger, ownerID, req, target, &result)
	if err != nil {
		result.Err = err
		result.finish()
		logger.Error("Submission failed", zap.Error(err))
		return result
	}
	result.ApplicantID = applicant.ID
	result.Ticket = applicant.Ticket
	result.Applicant = &applicant

	owned := documents_repositories.ByOwner(ledger.Documents, applicant.ID)
	if len(placed) > 0 {
		// Re-read so returned records carry the permanent owner id.
		fresh := make(map[string]bool, len(placed))
		for _, doc := range placed {
			fresh[doc.StoredFilename] = true
		}
		for _, doc := range owned {
			if fresh[doc.StoredFilename] {
				result.Documents = append(result.Documents, doc)
			}
		}
	}

	save := s.ledger.Save(ctx, ledger)
	result.Tables = save.Results
	if !save.OK() {
		logger.Error("Ledger save incomplete", zap.String("detail", save.Message()))
	}

	if req.Final {
		if s.mirrorEnabled {
			result.Mirror = s.pushToMirror(ctx, ledger, owned)
			result.Notification = s.notify(applicant, owned)
		} else {
			result.Mirror = stepSkipped("mirror to remote is disabled")
			result.Notification = stepSkipped("mirror to remote is disabled")
		}
	}

	result.finish()
	logger.Info("Submission processed",
		zap.String("applicant_id", result.ApplicantID),
		zap.String("status", string(result.Status)),
		zap.String("message", result.Message))
	return result
}

func (s *SubmissionService) placeDocuments(
	ctx context.Context,
	ledger *tables.Ledger,
	ownerID, fullName, program string,
	uploads []documents_requests.UploadedDocument,
	result *SubmissionResult,
) []models.Document {
	var placed []models.Document
	recorded := documents_repositories.StoredFilenames(ledger.Documents)

	for i, upload := range uploads {
		doc, err := s.placer.Place(ctx, documents_services.PlaceRequest{
			OwnerID:      ownerID,
			Program:      program,
			FullName:     fullName,
			DocumentType: upload.DocumentType,
			OriginalName: upload.FileName,
			Content:      upload.Content,
			Recorded:     recorded,
		})
		if err != nil {
			result.DocumentsFailed++
			result.DocumentErrors = append(result.DocumentErrors, DocumentError{
				Index:        i,
				FileName:     upload.FileName,
				DocumentType: upload.DocumentType,
				Message:      err.Error(),
				Err:          err,
			})
			continue
		}

		recorded[doc.StoredFilename] = struct{}{}
		placed = append(placed, doc)
		result.DocumentsSucceeded++
	}
	return placed
}

// checkCallerIDs holds ids sent by the caller against the loaded ledger. An
// assigned id must already be an applicant; a temporary id must not be one,
// or the re-key would take over that applicant's documents.
func checkCallerIDs(ledger *tables.Ledger, applicantID, temporaryID string) (*ValidationError, error) {
	verr := &ValidationError{}
	if applicantID != "" && ledger.Applicants.Find(models.ApplicantColumnID, applicantID) < 0 {
		if status := ledger.Status[ledger.Applicants.Name]; status.Degraded() {
			return nil, fmt.Errorf("cannot verify applicant %s: %w", applicantID, status.Err)
		}
		verr.add("applicant_id", "is not a registered applicant")
	}
	if temporaryID != "" && ledger.Applicants.Find(models.ApplicantColumnID, temporaryID) >= 0 {
		verr.add("temporary_id", "is already an applicant id")
	}
	if len(verr.Fields) > 0 {
		return verr, nil
	}
	return nil, nil
}

// upsertApplicant writes the applicant and account rows for id. Fields the
// caller supplied overwrite stored ones; id, submitted_at and ticket are
// kept once assigned and the status only moves forward.
func (s *SubmissionService) upsertApplicant(ledger *tables.Ledger, id string, req SubmissionRequest, target models.ApplicantStatus, result *SubmissionResult) (models.Applicant, error) {
	applicant, found := applicants_repositories.FindApplicant(ledger.Applicants, id)
	if !found {
		if req.ApplicantID != "" {
			return models.Applicant{}, fmt.Errorf("applicant %s is not registered", id)
		}
		applicant = models.Applicant{ID: id, SubmittedAt: models.FormatTimestamp(s.now())}
	}

	if applicant.Ticket == "" {
		ticket, err := s.ids.Ticket(ledger.Applicants.Values(models.ApplicantColumnTicket))
		if err != nil {
			return models.Applicant{}, fmt.Errorf("failed to generate ticket: %w", err)
		}
		applicant.Ticket = ticket
	}
	if applicant.SubmittedAt == "" {
		applicant.SubmittedAt = models.FormatTimestamp(s.now())
	}

	applicant.FullName = req.FullName
	applicant.Email = req.Email
	applicant.Phone = req.Phone
	if program, known := documents_services.ResolveProgram(req.Program); known {
		applicant.Program = program.Name
	} else {
		applicant.Program = documents_services.OtherProgramName
	}
	if req.BirthDate != "" {
		applicant.BirthDate = req.BirthDate
	}
	if req.ReferralSource != "" {
		applicant.ReferralSource = req.ReferralSource
	}
	applicant.Status = applicant.Status.Advance(target)

	owned := documents_repositories.ByOwner(ledger.Documents, id)
	applicant.DocumentsCount = len(owned)
	applicant.DocumentsList = applicant.DocumentsList[:0]
	for _, doc := range owned {
		applicant.DocumentsList = append(applicant.DocumentsList, doc.StoredFilename)
	}

	ledger.Applicants.UpsertByKey(models.ApplicantColumnID, applicant.ID, applicant.ToRow())

	account := models.NewAccountFor(applicant, "")
	if existing, ok := applicants_repositories.FindAccount(ledger.Accounts, id); ok {
		account.Secret = existing.Secret
		account.Active = existing.Active
		if existing.Role != "" {
			account.Role = existing.Role
		}
	}
	if account.Secret == "" {
		plain, hash, err := IssueSecret(s.secretCost)
		if err != nil {
			return models.Applicant{}, err
		}
		account.Secret = hash
		result.IssuedSecret = plain
	}
	ledger.Accounts.UpsertByKey(models.AccountColumnLogin, account.Login, account.ToRow())

	return applicant, nil
}

func (s *SubmissionService) notify(applicant models.Applicant, documents []models.Document) StepResult {
	if s.notifier == nil {
		return stepSkipped("no notifier configured")
	}
	if err := s.notifier.NotifySubmission(applicant, documents, applicant.Status == models.CompletedApplicant); err != nil {
		config.Logger.Warn("Notification failed", zap.String("applicant_id", applicant.ID), zap.Error(err))
		return stepFailed(err)
	}
	return stepDone("operator notified")
}
