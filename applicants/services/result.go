package services

import (
	"fmt"
	"strings"

	"enrollment-backend/db/models"
	"enrollment-backend/tables"
)

type SubmissionStatus string

const (
	SubmissionOK      SubmissionStatus = "ok"
	SubmissionPartial SubmissionStatus = "partial"
	SubmissionFailed  SubmissionStatus = "failed"
)

type StepOutcome string

const (
	StepDone    StepOutcome = "done"
	StepSkipped StepOutcome = "skipped"
	StepFailed  StepOutcome = "failed"
)

// StepResult reports an optional step. Skipped is a deliberate no-op, not a failure.
type StepResult struct {
	Outcome StepOutcome `json:"outcome"`
	Message string      `json:"message"`
	Err     error       `json:"-"`
}

func stepDone(format string, args ...interface{}) StepResult {
	return StepResult{Outcome: StepDone, Message: fmt.Sprintf(format, args...)}
}

func stepSkipped(reason string) StepResult {
	return StepResult{Outcome: StepSkipped, Message: reason}
}

func stepFailed(err error) StepResult {
	return StepResult{Outcome: StepFailed, Message: err.Error(), Err: err}
}

// DocumentError describes one upload that could not be placed.
type DocumentError struct {
	Index        int    `json:"index"`
	FileName     string `json:"file_name"`
	DocumentType string `json:"document_type"`
	Message      string `json:"message"`
	Err          error  `json:"-"`
}

// SubmissionResult carries everything the caller needs to show the outcome.
// IssuedSecret is only set when an account was created by this call.
type SubmissionResult struct {
	CorrelationID      string            `json:"correlation_id"`
	Status             SubmissionStatus  `json:"status"`
	Message            string            `json:"message"`
	ApplicantID        string            `json:"applicant_id,omitempty"`
	Ticket             string            `json:"ticket,omitempty"`
	TemporaryID        string            `json:"temporary_id,omitempty"`
	IssuedSecret       string            `json:"issued_secret,omitempty"`
	Applicant          *models.Applicant `json:"applicant,omitempty"`
	Documents          []models.Document `json:"documents"`
	DocumentsSucceeded int               `json:"documents_succeeded"`
	DocumentsFailed    int               `json:"documents_failed"`
	DocumentErrors     []DocumentError   `json:"document_errors,omitempty"`
	Tables             []tables.Result   `json:"tables"`
	Mirror             StepResult        `json:"mirror"`
	Notification       StepResult        `json:"notification"`
	Validation         *ValidationError  `json:"validation,omitempty"`
	Err                error             `json:"-"`
}

// OK reports whether every step that ran succeeded.
func (r SubmissionResult) OK() bool {
	return r.Status == SubmissionOK
}

func documentCounts(succeeded, failed int) string {
	return fmt.Sprintf("%d succeeded, %d failed", succeeded, failed)
}

// finish derives Status and Message from the collected step outcomes. The
// message leads with the most severe unresolved problem.
func (r *SubmissionResult) finish() {
	var problems []string
	status := SubmissionOK

	save := tables.SaveResult{Results: r.Tables}
	switch {
	case r.Err != nil:
		status = SubmissionFailed
		problems = append(problems, r.Err.Error())
	case len(r.Tables) > 0 && len(save.Failed()) == len(r.Tables):
		status = SubmissionFailed
		problems = append(problems, save.Message())
	case len(r.Tables) == 0 && r.DocumentsSucceeded == 0 && r.DocumentsFailed > 0:
		status = SubmissionFailed
	case len(r.Tables) > 0 && !save.OK():
		status = SubmissionPartial
		problems = append(problems, save.Message())
	}

	if r.DocumentsFailed > 0 {
		if status == SubmissionOK {
			status = SubmissionPartial
		}
		problems = append(problems, fmt.Sprintf("%d document(s) could not be stored", r.DocumentsFailed))
	}

	for _, step := range []struct {
		name   string
		result StepResult
	}{{"mirror", r.Mirror}, {"notification", r.Notification}} {
		if step.result.Outcome == StepFailed {
			if status == SubmissionOK {
				status = SubmissionPartial
			}
			problems = append(problems, fmt.Sprintf("%s failed: %s", step.name, step.result.Message))
		}
	}

	counts := "documents: " + documentCounts(r.DocumentsSucceeded, r.DocumentsFailed)
	r.Status = status
	if len(problems) == 0 {
		r.Message = "submission saved; " + counts
		return
	}
	r.Message = strings.Join(problems, "; ") + "; " + counts
}
