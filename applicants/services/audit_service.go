package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"enrollment-backend/config"
	"enrollment-backend/db/models"
	documents_repositories "enrollment-backend/documents/repositories"
	"enrollment-backend/tables"
	"enrollment-backend/utils"

	"go.uber.org/zap"
)

// OperatorNotifier sends free-form messages to the operator.
type OperatorNotifier interface {
	NotifyOperator(subject, body string) error
}

// CountDrift is an applicant whose stored documents_count disagrees with the
// document table.
type CountDrift struct {
	ApplicantID string `json:"applicant_id"`
	Recorded    int    `json:"recorded"`
	Actual      int    `json:"actual"`
}

// AuditReport lists inconsistencies found in the ledger. The audit only
// reads; nothing is repaired.
type AuditReport struct {
	Applicants       int                 `json:"applicants"`
	Documents        int                 `json:"documents"`
	Staged           int                 `json:"staged_documents"`
	OrphanDocuments  []models.Document   `json:"orphan_documents"`
	DuplicateTickets map[string][]string `json:"duplicate_tickets"`
	CountDrift       []CountDrift        `json:"count_drift"`
	Degraded         []string            `json:"degraded_tables,omitempty"`
}

// Clean reports whether nothing needs the operator's attention.
func (r AuditReport) Clean() bool {
	return len(r.OrphanDocuments) == 0 && len(r.DuplicateTickets) == 0 && len(r.CountDrift) == 0 && len(r.Degraded) == 0
}

func (r AuditReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ledger audit: %d applicants, %d documents, %d staged\n", r.Applicants, r.Documents, r.Staged)
	if len(r.Degraded) > 0 {
		fmt.Fprintf(&b, "Unreadable tables: %s\n", strings.Join(r.Degraded, ", "))
	}

	fmt.Fprintf(&b, "Orphan documents: %d\n", len(r.OrphanDocuments))
	for _, doc := range r.OrphanDocuments {
		fmt.Fprintf(&b, "  - %s (owner %s)\n", doc.StoredFilename, doc.OwnerID)
	}

	tickets := make([]string, 0, len(r.DuplicateTickets))
	for ticket := range r.DuplicateTickets {
		tickets = append(tickets, ticket)
	}
	sort.Strings(tickets)
	fmt.Fprintf(&b, "Duplicate tickets: %d\n", len(tickets))
	for _, ticket := range tickets {
		fmt.Fprintf(&b, "  - %s: %s\n", ticket, strings.Join(r.DuplicateTickets[ticket], ", "))
	}

	fmt.Fprintf(&b, "Document count drift: %d\n", len(r.CountDrift))
	for _, drift := range r.CountDrift {
		fmt.Fprintf(&b, "  - %s: recorded %d, actual %d\n", drift.ApplicantID, drift.Recorded, drift.Actual)
	}
	return b.String()
}

type AuditService struct {
	ledger   tables.LedgerRepository
	notifier OperatorNotifier
}

func NewAuditService(ledger tables.LedgerRepository, notifier OperatorNotifier) *AuditService {
	return &AuditService{ledger: ledger, notifier: notifier}
}

// Run loads the ledger and checks it.
func (s *AuditService) Run(ctx context.Context) AuditReport {
	return Audit(s.ledger.Load(ctx))
}

// RunAndReport runs the audit and mails the operator when it finds
// something. It is the scheduled entry point.
func (s *AuditService) RunAndReport(ctx context.Context) error {
	report := s.Run(ctx)
	if report.Clean() {
		config.Logger.Info("Ledger audit clean",
			zap.Int("applicants", report.Applicants),
			zap.Int("documents", report.Documents))
		return nil
	}

	config.Logger.Warn("Ledger audit found problems",
		zap.Int("orphan_documents", len(report.OrphanDocuments)),
		zap.Int("duplicate_tickets", len(report.DuplicateTickets)),
		zap.Int("count_drift", len(report.CountDrift)),
		zap.Strings("degraded_tables", report.Degraded))

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.NotifyOperator("LEDGER AUDIT", report.Summary()); err != nil {
		return fmt.Errorf("failed to send audit report: %w", err)
	}
	return nil
}

// Audit checks one loaded ledger.
func Audit(ledger *tables.Ledger) AuditReport {
	report := AuditReport{
		Applicants:       ledger.Applicants.Len(),
		Documents:        ledger.Documents.Len(),
		OrphanDocuments:  []models.Document{},
		DuplicateTickets: map[string][]string{},
		CountDrift:       []CountDrift{},
		Degraded:         ledger.Degraded(),
	}

	ids := ledger.Applicants.Values(models.ApplicantColumnID)
	actual := map[string]int{}
	for _, doc := range documents_repositories.All(ledger.Documents) {
		if _, ok := ids[doc.OwnerID]; !ok {
			// Staged documents wait under a temporary id until Submit.
			if strings.HasPrefix(doc.OwnerID, utils.TemporaryIDPrefix) {
				report.Staged++
				continue
			}
			report.OrphanDocuments = append(report.OrphanDocuments, doc)
			continue
		}
		actual[doc.OwnerID]++
	}

	byTicket := map[string][]string{}
	for _, row := range ledger.Applicants.Rows {
		applicant := models.ApplicantFromRow(row)
		if applicant.Ticket != "" {
			byTicket[applicant.Ticket] = append(byTicket[applicant.Ticket], applicant.ID)
		}
		if applicant.DocumentsCount != actual[applicant.ID] {
			report.CountDrift = append(report.CountDrift, CountDrift{
				ApplicantID: applicant.ID,
				Recorded:    applicant.DocumentsCount,
				Actual:      actual[applicant.ID],
			})
		}
	}
	for ticket, owners := range byTicket {
		if len(owners) > 1 {
			report.DuplicateTickets[ticket] = owners
		}
	}

	return report
}
