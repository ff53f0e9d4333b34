package models

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is how every timestamp is written into the tables.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is used for birth dates.
const DateLayout = "2006-01-02"

type ApplicantStatus string

const (
	PreRegisteredApplicant ApplicantStatus = "pre-registered"
	InProgressApplicant    ApplicantStatus = "in-progress"
	CompletedApplicant     ApplicantStatus = "completed"
)

func (s ApplicantStatus) rank() int {
	switch s {
	case PreRegisteredApplicant:
		return 1
	case InProgressApplicant:
		return 2
	case CompletedApplicant:
		return 3
	default:
		return 0
	}
}

// Advance returns the later of the two statuses. Status never moves backwards,
// so a completed applicant stays completed when an in-progress save arrives.
func (s ApplicantStatus) Advance(next ApplicantStatus) ApplicantStatus {
	if next.rank() > s.rank() {
		return next
	}
	return s
}

func (s ApplicantStatus) Valid() bool {
	return s.rank() > 0
}

// NoDocuments is written into documents_list when an applicant has none.
const NoDocuments = "none"

const (
	ApplicantColumnID             = "id"
	ApplicantColumnSubmittedAt    = "submitted_at"
	ApplicantColumnFullName       = "full_name"
	ApplicantColumnEmail          = "email"
	ApplicantColumnPhone          = "phone"
	ApplicantColumnProgram        = "program"
	ApplicantColumnStatus         = "status"
	ApplicantColumnTicket         = "ticket"
	ApplicantColumnBirthDate      = "birth_date"
	ApplicantColumnReferralSource = "referral_source"
	ApplicantColumnDocumentsCount = "documents_count"
	ApplicantColumnDocumentsList  = "documents_list"
)

// ApplicantColumns is the column order of the applicant table.
var ApplicantColumns = []string{
	ApplicantColumnID,
	ApplicantColumnSubmittedAt,
	ApplicantColumnFullName,
	ApplicantColumnEmail,
	ApplicantColumnPhone,
	ApplicantColumnProgram,
	ApplicantColumnStatus,
	ApplicantColumnTicket,
	ApplicantColumnBirthDate,
	ApplicantColumnReferralSource,
	ApplicantColumnDocumentsCount,
	ApplicantColumnDocumentsList,
}

// Applicant is one registrant. DocumentsCount and DocumentsList are a snapshot
// taken at save time; the document table is the source of truth.
type Applicant struct {
	ID             string          `json:"id"`
	SubmittedAt    string          `json:"submitted_at"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Program        string          `json:"program"`
	Status         ApplicantStatus `json:"status"`
	Ticket         string          `json:"ticket"`
	BirthDate      string          `json:"birth_date,omitempty"`
	ReferralSource string          `json:"referral_source,omitempty"`
	DocumentsCount int             `json:"documents_count"`
	DocumentsList  []string        `json:"documents_list"`
}

func (a Applicant) ToRow() map[string]string {
	list := NoDocuments
	if len(a.DocumentsList) > 0 {
		list = strings.Join(a.DocumentsList, "; ")
	}

	return map[string]string{
		ApplicantColumnID:             a.ID,
		ApplicantColumnSubmittedAt:    a.SubmittedAt,
		ApplicantColumnFullName:       a.FullName,
		ApplicantColumnEmail:          a.Email,
		ApplicantColumnPhone:          a.Phone,
		ApplicantColumnProgram:        a.Program,
		ApplicantColumnStatus:         string(a.Status),
		ApplicantColumnTicket:         a.Ticket,
		ApplicantColumnBirthDate:      a.BirthDate,
		ApplicantColumnReferralSource: a.ReferralSource,
		ApplicantColumnDocumentsCount: strconv.Itoa(a.DocumentsCount),
		ApplicantColumnDocumentsList:  list,
	}
}

func ApplicantFromRow(row map[string]string) Applicant {
	return Applicant{
		ID:             row[ApplicantColumnID],
		SubmittedAt:    row[ApplicantColumnSubmittedAt],
		FullName:       row[ApplicantColumnFullName],
		Email:          row[ApplicantColumnEmail],
		Phone:          row[ApplicantColumnPhone],
		Program:        row[ApplicantColumnProgram],
		Status:         ApplicantStatus(row[ApplicantColumnStatus]),
		Ticket:         row[ApplicantColumnTicket],
		BirthDate:      row[ApplicantColumnBirthDate],
		ReferralSource: row[ApplicantColumnReferralSource],
		DocumentsCount: parseCount(row[ApplicantColumnDocumentsCount]),
		DocumentsList:  splitList(row[ApplicantColumnDocumentsList]),
	}
}

// parseCount accepts "3" and the "3.0" that spreadsheet tools write back.
func parseCount(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, NoDocuments) {
		return nil
	}

	var items []string
	for _, item := range strings.Split(raw, ";") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// FormatTimestamp renders t the way the tables store it.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
