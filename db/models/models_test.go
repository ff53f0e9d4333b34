package models

import (
	"reflect"
	"testing"
)

func TestApplicantStatusAdvanceNeverReverses(t *testing.T) {
	tests := []struct {
		current, next, want ApplicantStatus
	}{
		{"", InProgressApplicant, InProgressApplicant},
		{PreRegisteredApplicant, InProgressApplicant, InProgressApplicant},
		{InProgressApplicant, CompletedApplicant, CompletedApplicant},
		{CompletedApplicant, InProgressApplicant, CompletedApplicant},
		{CompletedApplicant, PreRegisteredApplicant, CompletedApplicant},
		{InProgressApplicant, "garbage", InProgressApplicant},
	}

	for _, tt := range tests {
		if got := tt.current.Advance(tt.next); got != tt.want {
			t.Errorf("%q.Advance(%q) = %q, want %q", tt.current, tt.next, got, tt.want)
		}
	}
}

func TestApplicantRowConversion(t *testing.T) {
	applicant := Applicant{
		ID:             "MAT-INS12345",
		SubmittedAt:    "2025-09-25 18:12:00",
		FullName:       "María González",
		Email:          "maria@example.com",
		Phone:          "5512345678",
		Program:        "Licenciatura en Enfermería",
		Status:         InProgressApplicant,
		Ticket:         "FOL-20250925-1234",
		DocumentsCount: 2,
		DocumentsList:  []string{"a.pdf", "b.pdf"},
	}

	row := applicant.ToRow()
	if row[ApplicantColumnDocumentsList] != "a.pdf; b.pdf" {
		t.Errorf("documents_list = %q", row[ApplicantColumnDocumentsList])
	}
	if len(row) != len(ApplicantColumns) {
		t.Errorf("row has %d columns, want %d", len(row), len(ApplicantColumns))
	}

	back := ApplicantFromRow(row)
	if !reflect.DeepEqual(back, applicant) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, applicant)
	}
}

func TestApplicantFromRowToleratesSpreadsheetEdits(t *testing.T) {
	got := ApplicantFromRow(map[string]string{
		ApplicantColumnDocumentsCount: "3.0",
		ApplicantColumnDocumentsList:  "none",
	})
	if got.DocumentsCount != 3 {
		t.Errorf("DocumentsCount = %d, want 3", got.DocumentsCount)
	}
	if got.DocumentsList != nil {
		t.Errorf("DocumentsList = %v, want nil", got.DocumentsList)
	}
}

func TestNewAccountForDenormalizesApplicant(t *testing.T) {
	applicant := Applicant{ID: "MAT-INS00001", FullName: "Ana", Email: "ana@example.com", SubmittedAt: "2025-01-01 10:00:00", Status: CompletedApplicant}
	account := NewAccountFor(applicant, "$2a$10$hash")

	row := account.ToRow()
	if row[AccountColumnLogin] != applicant.ID || row[AccountColumnActive] != "true" || row[AccountColumnRole] != ApplicantRole {
		t.Errorf("unexpected account row: %v", row)
	}
	if back := AccountFromRow(row); back != account {
		t.Errorf("round trip mismatch: %+v vs %+v", back, account)
	}
}
