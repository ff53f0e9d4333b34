package utils

import (
	"errors"
	"strings"
	"testing"

	"enrollment-backend/db/models"

	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (r *recordingSender) DialAndSend(m ...*gomail.Message) error {
	r.messages = append(r.messages, m...)
	return r.err
}

func TestSubmissionMessage(t *testing.T) {
	applicant := models.Applicant{ID: "MAT-INS00001", Ticket: "FOL-20250925-0001", FullName: "Ana", Status: models.CompletedApplicant}
	docs := []models.Document{{StoredFilename: "a.pdf", DocumentType: "CURP", StoragePath: "/srv/escuela/LICENCIATURAS/a.pdf"}}

	subject, body := SubmissionMessage(applicant, docs, true)
	if subject != "REGISTRATION COMPLETED - MAT-INS00001" {
		t.Errorf("subject = %q", subject)
	}
	for _, want := range []string{"FOL-20250925-0001", "Documents uploaded: 1", "a.pdf (CURP) in /srv/escuela/LICENCIATURAS"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}

	subject, _ = SubmissionMessage(applicant, nil, false)
	if !strings.HasPrefix(subject, "PROGRESS SAVED") {
		t.Errorf("subject = %q", subject)
	}
}

func TestMailNotifierSends(t *testing.T) {
	sender := &recordingSender{}
	notifier := &MailNotifier{sender: sender, from: "noreply@example.org", to: "ops@example.org"}

	if err := notifier.NotifySubmission(models.Applicant{ID: "MAT-INS00001"}, nil, true); err != nil {
		t.Fatalf("NotifySubmission: %v", err)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(sender.messages))
	}
	if got := sender.messages[0].GetHeader("To"); len(got) != 1 || got[0] != "ops@example.org" {
		t.Errorf("To = %v", got)
	}
}

func TestMailNotifierWithoutMailer(t *testing.T) {
	notifier := &MailNotifier{to: "ops@example.org"}
	if err := notifier.NotifyOperator("subject", "body"); err == nil {
		t.Fatal("expected error when mailer is not initialized")
	}

	failing := &MailNotifier{sender: &recordingSender{err: errors.New("smtp down")}, to: "ops@example.org"}
	if err := failing.NotifyOperator("subject", "body"); err == nil {
		t.Fatal("expected SMTP error to be returned")
	}
}
