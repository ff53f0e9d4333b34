package utils

import (
	"fmt"
	"path"
	"strings"

	"enrollment-backend/config"
	"enrollment-backend/db/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Initialize the SMTP mailer once and store it in a global variable
var mailer *gomail.Dialer

// InitializeMailer sets up the mailer from the mail configuration
func InitializeMailer(cfg config.MailConfig) {
	if cfg.Host == "" {
		config.Logger.Warn("SMTP_HOST not set, email notifications are disabled")
		mailer = nil
		return
	}

	mailer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	config.Logger.Info("Mailer initialized successfully", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))
}

// GetMailer returns the initialized mailer
func GetMailer() *gomail.Dialer {
	return mailer
}

// mailSender is the part of gomail.Dialer the notifier needs.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier tells the operator about submissions and audit findings.
type MailNotifier struct {
	sender mailSender
	from   string
	to     string
}

func NewMailNotifier(cfg config.MailConfig) *MailNotifier {
	n := &MailNotifier{from: cfg.From, to: cfg.NotificationEmail}
	if d := GetMailer(); d != nil {
		n.sender = d
	}
	return n
}

// SendEmail sends a plain-text message to the operator address.
func (n *MailNotifier) SendEmail(subject, body string) error {
	if n.sender == nil {
		err := fmt.Errorf("mailer is not initialized")
		config.Logger.Error("Email send failed: mailer is not initialized",
			zap.String("to_email", n.to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}
	if n.to == "" {
		return fmt.Errorf("no notification address configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.sender.DialAndSend(m); err != nil {
		config.Logger.Error("Failed to send email via SMTP",
			zap.String("to_email", n.to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	config.Logger.Info("Email sent successfully",
		zap.String("to_email", n.to),
		zap.String("subject", subject),
	)
	return nil
}

// NotifySubmission reports a submission and the documents stored with it.
func (n *MailNotifier) NotifySubmission(applicant models.Applicant, documents []models.Document, completed bool) error {
	subject, body := SubmissionMessage(applicant, documents, completed)
	return n.SendEmail(subject, body)
}

// NotifyOperator sends a free-form operator message.
func (n *MailNotifier) NotifyOperator(subject, body string) error {
	return n.SendEmail(subject, body)
}

// SubmissionMessage composes the subject and body of a submission notice.
func SubmissionMessage(applicant models.Applicant, documents []models.Document, completed bool) (string, string) {
	var b strings.Builder

	subject := fmt.Sprintf("PROGRESS SAVED - %s", applicant.ID)
	if completed {
		subject = fmt.Sprintf("REGISTRATION COMPLETED - %s", applicant.ID)
		b.WriteString("A registration has been completed:\n\n")
	} else {
		b.WriteString("Registration progress has been saved:\n\n")
	}

	fmt.Fprintf(&b, "Applicant id: %s\n", applicant.ID)
	fmt.Fprintf(&b, "Ticket: %s\n", applicant.Ticket)
	fmt.Fprintf(&b, "Program: %s\n", applicant.Program)
	fmt.Fprintf(&b, "Name: %s\n", applicant.FullName)
	fmt.Fprintf(&b, "Email: %s\n", applicant.Email)
	fmt.Fprintf(&b, "Phone: %s\n", applicant.Phone)
	fmt.Fprintf(&b, "Submitted at: %s\n", applicant.SubmittedAt)
	fmt.Fprintf(&b, "Status: %s\n\n", applicant.Status)

	fmt.Fprintf(&b, "Documents uploaded: %d\n", len(documents))
	for _, doc := range documents {
		fmt.Fprintf(&b, "  - %s (%s) in %s\n", doc.StoredFilename, doc.DocumentType, path.Dir(doc.StoragePath))
	}

	return subject, b.String()
}
