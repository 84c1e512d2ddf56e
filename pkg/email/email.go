package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"care-recruitment-backend/config"
	"care-recruitment-backend/internal/domain"
)

// SendFunc matches smtp.SendMail so tests can capture outgoing mail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService sends applicant confirmations via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      SendFunc
}

// ApplicationEmailData holds the data for the confirmation template
type ApplicationEmailData struct {
	FullName      string
	Role          string
	ApplicationID string
	TestID        string
}

// NewEmailService creates a new email service from SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	from := cfg.SMTPFromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: from,
		send:      smtp.SendMail,
	}
}

// WithSender swaps the transport, used by tests.
func (s *EmailService) WithSender(send SendFunc) *EmailService {
	s.send = send
	return s
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Application received</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thank you for applying</h1>
        </div>
        <div class="content">
            <p>Dear {{.FullName}},</p>
            <p>We have received your application for the <strong>{{.Role}}</strong> position.</p>
            <p>Your reference number is <strong>{{.ApplicationID}}</strong>.</p>
            {{if .TestID}}<p>Please complete the caregiver assessment using test reference <strong>{{.TestID}}</strong>.</p>{{end}}
            <p>Our team will review your documents and contact you soon.</p>
        </div>
        <div class="footer">
            <p>This is an automated message. Please do not reply.</p>
        </div>
    </div>
</body>
</html>`))

// ApplicationReceived sends the confirmation to the applicant. It is a no-op
// when SMTP is not configured.
func (s *EmailService) ApplicationReceived(ctx context.Context, user *domain.User, app *domain.Application, testID *string) error {
	if !s.IsConfigured() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := ApplicationEmailData{
		FullName:      user.FullName,
		Role:          app.Role,
		ApplicationID: app.ID,
	}
	if testID != nil {
		data.TestID = *testID
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		user.Email,
		"Your application has been received",
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{user.Email}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
