// Package mailer delivers transactional email.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/wneessen/go-mail"
)

const appName = "Slice-URL"

// ConfirmationSubject is the subject line of account confirmation mails.
const ConfirmationSubject = "Slice Url - Account Confirmation"

//go:generate mockgen -destination=../mocks/mailer.go -package=mocks slice-url/internal/mailer Mailer

// Mailer sends account mails.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, fullName, confirmationURL string) error
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.6;">
  <h2>{{.AppName}} Account Confirmation</h2>
  <p>Hi {{.FullName}},</p>
  <p>Thank you for registering with us! Please confirm your email address by clicking the link below:</p>
  <a href="{{.URL}}" style="display: inline-block; padding: 10px 20px; background-color: #28a745; color: white; text-decoration: none; border-radius: 5px;">
    Confirm your account
  </a>
  <p>If the button above does not work, you can also confirm your account by clicking the link below:</p>
  <p><a href="{{.URL}}">{{.URL}}</a></p>
  <p>Thanks,<br/>The {{.AppName}} team</p>
</div>
`))

// RenderConfirmation returns the HTML body of the confirmation mail
func RenderConfirmation(fullName, confirmationURL string) (string, error) {
	var buf bytes.Buffer
	err := confirmationTemplate.Execute(&buf, struct {
		AppName  string
		FullName string
		URL      string
	}{appName, fullName, confirmationURL})
	if err != nil {
		return "", fmt.Errorf("failed to render confirmation mail: %w", err)
	}
	return buf.String(), nil
}

// SMTPConfig holds the SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay
type SMTPMailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer for the given relay
func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, fullName, confirmationURL string) error {
	body, err := RenderConfirmation(fullName, confirmationURL)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(ConfirmationSubject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.InfoContext(ctx, "confirmation mail sent", "to", to)
	return nil
}

// LogMailer writes mails to the log instead of sending them. Used when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendConfirmation(ctx context.Context, to, fullName, confirmationURL string) error {
	m.logger.InfoContext(ctx, "confirmation mail",
		"to", to,
		"full_name", fullName,
		"url", confirmationURL,
	)
	return nil
}
