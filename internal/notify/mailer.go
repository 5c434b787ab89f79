// Package notify 负责向站点管理员发送新线索邮件。
package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/devmart/internal/config"
	"github.com/devmart/internal/model"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var leadTemplate = template.Must(template.ParseFS(templateFS, "templates/lead.html"))

// ErrNoRecipient is returned when no admin address is configured.
var ErrNoRecipient = errors.New("no notification recipient configured")

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// logSender 在未配置 Resend 时仅记录日志
type logSender struct {
	log zerolog.Logger
}

func (s logSender) Send(_ context.Context, to, subject, _ string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Msg("email delivery disabled, skipping")
	return nil
}

// Mailer renders and sends lead notifications.
type Mailer struct {
	sender Sender
	to     string
	log    zerolog.Logger
}

func NewMailer(sender Sender, to string, log zerolog.Logger) *Mailer {
	return &Mailer{sender: sender, to: to, log: log.With().Str("component", "mailer").Logger()}
}

// NewMailerFromConfig uses Resend when an API key is configured.
func NewMailerFromConfig(cfg config.AppConfig, log zerolog.Logger) *Mailer {
	var sender Sender = logSender{log: log}
	if cfg.ResendAPIKey != "" {
		sender = NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
	}
	return NewMailer(sender, cfg.AdminEmail, log)
}

type leadView struct {
	model.Lead
	Received string
}

// RenderLead renders the HTML body for lead.
func RenderLead(lead model.Lead) (string, error) {
	var body bytes.Buffer
	view := leadView{Lead: lead, Received: lead.CreatedAt.UTC().Format(time.RFC1123)}
	if err := leadTemplate.Execute(&body, view); err != nil {
		return "", fmt.Errorf("failed to execute lead template: %w", err)
	}
	return body.String(), nil
}

// LeadSubject is the notification subject line.
func LeadSubject(lead model.Lead) string {
	if lead.Subject != "" {
		return "New lead: " + lead.Subject
	}
	return "New lead from " + lead.Name
}

// NotifyLead sends the notification for lead.
func (m *Mailer) NotifyLead(ctx context.Context, lead model.Lead) error {
	if m.to == "" {
		return ErrNoRecipient
	}

	html, err := RenderLead(lead)
	if err != nil {
		return err
	}

	if err := m.sender.Send(ctx, m.to, LeadSubject(lead), html); err != nil {
		return err
	}

	m.log.Info().Str("lead_id", lead.ID).Str("to", m.to).Msg("lead notification sent")
	return nil
}
