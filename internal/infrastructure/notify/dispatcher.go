// Package notify delivers scheduler notifications to administrators
// and suppresses repeats.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"fieldops/internal/domain/scheduler"
	"fieldops/pkg/logger"
)

// Config configures outgoing mail. With Enabled false, notifications
// are logged instead of sent, which is the development default.
type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// LogDispatcher writes notifications to the log. Used when mail
// delivery is disabled.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ctx context.Context, recipient, subject, body string) error {
	logger.Info(ctx, "notification (mail disabled)",
		"recipient", recipient, "subject", subject, "body", body)
	return nil
}

// SMTPDispatcher sends notifications over SMTP with PLAIN auth.
type SMTPDispatcher struct {
	cfg Config
}

func NewSMTPDispatcher(cfg Config) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg}
}

func (d *SMTPDispatcher) Dispatch(ctx context.Context, recipient, subject, body string) error {
	if strings.TrimSpace(recipient) == "" {
		logger.Warn(ctx, "notification skipped, recipient has no email", "subject", subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + d.cfg.From,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", d.cfg.Host, d.cfg.Port)
	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, d.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}

	logger.Debug(ctx, "notification sent", "recipient", recipient, "subject", subject)
	return nil
}

// FromConfig returns the dispatcher matching the configuration.
func FromConfig(cfg Config) scheduler.Notifier {
	if cfg.Enabled {
		return NewSMTPDispatcher(cfg)
	}
	return LogDispatcher{}
}
