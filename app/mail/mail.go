package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/careerbridge/careerbridge-api/config"
)

// Notifier sends account lifecycle emails. The auth service only depends on
// this interface; transport and templating live here.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}

var _ Notifier = (*SMTPNotifier)(nil)

type SMTPNotifier struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

func NewSMTPNotifier(cfg config.SMTPConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPNotifier) SendVerificationEmail(ctx context.Context, to, token string) error {
	verificationURL := fmt.Sprintf("%s/verify/%s", n.cfg.FrontendURL, token)
	body := fmt.Sprintf(`<p>Thank you for registering!</p>
<p>Please verify your email by clicking the link below:</p>
<a href="%s">%s</a>
<p>If you did not create an account, you can ignore this email.</p>`,
		verificationURL, verificationURL)

	return n.send(ctx, to, "Verify your email address", body)
}

func (n *SMTPNotifier) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", n.cfg.FrontendURL, token)
	body := fmt.Sprintf(`<p>You requested a password reset.</p>
<p>Click the link below to reset your password. This link is valid for 1 hour:</p>
<a href="%s">%s</a>
<p>If you did not request a password reset, you can ignore this email.</p>`,
		resetURL, resetURL)

	return n.send(ctx, to, "Reset your password", body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		n.logger.ErrorContext(ctx, "Failed to send email",
			slog.String("subject", subject), slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.DebugContext(ctx, "Email sent", slog.String("subject", subject))
	return nil
}
