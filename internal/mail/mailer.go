// Package mail delivers transactional email over SMTP.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// Sender dispatches the transactional messages the auth flows need.
// Delivery is best-effort; callers log failures and move on.
type Sender interface {
	SendVerification(ctx context.Context, to, link string) error
	SendPasswordReset(ctx context.Context, to, link string) error
}

// SMTPSender implements Sender using a plain SMTP relay.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// NewSMTPSender connects the sender to the configured relay.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: new client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

// SendVerification emails the account verification link.
func (s *SMTPSender) SendVerification(ctx context.Context, to, link string) error {
	body := fmt.Sprintf(`<p>Please verify your email by clicking on the following link: <a href="%s">Verify Email</a></p>`, link)
	return s.send(ctx, to, "Email Verification", body)
}

// SendPasswordReset emails the password reset link.
func (s *SMTPSender) SendPasswordReset(ctx context.Context, to, link string) error {
	body := fmt.Sprintf(`<p>You requested a password reset. Click the following link to choose a new password: <a href="%s">Reset Password</a></p>`, link)
	return s.send(ctx, to, "Password Reset", body)
}

func (s *SMTPSender) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

var _ Sender = (*SMTPSender)(nil)
