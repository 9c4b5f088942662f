// Package smtp sends mail through an SMTP relay with STARTTLS and PLAIN auth.
package smtp

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"letterapi/internal/mailer"
)

// Config holds the relay settings. It is built once at startup.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
	// TLSPolicy defaults to mail.TLSMandatory.
	TLSPolicy mail.TLSPolicy
}

// Sender implements mailer.Sender over SMTP. A new connection is opened for
// every message, so a Sender is safe for concurrent use.
type Sender struct {
	config Config
}

// New creates a new SMTP sender.
func New(cfg Config) *Sender {
	return &Sender{config: cfg}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if s.config.Username == "" || s.config.Password == "" {
		return fmt.Errorf("smtp: %w", mailer.ErrNotConfigured)
	}

	msg, err := mailer.BuildMessage(s.config.From, email)
	if err != nil {
		return fmt.Errorf("smtp: %w", err)
	}

	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTLSPolicy(s.config.TLSPolicy),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.config.Username),
		mail.WithPassword(s.config.Password),
	}
	if s.config.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.config.Timeout))

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	client, err := mail.NewClient(s.config.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp: create client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp: failed to send email: %w", err)
	}
	return nil
}
