// Package resend sends mail through the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"letterapi/internal/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	apiKey string
	from   string
}

// New creates a new Resend sender.
func New(apiKey, from string) *Sender {
	return &Sender{client: resend.NewClient(apiKey), apiKey: apiKey, from: from}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if s.apiKey == "" {
		return fmt.Errorf("resend: %w", mailer.ErrNotConfigured)
	}
	req, err := s.request(email)
	if err != nil {
		return err
	}
	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	return nil
}

func (s *Sender) request(email *mailer.Email) (*resend.SendEmailRequest, error) {
	if err := email.Validate(); err != nil {
		return nil, fmt.Errorf("resend: %w", err)
	}
	from := email.From
	if from == "" {
		from = s.from
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}
	if len(email.Attachments) > 0 {
		req.Attachments = make([]*resend.Attachment, len(email.Attachments))
		for i, a := range email.Attachments {
			req.Attachments[i] = &resend.Attachment{
				Filename:    a.Filename,
				Content:     a.Content,
				ContentType: a.ContentType,
			}
		}
	}
	return req, nil
}
