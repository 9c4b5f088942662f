// Package ses sends mail through Amazon SES as raw MIME, so attachments are
// carried the same way as over SMTP.
package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"letterapi/internal/mailer"
)

// RawEmailAPI is the subset of the SES client the sender uses.
type RawEmailAPI interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// Sender implements mailer.Sender using SES SendRawEmail.
type Sender struct {
	api  RawEmailAPI
	from string
}

// New creates a sender over an existing SES client.
func New(api RawEmailAPI, from string) *Sender {
	return &Sender{api: api, from: from}
}

// NewFromRegion loads the default AWS credential chain for region.
func NewFromRegion(ctx context.Context, region, from string) (*Sender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}
	return New(ses.NewFromConfig(cfg), from), nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if s.from == "" && email.From == "" {
		return fmt.Errorf("ses: %w", mailer.ErrNotConfigured)
	}
	raw, err := mailer.RawMessage(s.from, email)
	if err != nil {
		return fmt.Errorf("ses: %w", err)
	}

	from := s.from
	if email.From != "" {
		from = email.From
	}
	_, err = s.api.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(from),
		Destinations: email.To,
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return fmt.Errorf("ses: failed to send email: %w", err)
	}
	return nil
}
